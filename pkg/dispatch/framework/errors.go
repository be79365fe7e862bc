/*
Copyright 2025 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package framework

import (
	"errors"
)

// `PriorityQueue` Errors
//
// These errors relate to operations directly on a `PriorityQueue` implementation. They are returned by
// `PriorityQueue` methods and are wrapped by the `registry.Registry` before reaching its callers.
var (
	// ErrCapacityExceeded indicates that an insert was attempted while the queue held as many entities as its capacity
	// allows. The queue is left unchanged.
	ErrCapacityExceeded = errors.New("queue capacity exceeded")

	// ErrQueueEmpty indicates that an extract or peek was attempted on a queue that holds no entities. This is an
	// expected steady-state condition and must never be treated as fatal.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrInvalidCapacity indicates that a queue was constructed with a non-positive capacity.
	ErrInvalidCapacity = errors.New("queue capacity must be greater than 0")
)
