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

package types

import (
	"errors"
)

// --- High-Level Outcome Errors ---

var (
	// ErrRejected is a sentinel error indicating an admission was refused by the registry. The entity was never placed
	// in the waiting queue, although its identifier was still consumed. Errors returned by `Registry.Admit()` always
	// wrap this error together with the specific cause.
	//
	// Callers should use `errors.Is(err, ErrRejected)` to check for this general class of failure.
	ErrRejected = errors.New("admission rejected")
)

// --- Admission Rejection Causes ---

var (
	// ErrLabelTooLong indicates that the supplied label exceeds the registry's configured maximum label length.
	ErrLabelTooLong = errors.New("label exceeds maximum length")
)

// --- General Registry Errors ---

var (
	// ErrRegistryDisposed indicates that an operation was attempted on a registry that has already been disposed.
	// This is a programming contract violation rather than a recoverable runtime condition.
	ErrRegistryDisposed = errors.New("dispatch registry has been disposed")
)
