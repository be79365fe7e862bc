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

// Package registry provides the `Registry`, the owner of a single-priority-class dispatch queue.
//
// A `Registry` admits labelled entities with an integer priority into a waiting queue (a `framework.PriorityQueue`),
// serves them lowest priority value first, and records every served entity, in service order, in a bounded served log
// (`servedlog.Log`).
//
// # Identifiers
//
// Each call to `Admit` consumes the next identifier (starting at 1) before any validation takes place, so identifiers
// are unique and strictly increasing in call order even when the admission is rejected.
//
// # Concurrency
//
// The waiting queue and the served log are not safe for concurrent use on their own. The `Registry` guards both with
// a single mutex; every exported method acquires it, so a `Registry` may be shared between goroutines.
//
// # Lifecycle
//
// A `Registry` is `Active` from construction until `Dispose` is called, after which it is `Disposed` and every other
// method returns `types.ErrRegistryDisposed`.
package registry
