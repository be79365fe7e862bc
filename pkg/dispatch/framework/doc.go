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

// Package framework defines the plugin contract for the waiting store of the dispatch registry.
//
// The primary contract is `PriorityQueue`: an array-backed store that always yields the entity with the lowest
// priority value next. Implementations are registered by name in the `plugins/queue` package and selected through
// registry configuration.
//
// Implementations declare their behaviour at capacity through `QueueCapability`, which lets the registry and tests
// reason about whether an insert into a full queue fails or reallocates.
package framework
