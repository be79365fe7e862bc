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

// Package types defines the core data structures and sentinel errors of the dispatch system.
//
// It establishes the vocabulary shared by the registry, the queue plugins and the served log. The central value is the
// `Entity`: an immutable record describing one admitted item. Entities are always passed by value, so no component
// can observe or corrupt the backing store of another.
package types
