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

package registry

import (
	"fmt"
)

// componentStatus represents the lifecycle state of a `Registry`.
// Transitions happen under the registry mutex.
type componentStatus int32

const (
	// componentStatusActive indicates the registry is accepting admissions and serving entities.
	componentStatusActive componentStatus = iota

	// componentStatusDisposed indicates the registry has been torn down. This state is terminal.
	componentStatusDisposed
)

func (s componentStatus) String() string {
	switch s {
	case componentStatusActive:
		return "Active"
	case componentStatusDisposed:
		return "Disposed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}
