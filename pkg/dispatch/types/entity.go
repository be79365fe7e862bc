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
	"fmt"
	"time"
)

// Entity is the immutable record of a single admitted item.
//
// All fields are unexported and only readable through value-receiver accessors. An `Entity` is created once by the
// registry at admission time and then moves by value between containers (waiting queue, served log, callers). Copies
// are cheap and can never alias the storage of the container that produced them.
type Entity struct {
	id         uint64
	label      string
	priority   int
	admittedAt time.Time
}

// NewEntity creates a new `Entity`.
// The registry is the only component expected to call this in production; it is exported for queue implementations
// and tests.
func NewEntity(id uint64, label string, priority int, admittedAt time.Time) Entity {
	return Entity{
		id:         id,
		label:      label,
		priority:   priority,
		admittedAt: admittedAt,
	}
}

// ID returns the identifier issued by the registry. Identifiers are unique for the lifetime of a registry and are
// never reused.
func (e Entity) ID() uint64 { return e.id }

// Label returns the opaque, caller-supplied text of the entity.
func (e Entity) Label() string { return e.label }

// Priority returns the urgency of the entity. A lower value means the entity is served sooner.
func (e Entity) Priority() int { return e.priority }

// AdmittedAt returns the registry clock reading at the time the entity was admitted.
// It is informational only and never participates in ordering.
func (e Entity) AdmittedAt() time.Time { return e.admittedAt }

// Less reports whether e must be served strictly before other. Equal priorities are not ordered.
func (e Entity) Less(other Entity) bool {
	return e.priority < other.priority
}

func (e Entity) String() string {
	return fmt.Sprintf("ID: %d, Label: %s, Priority: %d", e.id, e.label, e.priority)
}
