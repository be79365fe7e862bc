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

// Package servedlog provides the append-only record of entities that have left the waiting queue.
//
// Entries are kept in service order (chronological), never in priority order, and are never reordered or removed
// after being recorded. The log is diagnostic: when it is full, new entries are refused with `ErrLogFull` and the
// caller decides how to report that.
package servedlog

import (
	"errors"
	"fmt"
	"iter"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

var (
	// ErrLogFull indicates that an append was attempted on a log that already holds its maximum number of entries.
	// The entity is not recorded.
	ErrLogFull = errors.New("served log is full")

	// ErrInvalidCapacity indicates that a log was constructed with a non-positive capacity.
	ErrInvalidCapacity = errors.New("served log capacity must be greater than 0")
)

// Log is a bounded, append-only sequence of served entities.
// It is not concurrent-safe; the owning registry serializes access.
type Log struct {
	entries  []types.Entity
	capacity int
}

// New creates an empty log that accepts up to capacity entries.
func New(capacity int) (*Log, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Log{
		entries:  make([]types.Entity, 0, capacity),
		capacity: capacity,
	}, nil
}

// Append records entity at the end of the log.
func (l *Log) Append(entity types.Entity) error {
	if len(l.entries) == l.capacity {
		return fmt.Errorf("%w: entity %d not recorded, %d of %d entries in use",
			ErrLogFull, entity.ID(), len(l.entries), l.capacity)
	}
	l.entries = append(l.entries, entity)
	return nil
}

// Len returns the number of recorded entries.
func (l *Log) Len() int { return len(l.entries) }

// Cap returns the maximum number of entries.
func (l *Log) Cap() int { return l.capacity }

// All returns a sequence over the entries recorded at the time of the call, from first to most recent.
//
// The sequence is finite and can be ranged over any number of times. Entries appended after All returns are not
// visible to it; existing entries never change, so no copy is needed.
func (l *Log) All() iter.Seq[types.Entity] {
	entries := l.entries[:len(l.entries):len(l.entries)]
	return func(yield func(types.Entity) bool) {
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Snapshot returns an independent copy of all entries in service order.
func (l *Log) Snapshot() []types.Entity {
	snapshot := make([]types.Entity, len(l.entries))
	copy(snapshot, l.entries)
	return snapshot
}
