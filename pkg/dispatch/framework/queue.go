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
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

// QueueCapability defines a functional capability that a `PriorityQueue` implementation can provide.
type QueueCapability string

const (
	// CapabilityBoundedCapacity indicates that the queue never holds more entities than the capacity it was created
	// with. Insert() on a full queue returns `ErrCapacityExceeded`.
	CapabilityBoundedCapacity QueueCapability = "BoundedCapacity"

	// CapabilityAutoGrow indicates that the queue reallocates its backing store (amortized doubling) when full, so
	// Insert() never returns `ErrCapacityExceeded`.
	CapabilityAutoGrow QueueCapability = "AutoGrow"
)

// QueueInspectionMethods defines PriorityQueue's read-only methods.
type QueueInspectionMethods interface {
	// Name returns a string identifier for the concrete queue implementation type (e.g., "BinaryMinHeap").
	Name() string

	// Capabilities returns the set of functional capabilities this queue instance provides.
	Capabilities() []QueueCapability

	// Len returns the current number of entities in the queue.
	Len() int

	// Cap returns the number of entities the queue can hold before its capacity behaviour applies.
	Cap() int

	// PeekMin returns a copy of the entity with the lowest priority value without removing it.
	// Returns `ErrQueueEmpty` if the queue is empty.
	// Time complexity: O(1).
	PeekMin() (types.Entity, error)
}

// PriorityQueue defines the contract for a single waiting store.
//
// The queue must keep the entity with the lowest priority value at its head. Among entities with equal priority the
// order is structural (determined by the sequence of operations), not FIFO.
//
// Implementations are NOT required to be goroutine-safe: the owning `registry.Registry` serializes every call behind
// its own mutex.
type PriorityQueue interface {
	QueueInspectionMethods

	// Insert adds an entity to the queue.
	// Returns `ErrCapacityExceeded` if the queue is full and does not provide `CapabilityAutoGrow`. On error, the queue
	// MUST be left unchanged.
	// Time complexity: O(log n).
	Insert(entity types.Entity) error

	// ExtractMin removes and returns the entity with the lowest priority value.
	// Returns `ErrQueueEmpty` if the queue is empty; implementations MUST NOT fabricate a placeholder entity.
	// Time complexity: O(log n).
	ExtractMin() (types.Entity, error)

	// Drain removes all entities from the queue and returns them in a slice, in no particular order.
	// The queue MUST be empty after this operation.
	Drain() []types.Entity
}
