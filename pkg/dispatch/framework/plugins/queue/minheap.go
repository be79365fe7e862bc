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

package queue

import (
	"fmt"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

const (
	// BinaryMinHeapName is the name of the fixed-capacity binary min-heap implementation.
	BinaryMinHeapName = "BinaryMinHeap"

	// GrowableMinHeapName is the name of the binary min-heap implementation that doubles its backing store when full.
	GrowableMinHeapName = "GrowableMinHeap"
)

func init() {
	MustRegisterQueue(RegisteredQueueName(BinaryMinHeapName),
		func(capacity int) (framework.PriorityQueue, error) {
			return newBinaryMinHeap(capacity, false)
		})
	MustRegisterQueue(RegisteredQueueName(GrowableMinHeapName),
		func(capacity int) (framework.PriorityQueue, error) {
			return newBinaryMinHeap(capacity, true)
		})
}

// binaryMinHeap implements the `framework.PriorityQueue` interface using an array-backed binary min-heap ordered by
// `types.Entity.Priority()`.
//
// For every index i, the entity at i has a priority less than or equal to the priorities of its children at 2i+1 and
// 2i+2. Both restoration walks (up after insert, down after extract) are loops that touch a single root-to-leaf path,
// so stack usage is constant and time is O(log n).
//
// This implementation is not concurrent-safe.
type binaryMinHeap struct {
	items    []types.Entity
	capacity int
	growable bool
}

// newBinaryMinHeap creates an empty heap able to hold capacity entities.
func newBinaryMinHeap(capacity int, growable bool) (*binaryMinHeap, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", framework.ErrInvalidCapacity, capacity)
	}
	return &binaryMinHeap{
		items:    make([]types.Entity, 0, capacity),
		capacity: capacity,
		growable: growable,
	}, nil
}

// --- `framework.PriorityQueue` Interface Implementation ---

// Name returns the name of the queue.
func (h *binaryMinHeap) Name() string {
	if h.growable {
		return GrowableMinHeapName
	}
	return BinaryMinHeapName
}

// Capabilities returns the capabilities of the queue.
func (h *binaryMinHeap) Capabilities() []framework.QueueCapability {
	if h.growable {
		return []framework.QueueCapability{framework.CapabilityAutoGrow}
	}
	return []framework.QueueCapability{framework.CapabilityBoundedCapacity}
}

// Len returns the number of entities in the queue.
func (h *binaryMinHeap) Len() int {
	return len(h.items)
}

// Cap returns the current capacity of the queue.
func (h *binaryMinHeap) Cap() int {
	return h.capacity
}

// PeekMin returns the entity at the root of the heap without removing it.
// Time complexity: O(1).
func (h *binaryMinHeap) PeekMin() (types.Entity, error) {
	if len(h.items) == 0 {
		return types.Entity{}, framework.ErrQueueEmpty
	}
	return h.items[0], nil
}

// Insert adds an entity to the heap.
// Time complexity: O(log n).
func (h *binaryMinHeap) Insert(entity types.Entity) error {
	if len(h.items) == h.capacity {
		if !h.growable {
			return fmt.Errorf("%w: %d of %d slots in use", framework.ErrCapacityExceeded, len(h.items), h.capacity)
		}
		h.grow()
	}
	h.items = append(h.items, entity)
	h.up(len(h.items) - 1)
	return nil
}

// grow doubles the backing store.
func (h *binaryMinHeap) grow() {
	grown := make([]types.Entity, len(h.items), 2*h.capacity)
	copy(grown, h.items)
	h.items = grown
	h.capacity *= 2
}

// up moves the entity at index i towards the root while it is strictly smaller than its parent.
func (h *binaryMinHeap) up(i int) {
	for i > 0 {
		parentIndex := (i - 1) / 2
		if !h.items[i].Less(h.items[parentIndex]) {
			break
		}
		h.swap(i, parentIndex)
		i = parentIndex
	}
}

// ExtractMin removes and returns the root of the heap.
// Time complexity: O(log n).
func (h *binaryMinHeap) ExtractMin() (types.Entity, error) {
	n := len(h.items)
	if n == 0 {
		return types.Entity{}, framework.ErrQueueEmpty
	}

	root := h.items[0]
	last := n - 1
	if last > 0 {
		// Move the last entity into the root slot; it is pushed back down below.
		h.items[0] = h.items[last]
	}
	h.items[last] = types.Entity{} // Release the label for GC.
	h.items = h.items[:last]

	if last > 1 {
		h.down(0)
	}
	return root, nil
}

// down moves the entity at index i away from the root while one of its children is strictly smaller.
// On equal children the left child is chosen.
func (h *binaryMinHeap) down(i int) {
	n := len(h.items)
	for {
		smallest := i
		leftChild := 2*i + 1
		rightChild := 2*i + 2

		if leftChild < n && h.items[leftChild].Less(h.items[smallest]) {
			smallest = leftChild
		}
		if rightChild < n && h.items[rightChild].Less(h.items[smallest]) {
			smallest = rightChild
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

// swap swaps two entities in the heap.
func (h *binaryMinHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

// Drain removes all entities from the queue.
func (h *binaryMinHeap) Drain() []types.Entity {
	drained := make([]types.Entity, len(h.items))
	copy(drained, h.items)

	clear(h.items)
	h.items = h.items[:0]
	return drained
}

var _ framework.PriorityQueue = &binaryMinHeap{}
