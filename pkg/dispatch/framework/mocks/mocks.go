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

// Package mocks provides simple, configurable mock implementations of the dispatch framework interfaces, intended for
// use in unit tests of components that own a `framework.PriorityQueue`.
package mocks

import (
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

// MockPriorityQueue is a mock implementation of the `framework.PriorityQueue` interface.
// Unset function fields fall back to the behaviour of an always-empty queue.
type MockPriorityQueue struct {
	NameV           string
	CapabilitiesV   []framework.QueueCapability
	LenV            int
	CapV            int
	PeekMinV        types.Entity
	PeekMinErrV     error
	InsertFunc      func(entity types.Entity) error
	ExtractMinFunc  func() (types.Entity, error)
	DrainFunc       func() []types.Entity
	InsertCallCount int
}

func (m *MockPriorityQueue) Name() string                              { return m.NameV }
func (m *MockPriorityQueue) Capabilities() []framework.QueueCapability { return m.CapabilitiesV }
func (m *MockPriorityQueue) Len() int                                  { return m.LenV }
func (m *MockPriorityQueue) Cap() int                                  { return m.CapV }

func (m *MockPriorityQueue) PeekMin() (types.Entity, error) {
	return m.PeekMinV, m.PeekMinErrV
}

func (m *MockPriorityQueue) Insert(entity types.Entity) error {
	m.InsertCallCount++
	if m.InsertFunc != nil {
		return m.InsertFunc(entity)
	}
	return nil
}

func (m *MockPriorityQueue) ExtractMin() (types.Entity, error) {
	if m.ExtractMinFunc != nil {
		return m.ExtractMinFunc()
	}
	return types.Entity{}, framework.ErrQueueEmpty
}

func (m *MockPriorityQueue) Drain() []types.Entity {
	if m.DrainFunc != nil {
		return m.DrainFunc()
	}
	return nil
}

var _ framework.PriorityQueue = &MockPriorityQueue{}
