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

// Package queue defines the registration factory and the implementations of `framework.PriorityQueue` used by the
// dispatch registry.
package queue

import (
	"fmt"
	"sort"
	"sync"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework"
)

type RegisteredQueueName string

// QueueConstructor defines the function signature for creating a `framework.PriorityQueue` holding up to capacity
// entities.
type QueueConstructor func(capacity int) (framework.PriorityQueue, error)

var (
	// mu guards the registration maps.
	mu sync.RWMutex
	// RegisteredQueues stores the constructors for all registered queues.
	RegisteredQueues = make(map[RegisteredQueueName]QueueConstructor)
)

// MustRegisterQueue registers a queue constructor, and panics if the name is
// already registered.
// This is intended to be called from init() functions.
func MustRegisterQueue(name RegisteredQueueName, constructor QueueConstructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := RegisteredQueues[name]; ok {
		panic(fmt.Sprintf("framework.PriorityQueue already registered with name %q", name))
	}
	RegisteredQueues[name] = constructor
}

// IsRegistered reports whether a queue constructor is registered under name.
func IsRegistered(name RegisteredQueueName) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := RegisteredQueues[name]
	return ok
}

// RegisteredNames returns the names of all registered queues in lexical order.
func RegisteredNames() []RegisteredQueueName {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]RegisteredQueueName, 0, len(RegisteredQueues))
	for name := range RegisteredQueues {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// NewQueueFromName creates a new PriorityQueue given its registered name and its capacity.
// This is called by the `registry.Registry` during construction.
func NewQueueFromName(name RegisteredQueueName, capacity int) (framework.PriorityQueue, error) {
	mu.RLock()
	constructor, ok := RegisteredQueues[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no framework.PriorityQueue registered with name %q", name)
	}
	return constructor(capacity)
}
