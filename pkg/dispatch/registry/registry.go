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
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/common/observability/logging"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework/plugins/queue"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/metrics"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/servedlog"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

// Registry owns one waiting queue and one served log for its whole lifetime.
type Registry struct {
	// --- Immutable dependencies (set at construction) ---
	config *Config
	logger logr.Logger
	clock  clock.PassiveClock

	// --- State (protected by `mu`) ---

	mu      sync.Mutex
	status  componentStatus
	waiting framework.PriorityQueue
	served  *servedlog.Log
	// nextID is the identifier the next admission attempt will receive.
	nextID uint64
}

// RegistryOption allows configuring the `Registry` during initialization.
type RegistryOption func(*Registry)

// withClock sets the clock abstraction for deterministic testing.
// test-only
func withClock(clk clock.PassiveClock) RegistryOption {
	return func(r *Registry) {
		if clk != nil {
			r.clock = clk
		}
	}
}

// withQueue replaces the configured waiting queue implementation.
// test-only
func withQueue(q framework.PriorityQueue) RegistryOption {
	return func(r *Registry) {
		if q != nil {
			r.waiting = q
		}
	}
}

// NewRegistry creates and initializes a new `Registry` instance. A nil config selects the system defaults.
func NewRegistry(config *Config, logger logr.Logger, opts ...RegistryOption) (*Registry, error) {
	if config == nil {
		var err error
		if config, err = NewConfig(); err != nil {
			return nil, err
		}
	}
	cfg := config.Clone()
	r := &Registry{
		config: cfg,
		logger: logger.WithName("dispatch-registry").WithValues("registry", cfg.Name),
		status: componentStatusActive,
		nextID: 1,
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}

	if r.waiting == nil {
		q, err := queue.NewQueueFromName(cfg.Queue, cfg.InitialCapacity)
		if err != nil {
			return nil, fmt.Errorf("failed to create waiting queue %q: %w", cfg.Queue, err)
		}
		r.waiting = q
	}

	served, err := servedlog.New(cfg.LogCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create served log: %w", err)
	}
	r.served = served

	metrics.SetWaitingEntities(cfg.Name, 0)
	metrics.SetServedLogEntries(cfg.Name, 0)
	r.logger.V(logging.DEFAULT).Info("Registry initialized successfully",
		"queue", r.waiting.Name(), "initialCapacity", cfg.InitialCapacity, "logCapacity", cfg.LogCapacity)
	return r, nil
}

// Name returns the configured name of the registry.
func (r *Registry) Name() string {
	return r.config.Name
}

// Admit places a new entity with the given label and priority in the waiting queue and returns its identifier.
//
// The identifier is consumed even when admission fails; it is returned alongside the error in that case. Failures
// wrap `types.ErrRejected` together with the specific cause (`types.ErrLabelTooLong` or
// `framework.ErrCapacityExceeded`). On a disposed registry, Admit returns `types.ErrRegistryDisposed` and consumes no
// identifier.
func (r *Registry) Admit(label string, priority int) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == componentStatusDisposed {
		return 0, types.ErrRegistryDisposed
	}

	id := r.nextID
	r.nextID++

	outcome, err := r.admitLocked(id, label, priority)
	metrics.RecordAdmission(r.config.Name, outcome.String())
	if err != nil {
		r.logger.V(logging.DEBUG).Info("Admission rejected",
			"id", id, "label", label, "priority", priority, "outcome", outcome, "error", err)
		return id, err
	}

	metrics.SetWaitingEntities(r.config.Name, r.waiting.Len())
	r.logger.V(logging.DEBUG).Info("Entity admitted",
		"id", id, "label", label, "priority", priority, "waiting", r.waiting.Len())
	return id, nil
}

func (r *Registry) admitLocked(id uint64, label string, priority int) (types.AdmitOutcome, error) {
	if n := utf8.RuneCountInString(label); n > r.config.MaxLabelLength {
		return types.AdmitOutcomeRejectedLabel, fmt.Errorf("%w: %w: %d runes, limit %d",
			types.ErrRejected, types.ErrLabelTooLong, n, r.config.MaxLabelLength)
	}

	entity := types.NewEntity(id, label, priority, r.clock.Now())
	if err := r.waiting.Insert(entity); err != nil {
		outcome := types.AdmitOutcomeRejectedOther
		if errors.Is(err, framework.ErrCapacityExceeded) {
			outcome = types.AdmitOutcomeRejectedCapacity
		}
		return outcome, fmt.Errorf("%w: %w", types.ErrRejected, err)
	}
	return types.AdmitOutcomeAdmitted, nil
}

// ServeNext removes the waiting entity with the lowest priority value and records it in the served log.
//
// It returns nil and no error when nothing is waiting. If the served log is full, the entity is still served and
// returned; it is just not recorded.
func (r *Registry) ServeNext() (*types.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == componentStatusDisposed {
		return nil, types.ErrRegistryDisposed
	}

	if r.waiting.Len() == 0 {
		metrics.RecordServe(r.config.Name, types.ServeOutcomeIdle.String())
		r.logger.V(logging.DEBUG).Info("Nothing to serve")
		return nil, nil
	}

	entity, err := r.waiting.ExtractMin()
	if err != nil {
		return nil, fmt.Errorf("failed to extract next entity: %w", err)
	}
	metrics.SetWaitingEntities(r.config.Name, r.waiting.Len())
	metrics.RecordWaitDuration(r.config.Name, r.clock.Since(entity.AdmittedAt()))

	outcome := types.ServeOutcomeServed
	if err := r.served.Append(entity); err != nil {
		outcome = types.ServeOutcomeServedUnlogged
		r.logger.Error(err, "Served entity was not recorded in the served log",
			"id", entity.ID(), "label", entity.Label(), "logCapacity", r.served.Cap())
	} else {
		metrics.SetServedLogEntries(r.config.Name, r.served.Len())
	}
	metrics.RecordServe(r.config.Name, outcome.String())

	r.logger.V(logging.DEBUG).Info("Entity served",
		"id", entity.ID(), "label", entity.Label(), "priority", entity.Priority(), "outcome", outcome)
	return &entity, nil
}

// PeekWaiting returns the number of waiting entities and a copy of the one that would be served next, or nil if none
// is waiting. It does not modify the registry.
func (r *Registry) PeekWaiting() (int, *types.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == componentStatusDisposed {
		return 0, nil, types.ErrRegistryDisposed
	}

	count := r.waiting.Len()
	if count == 0 {
		return 0, nil, nil
	}
	next, err := r.waiting.PeekMin()
	if err != nil {
		return count, nil, fmt.Errorf("failed to peek next entity: %w", err)
	}
	return count, &next, nil
}

// LogSnapshot returns every entity recorded in the served log, in service order.
func (r *Registry) LogSnapshot() ([]types.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == componentStatusDisposed {
		return nil, types.ErrRegistryDisposed
	}

	snapshot := make([]types.Entity, 0, r.served.Len())
	for entity := range r.served.All() {
		snapshot = append(snapshot, entity)
	}
	return snapshot, nil
}

// Dispose drains the waiting queue, releases the queue and the served log, and moves the registry to its terminal
// state. Entities still waiting are abandoned. Calling Dispose more than once is a no-op.
func (r *Registry) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == componentStatusDisposed {
		return nil
	}

	abandoned := r.waiting.Drain()
	if len(abandoned) > 0 {
		r.logger.Info("Abandoning waiting entities on dispose", "count", len(abandoned))
	}
	r.waiting = nil
	r.served = nil
	r.status = componentStatusDisposed

	metrics.SetWaitingEntities(r.config.Name, 0)
	r.logger.V(logging.DEFAULT).Info("Registry disposed", "status", r.status)
	return nil
}
