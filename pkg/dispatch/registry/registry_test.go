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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/common/observability/logging"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework/mocks"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework/plugins/queue"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/metrics"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

// --- Test Harness ---

// registryTestHarness holds the components needed for a `Registry` test.
type registryTestHarness struct {
	t        *testing.T
	registry *Registry
	clock    *testclock.FakeClock
}

// newRegistryTestHarness builds a registry with a unique name (so that metric series of parallel tests never collide)
// and a fake clock.
func newRegistryTestHarness(t *testing.T, opts ...ConfigOption) *registryTestHarness {
	t.Helper()
	metrics.Register()

	config, err := NewConfig(append([]ConfigOption{WithName(t.Name())}, opts...)...)
	require.NoError(t, err, "Test setup: creating the config should not fail")

	fakeClock := testclock.NewFakeClock(time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))
	r, err := NewRegistry(config, logging.NewTestLogger(), withClock(fakeClock))
	require.NoError(t, err, "Test setup: creating the registry should not fail")
	return &registryTestHarness{t: t, registry: r, clock: fakeClock}
}

func (h *registryTestHarness) admit(label string, priority int) uint64 {
	h.t.Helper()
	id, err := h.registry.Admit(label, priority)
	require.NoError(h.t, err, "Admit(%q, %d) should succeed", label, priority)
	return id
}

func (h *registryTestHarness) serve() types.Entity {
	h.t.Helper()
	served, err := h.registry.ServeNext()
	require.NoError(h.t, err, "ServeNext should not fail")
	require.NotNil(h.t, served, "ServeNext should return an entity")
	return *served
}

func (h *registryTestHarness) peek() (int, *types.Entity) {
	h.t.Helper()
	count, next, err := h.registry.PeekWaiting()
	require.NoError(h.t, err, "PeekWaiting should not fail")
	return count, next
}

func (h *registryTestHarness) snapshot() []types.Entity {
	h.t.Helper()
	snapshot, err := h.registry.LogSnapshot()
	require.NoError(h.t, err, "LogSnapshot should not fail")
	return snapshot
}

func labels(entities []types.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Label())
	}
	return out
}

// metricValue returns the value of the counter or gauge series `name` belonging to `registryName` and carrying the
// given extra label pairs, or 0 if no such series exists.
func metricValue(t *testing.T, name, registryName string, extra ...string) float64 {
	t.Helper()
	require.Zero(t, len(extra)%2, "extra labels must be key/value pairs")
	want := map[string]string{"registry": registryName}
	for i := 0; i < len(extra); i += 2 {
		want[extra[i]] = extra[i+1]
	}

	families, err := crmetrics.Registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	series:
		for _, m := range family.GetMetric() {
			got := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if got[k] != v {
					continue series
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return 0
}

// --- Construction ---

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	t.Run("ShouldUseDefaults_WhenConfigIsNil", func(t *testing.T) {
		t.Parallel()
		r, err := NewRegistry(nil, logging.NewTestLogger())
		require.NoError(t, err)
		assert.Equal(t, defaultName, r.Name())
		assert.Equal(t, defaultInitialCapacity, r.waiting.Cap())
		assert.Equal(t, defaultInitialCapacity, r.served.Cap())
		assert.Equal(t, queue.BinaryMinHeapName, r.waiting.Name())
		assert.Equal(t, uint64(1), r.nextID, "identifiers must start at 1")
		assert.Equal(t, componentStatusActive, r.status)
	})

	t.Run("ShouldHonorConfiguredQueueAndCapacities", func(t *testing.T) {
		t.Parallel()
		config, err := NewConfig(WithName(t.Name()), WithInitialCapacity(3), WithLogCapacity(7),
			WithQueue(queue.GrowableMinHeapName))
		require.NoError(t, err)
		r, err := NewRegistry(config, logging.NewTestLogger())
		require.NoError(t, err)
		assert.Equal(t, queue.GrowableMinHeapName, r.waiting.Name())
		assert.Equal(t, 3, r.waiting.Cap())
		assert.Equal(t, 7, r.served.Cap())
	})

	t.Run("ShouldNotAliasCallerConfig", func(t *testing.T) {
		t.Parallel()
		config, err := NewConfig(WithName(t.Name()))
		require.NoError(t, err)
		r, err := NewRegistry(config, logging.NewTestLogger())
		require.NoError(t, err)
		config.MaxLabelLength = 1
		_, err = r.Admit("longer than one rune", 1)
		assert.NoError(t, err, "mutating the caller's config after construction must not affect the registry")
	})

	t.Run("ShouldFail_WhenQueueIsUnknown", func(t *testing.T) {
		t.Parallel()
		config := &Config{Name: t.Name(), InitialCapacity: 1, LogCapacity: 1, Queue: "NoSuchQueue", MaxLabelLength: 1}
		_, err := NewRegistry(config, logging.NewTestLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NoSuchQueue")
	})

	t.Run("ShouldFail_WhenCapacityIsInvalid", func(t *testing.T) {
		t.Parallel()
		config := &Config{Name: t.Name(), InitialCapacity: 0, LogCapacity: 1, Queue: queue.BinaryMinHeapName,
			MaxLabelLength: 1}
		_, err := NewRegistry(config, logging.NewTestLogger())
		require.ErrorIs(t, err, framework.ErrInvalidCapacity)
	})
}

// --- Core Behaviour ---

func TestRegistry_ServesLowestPriorityFirst(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)

	h.admit("Ravi", 3)
	h.admit("Sita", 1)
	h.admit("Amit", 2)
	h.admit("Priya", 4)

	count, next := h.peek()
	assert.Equal(t, 4, count)
	require.NotNil(t, next)
	assert.Equal(t, "Sita", next.Label())
	assert.Equal(t, 1, next.Priority())

	assert.Equal(t, "Sita", h.serve().Label())
	assert.Equal(t, "Amit", h.serve().Label())
}

func TestRegistry_LaterUrgentAdmissionOvertakesWaitingEntities(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)

	for _, e := range []struct {
		label    string
		priority int
	}{{"Ravi", 3}, {"Sita", 1}, {"Amit", 2}, {"Priya", 4}} {
		h.admit(e.label, e.priority)
	}
	h.serve()
	h.serve()

	h.admit("John", 1)
	count, next := h.peek()
	assert.Equal(t, 3, count, "Ravi, Priya and John should be waiting")
	require.NotNil(t, next)
	assert.Equal(t, "John", next.Label())

	assert.Equal(t, []string{"John", "Ravi", "Priya"}, []string{h.serve().Label(), h.serve().Label(), h.serve().Label()})
}

func TestRegistry_ServeNext_OnEmpty(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)

	h.admit("Sita", 1)
	h.serve()

	served, err := h.registry.ServeNext()
	require.NoError(t, err, "serving from an empty queue is not an error")
	assert.Nil(t, served)
	assert.Len(t, h.snapshot(), 1, "log length must not change")
	assert.Equal(t, uint64(2), h.registry.nextID, "next identifier must not change")
	assert.InDelta(t, 1, metricValue(t, "dispatch_registry_served_total", t.Name(), "outcome", "Idle"), 0)
}

func TestRegistry_PeekWaiting(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)

	count, next := h.peek()
	assert.Zero(t, count)
	assert.Nil(t, next, "peek on an empty registry returns no entity")

	h.admit("Ravi", 3)
	count, next = h.peek()
	require.NotNil(t, next)
	assert.Equal(t, 1, count)

	count, again := h.peek()
	assert.Equal(t, 1, count, "peek must not remove the entity")
	assert.Equal(t, *next, *again)
}

func TestRegistry_LogSnapshot(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)

	for i, label := range []string{"a", "b", "c", "d"} {
		h.admit(label, 10-i)
	}
	h.serve()
	h.serve()
	h.serve()

	snapshot := h.snapshot()
	if diff := cmp.Diff([]string{"d", "c", "b"}, labels(snapshot)); diff != "" {
		t.Errorf("snapshot should list entities in service order (-want +got):\n%s", diff)
	}

	h.admit("e", 0)
	assert.Equal(t, []string{"d", "c", "b"}, labels(snapshot), "later admissions must not affect a snapshot")
	assert.Len(t, h.snapshot(), 3, "admissions never add to the served log")

	snapshot[0] = types.Entity{}
	assert.Equal(t, "d", h.snapshot()[0].Label(), "modifying a snapshot must not affect the registry")
}

func TestRegistry_Admit_IssuesSequentialIdentifiers(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t, WithInitialCapacity(2), WithMaxLabelLength(5))

	id1, err := h.registry.Admit("one", 1)
	require.NoError(t, err)
	id2, err := h.registry.Admit("toolong", 1)
	require.ErrorIs(t, err, types.ErrRejected)
	id3, err := h.registry.Admit("three", 1)
	require.NoError(t, err)
	id4, err := h.registry.Admit("four", 1)
	require.ErrorIs(t, err, types.ErrRejected)
	id5, err := h.registry.Admit("five", 1)
	require.ErrorIs(t, err, types.ErrRejected)

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, []uint64{id1, id2, id3, id4, id5},
		"identifiers are consumed by every admission attempt, successful or not")
}

func TestRegistry_Admit_Rejections(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		opts          []ConfigOption
		prefill       int
		label         string
		expectedCause error
		outcome       types.AdmitOutcome
	}{
		{
			name:          "LabelTooLong",
			opts:          []ConfigOption{WithMaxLabelLength(4)},
			label:         "Priya",
			expectedCause: types.ErrLabelTooLong,
			outcome:       types.AdmitOutcomeRejectedLabel,
		},
		{
			name:          "CapacityExceeded",
			opts:          []ConfigOption{WithInitialCapacity(2)},
			prefill:       2,
			label:         "John",
			expectedCause: framework.ErrCapacityExceeded,
			outcome:       types.AdmitOutcomeRejectedCapacity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newRegistryTestHarness(t, tc.opts...)
			for i := range tc.prefill {
				h.admit(fmt.Sprintf("p%d", i), i)
			}

			id, err := h.registry.Admit(tc.label, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrRejected)
			assert.ErrorIs(t, err, tc.expectedCause)
			assert.Equal(t, uint64(tc.prefill+1), id, "the consumed identifier is returned with the error")

			count, _ := h.peek()
			assert.Equal(t, tc.prefill, count, "a rejected entity must not be placed in the waiting queue")
			assert.InDelta(t, 1,
				metricValue(t, "dispatch_registry_admissions_total", t.Name(), "outcome", tc.outcome.String()), 0)
		})
	}
}

func TestRegistry_Admit_LabelLengthCountsRunes(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t, WithMaxLabelLength(4))

	_, err := h.registry.Admit("Zoë!", 1)
	assert.NoError(t, err, "a 4-rune label fits a 4-rune limit even when it is longer in bytes")
	_, err = h.registry.Admit("Zoë!?", 1)
	assert.ErrorIs(t, err, types.ErrLabelTooLong)
}

func TestRegistry_Admit_GrowableQueueNeverRejectsOnCapacity(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t, WithInitialCapacity(1), WithLogCapacity(10), WithQueue(queue.GrowableMinHeapName))

	for i := range 10 {
		h.admit(fmt.Sprintf("e%d", i), 10-i)
	}
	count, next := h.peek()
	assert.Equal(t, 10, count)
	require.NotNil(t, next)
	assert.Equal(t, "e9", next.Label())
}

func TestRegistry_Admit_UnexpectedQueueError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	q := &mocks.MockPriorityQueue{NameV: "mock", InsertFunc: func(types.Entity) error { return boom }}
	r, err := NewRegistry(nil, logging.NewTestLogger(), withQueue(q))
	require.NoError(t, err)

	_, err = r.Admit("Ravi", 3)
	assert.ErrorIs(t, err, types.ErrRejected)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, q.InsertCallCount)
}

func TestRegistry_ServeNext_WhenLogIsFull(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t, WithInitialCapacity(5), WithLogCapacity(2))

	for i, label := range []string{"a", "b", "c"} {
		h.admit(label, i)
	}
	h.serve()
	h.serve()

	third := h.serve()
	assert.Equal(t, "c", third.Label(), "the entity is still served when the log is full")
	assert.Equal(t, []string{"a", "b"}, labels(h.snapshot()), "the unlogged entity is not recorded")

	count, _ := h.peek()
	assert.Zero(t, count, "service is not rolled back")
	assert.InDelta(t, 2, metricValue(t, "dispatch_registry_served_total", t.Name(), "outcome", "Served"), 0)
	assert.InDelta(t, 1, metricValue(t, "dispatch_registry_served_total", t.Name(), "outcome", "ServedUnlogged"), 0)
	assert.InDelta(t, 2, metricValue(t, "dispatch_registry_served_log_entries", t.Name()), 0)
}

func TestRegistry_ServeNext_ExtractFailure(t *testing.T) {
	t.Parallel()
	q := &mocks.MockPriorityQueue{NameV: "mock", LenV: 1}
	r, err := NewRegistry(nil, logging.NewTestLogger(), withQueue(q))
	require.NoError(t, err)

	served, err := r.ServeNext()
	assert.Nil(t, served)
	assert.ErrorIs(t, err, framework.ErrQueueEmpty)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)
	h.admit("Ravi", 3)

	_, next := h.peek()
	*next = types.NewEntity(99, "mutated", -1, time.Time{})

	served := h.serve()
	assert.Equal(t, "Ravi", served.Label(), "mutating a peeked copy must not affect the waiting entity")
}

// --- Metrics ---

func TestRegistry_Metrics(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)
	name := t.Name()

	h.admit("Ravi", 3)
	h.admit("Sita", 1)
	assert.InDelta(t, 2, metricValue(t, "dispatch_registry_admissions_total", name, "outcome", "Admitted"), 0)
	assert.InDelta(t, 2, metricValue(t, "dispatch_registry_waiting_entities", name), 0)

	h.clock.Step(90 * time.Second)
	h.serve()
	assert.InDelta(t, 1, metricValue(t, "dispatch_registry_waiting_entities", name), 0)
	assert.InDelta(t, 1, metricValue(t, "dispatch_registry_served_log_entries", name), 0)
	assert.InDelta(t, 1, metricValue(t, "dispatch_registry_wait_duration_seconds", name), 0,
		"one wait duration sample should be observed")

	require.NoError(t, h.registry.Dispose())
	assert.InDelta(t, 0, metricValue(t, "dispatch_registry_waiting_entities", name), 0,
		"dispose must reset the waiting gauge")
}

func TestRegistry_StampsAdmissionTime(t *testing.T) {
	t.Parallel()
	h := newRegistryTestHarness(t)
	admittedAt := h.clock.Now()
	h.admit("Ravi", 3)
	h.clock.Step(time.Minute)

	served := h.serve()
	assert.Equal(t, admittedAt, served.AdmittedAt())
	assert.Equal(t, time.Minute, h.clock.Since(served.AdmittedAt()))
}

// --- Lifecycle ---

func TestRegistry_Dispose(t *testing.T) {
	t.Parallel()

	t.Run("ShouldDrainWaitingQueue", func(t *testing.T) {
		t.Parallel()
		drained := false
		q := &mocks.MockPriorityQueue{
			NameV: "mock",
			DrainFunc: func() []types.Entity {
				drained = true
				return []types.Entity{types.NewEntity(1, "Ravi", 3, time.Time{})}
			},
		}
		r, err := NewRegistry(nil, logging.NewTestLogger(), withQueue(q))
		require.NoError(t, err)

		require.NoError(t, r.Dispose())
		assert.True(t, drained, "dispose must drain the waiting queue")
		assert.Equal(t, componentStatusDisposed, r.status)
		assert.Nil(t, r.waiting)
		assert.Nil(t, r.served)
	})

	t.Run("ShouldBeIdempotent", func(t *testing.T) {
		t.Parallel()
		h := newRegistryTestHarness(t)
		require.NoError(t, h.registry.Dispose())
		assert.NoError(t, h.registry.Dispose(), "a second dispose is a no-op")
	})

	t.Run("ShouldRejectOperationsAfterDispose", func(t *testing.T) {
		t.Parallel()
		h := newRegistryTestHarness(t)
		h.admit("Ravi", 3)
		require.NoError(t, h.registry.Dispose())

		id, err := h.registry.Admit("Sita", 1)
		assert.ErrorIs(t, err, types.ErrRegistryDisposed)
		assert.Zero(t, id, "no identifier is issued by a disposed registry")

		served, err := h.registry.ServeNext()
		assert.ErrorIs(t, err, types.ErrRegistryDisposed)
		assert.Nil(t, served)

		_, next, err := h.registry.PeekWaiting()
		assert.ErrorIs(t, err, types.ErrRegistryDisposed)
		assert.Nil(t, next)

		_, err = h.registry.LogSnapshot()
		assert.ErrorIs(t, err, types.ErrRegistryDisposed)

		assert.Equal(t, t.Name(), h.registry.Name(), "name remains readable after dispose")
	})
}

// --- Concurrency ---

func TestRegistry_ConcurrentAdmitAndServe(t *testing.T) {
	t.Parallel()
	const (
		goroutines = 8
		perWorker  = 50
	)
	total := goroutines * perWorker
	h := newRegistryTestHarness(t, WithInitialCapacity(total), WithLogCapacity(total))

	var wg sync.WaitGroup
	ids := make(chan uint64, total)
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				id, err := h.registry.Admit(fmt.Sprintf("g%d-%d", g, i), i%7)
				if err == nil {
					ids <- id
				}
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]struct{}, total)
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, total, "every admission must receive a unique identifier")

	var served []types.Entity
	var mu sync.Mutex
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				e, err := h.registry.ServeNext()
				if err != nil || e == nil {
					return
				}
				mu.Lock()
				served = append(served, *e)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, served, total)
	snapshot := h.snapshot()
	require.Len(t, snapshot, total)
	for i := 1; i < len(snapshot); i++ {
		assert.LessOrEqual(t, snapshot[i-1].Priority(), snapshot[i].Priority(),
			"the served log must be in non-decreasing priority order when all admissions precede service")
	}
}
