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

// Package metrics defines the Prometheus metrics exported by the dispatch registry.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

const (
	// DispatchRegistryComponent is the subsystem shared by all registry metrics.
	DispatchRegistryComponent = "dispatch_registry"
)

var (
	// RegistryLabels identify the registry instance a sample belongs to.
	RegistryLabels = []string{"registry"}

	// WaitDurationBuckets range from 1ms to 1 hour.
	WaitDurationBuckets = []float64{
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800, 3600,
	}
)

// --- Dispatch Registry Metrics ---
var (
	admissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: DispatchRegistryComponent,
			Name:      "admissions_total",
			Help:      "Counter of admission attempts broken out by outcome.",
		},
		append(RegistryLabels, "outcome"),
	)

	servedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: DispatchRegistryComponent,
			Name:      "served_total",
			Help:      "Counter of serve-next calls broken out by outcome.",
		},
		append(RegistryLabels, "outcome"),
	)

	waitingEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: DispatchRegistryComponent,
			Name:      "waiting_entities",
			Help:      "Current number of entities in the waiting queue.",
		},
		RegistryLabels,
	)

	servedLogEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: DispatchRegistryComponent,
			Name:      "served_log_entries",
			Help:      "Current number of entries recorded in the served log.",
		},
		RegistryLabels,
	)

	waitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: DispatchRegistryComponent,
			Name:      "wait_duration_seconds",
			Help:      "Distribution of the time entities spend in the waiting queue, from admission until served.",
			Buckets:   WaitDurationBuckets,
		},
		RegistryLabels,
	)
)

var registerMetrics sync.Once

// Register all metrics.
func Register(customCollectors ...prometheus.Collector) {
	registerMetrics.Do(func() {
		metrics.Registry.MustRegister(admissionsTotal)
		metrics.Registry.MustRegister(servedTotal)
		metrics.Registry.MustRegister(waitingEntities)
		metrics.Registry.MustRegister(servedLogEntries)
		metrics.Registry.MustRegister(waitDuration)

		for _, collector := range customCollectors {
			metrics.Registry.MustRegister(collector)
		}
	})
}

// Reset resets all metrics. Only used in tests.
func Reset() {
	admissionsTotal.Reset()
	servedTotal.Reset()
	waitingEntities.Reset()
	servedLogEntries.Reset()
	waitDuration.Reset()
}

// RecordAdmission counts one admission attempt with the given outcome.
func RecordAdmission(registryName, outcome string) {
	admissionsTotal.WithLabelValues(registryName, outcome).Inc()
}

// RecordServe counts one serve-next call with the given outcome.
func RecordServe(registryName, outcome string) {
	servedTotal.WithLabelValues(registryName, outcome).Inc()
}

// RecordWaitDuration records how long a served entity spent waiting.
func RecordWaitDuration(registryName string, duration time.Duration) {
	waitDuration.WithLabelValues(registryName).Observe(duration.Seconds())
}

// SetWaitingEntities sets the waiting queue size gauge.
func SetWaitingEntities(registryName string, count int) {
	waitingEntities.WithLabelValues(registryName).Set(float64(count))
}

// SetServedLogEntries sets the served log size gauge.
func SetServedLogEntries(registryName string, count int) {
	servedLogEntries.WithLabelValues(registryName).Set(float64(count))
}
