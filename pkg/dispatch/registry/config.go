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

	"go.uber.org/multierr"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework/plugins/queue"
)

// --- Defaults ---

const (
	// defaultName is the registry name used when none is configured. It appears in log lines and metric labels.
	defaultName = "default"
	// defaultInitialCapacity is the number of entities the waiting queue can hold.
	defaultInitialCapacity int = 20
	// defaultQueue is the default waiting queue implementation.
	defaultQueue queue.RegisteredQueueName = queue.BinaryMinHeapName
	// defaultMaxLabelLength is the longest label (in runes) an entity may carry.
	defaultMaxLabelLength int = 59
)

// --- Configuration ---

// Config holds the configuration for a single `Registry`.
type Config struct {
	// Name identifies the registry in logs and metrics.
	// Optional: Defaults to `defaultName` ("default").
	Name string

	// InitialCapacity is the capacity the waiting queue is created with. For a fixed-capacity queue this is also the
	// maximum number of entities that can wait at once.
	// Optional: Defaults to `defaultInitialCapacity` (20).
	InitialCapacity int

	// LogCapacity is the maximum number of entries the served log records. Entities served after the log is full are
	// still served, but not recorded.
	// Optional: Defaults to InitialCapacity.
	LogCapacity int

	// Queue specifies the name of the `framework.PriorityQueue` implementation for the waiting queue.
	// Optional: Defaults to `defaultQueue` ("BinaryMinHeap").
	Queue queue.RegisteredQueueName

	// MaxLabelLength is the maximum label length, counted in runes. Longer labels are rejected at admission.
	// Optional: Defaults to `defaultMaxLabelLength` (59).
	MaxLabelLength int
}

// --- Config Functional Options ---

// ConfigOption defines a functional option for configuring the registry.
type ConfigOption func(*Config) error

// WithName sets the registry name.
func WithName(name string) ConfigOption {
	return func(c *Config) error {
		if name == "" {
			return errors.New("name cannot be empty")
		}
		c.Name = name
		return nil
	}
}

// WithInitialCapacity sets the waiting queue capacity.
func WithInitialCapacity(capacity int) ConfigOption {
	return func(c *Config) error {
		if capacity <= 0 {
			return errors.New("initialCapacity must be greater than 0")
		}
		c.InitialCapacity = capacity
		return nil
	}
}

// WithLogCapacity sets the served log capacity.
func WithLogCapacity(capacity int) ConfigOption {
	return func(c *Config) error {
		if capacity <= 0 {
			return errors.New("logCapacity must be greater than 0")
		}
		c.LogCapacity = capacity
		return nil
	}
}

// WithQueue sets the waiting queue implementation (e.g., "BinaryMinHeap").
func WithQueue(name queue.RegisteredQueueName) ConfigOption {
	return func(c *Config) error {
		if name == "" {
			return errors.New("queue cannot be empty")
		}
		c.Queue = name
		return nil
	}
}

// WithMaxLabelLength sets the maximum label length.
func WithMaxLabelLength(length int) ConfigOption {
	return func(c *Config) error {
		if length <= 0 {
			return errors.New("maxLabelLength must be greater than 0")
		}
		c.MaxLabelLength = length
		return nil
	}
}

// --- Constructors ---

// NewConfig creates a new Config populated with system defaults, applies the provided options, and enforces strict
// validation.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{
		Name:            defaultName,
		InitialCapacity: defaultInitialCapacity,
		Queue:           defaultQueue,
		MaxLabelLength:  defaultMaxLabelLength,
	}

	var optErrs error
	for _, opt := range opts {
		optErrs = multierr.Append(optErrs, opt(config))
	}
	if optErrs != nil {
		return nil, fmt.Errorf("invalid registry config: %w", optErrs)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid registry config: %w", err)
	}
	return config, nil
}

// --- Validation & Defaults ---

func (c *Config) applyDefaults() {
	if c.LogCapacity == 0 {
		c.LogCapacity = c.InitialCapacity
	}
}

// validate checks every field and reports all violations at once.
func (c *Config) validate() error {
	var err error
	if c.Name == "" {
		err = multierr.Append(err, errors.New("name cannot be empty"))
	}
	if c.InitialCapacity <= 0 {
		err = multierr.Append(err, errors.New("initialCapacity must be greater than 0"))
	}
	if c.LogCapacity <= 0 {
		err = multierr.Append(err, errors.New("logCapacity must be greater than 0"))
	}
	if c.MaxLabelLength <= 0 {
		err = multierr.Append(err, errors.New("maxLabelLength must be greater than 0"))
	}
	if !queue.IsRegistered(c.Queue) {
		err = multierr.Append(err, fmt.Errorf("queue %q is not a registered queue implementation", c.Queue))
	}
	return err
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
