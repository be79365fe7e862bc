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

package runner

import (
	"errors"
	"flag"
	"fmt"

	"github.com/spf13/pflag"
	uberzap "go.uber.org/zap"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/common/observability/logging"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework/plugins/queue"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/registry"
)

const (
	ZapLogLevelFlagName = "zap-log-level"

	registryNameFlagName    = "registry-name"
	initialCapacityFlagName = "initial-capacity"
	logCapacityFlagName     = "log-capacity"
	queueFlagName           = "queue"
	maxLabelLengthFlagName  = "max-label-length"
)

// Options contains configuration values necessary to run a triage simulation.
type Options struct {
	//
	// Inputs.
	//
	ConfigFile   string // The path to the registry configuration file.
	ScenarioFile string // The path to the scenario file. The built-in emergency-room scenario is used if empty.
	//
	// Registry overrides. Only flags set explicitly override the configuration file.
	//
	RegistryName    string // Name of the registry, used in logs and metric labels.
	InitialCapacity int    // Capacity of the waiting queue.
	LogCapacity     int    // Capacity of the served log.
	Queue           string // Name of the waiting queue implementation.
	MaxLabelLength  int    // Longest accepted label, in runes.
	//
	// Diagnostics.
	//
	PrintMetrics bool        // Print the registry metrics in Prometheus text format after the run.
	Tracing      bool        // Enables emitting traces.
	LogVerbosity int         // Number for the log level verbosity.
	ZapOptions   zap.Options // Zap logging options

	// internal
	fs *pflag.FlagSet // FlagSet used in AddFlags() and consulted in Complete()
}

// NewOptions returns a new Options struct initialized with the default values.
func NewOptions() *Options {
	return &Options{
		RegistryName:    "default",
		InitialCapacity: 20,
		Queue:           queue.BinaryMinHeapName,
		MaxLabelLength:  59,
		LogVerbosity:    logging.DEFAULT,
		ZapOptions:      zap.Options{Development: true},
	}
}

func (opts *Options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	opts.fs = fs

	fs.StringVar(&opts.ConfigFile, "config-file", opts.ConfigFile, "The path to the registry configuration file.")
	fs.StringVar(&opts.ScenarioFile, "scenario-file", opts.ScenarioFile,
		"The path to the scenario file. The built-in emergency-room scenario runs if not set.")
	fs.StringVar(&opts.RegistryName, registryNameFlagName, opts.RegistryName,
		"Name of the registry, used in logs and metric labels.")
	fs.IntVar(&opts.InitialCapacity, initialCapacityFlagName, opts.InitialCapacity,
		"Capacity of the waiting queue. A fixed-capacity queue rejects admissions beyond it.")
	fs.IntVar(&opts.LogCapacity, logCapacityFlagName, opts.LogCapacity,
		"Capacity of the served log. Defaults to the waiting queue capacity.")
	fs.StringVar(&opts.Queue, queueFlagName, opts.Queue, fmt.Sprintf("Waiting queue implementation, one of %v.",
		queue.RegisteredNames()))
	fs.IntVar(&opts.MaxLabelLength, maxLabelLengthFlagName, opts.MaxLabelLength,
		"Longest label, in runes, accepted at admission.")
	fs.BoolVar(&opts.PrintMetrics, "print-metrics", opts.PrintMetrics,
		"Print the registry metrics in Prometheus text format after the run.")
	fs.BoolVar(&opts.Tracing, "tracing", opts.Tracing,
		"Enables emitting traces. The exporter is selected with OTEL_TRACES_EXPORTER (console or otlp).")
	fs.IntVarP(&opts.LogVerbosity, "v", "v", opts.LogVerbosity, "Number for the log level verbosity.") // allow both --v and -v
	gofs := flag.NewFlagSet("zap", flag.ExitOnError)
	opts.ZapOptions.BindFlags(gofs) // zap expects a standard Go FlagSet and pflag.FlagSet is not compatible.
	fs.AddGoFlagSet(gofs)
}

func (opts *Options) Complete() error {
	// ensure zap log level is set - explicitly by user or from "-v"
	zapLogLevelFlag := opts.fs.Lookup(ZapLogLevelFlagName)
	if zapLogLevelFlag != nil && !zapLogLevelFlag.Changed { // not set explicitly
		opts.ZapOptions.Level = uberzap.NewAtomicLevelAt(logging.LevelForVerbosity(opts.LogVerbosity))
		zapLogLevelFlag.Changed = true
	}
	return nil
}

func (opts *Options) Validate() error {
	if opts.RegistryName == "" {
		return fmt.Errorf("flag %q can not be empty", registryNameFlagName)
	}
	if opts.InitialCapacity <= 0 {
		return fmt.Errorf("flag %q must be greater than 0", initialCapacityFlagName)
	}
	if opts.LogCapacity < 0 {
		return fmt.Errorf("flag %q can not be negative", logCapacityFlagName)
	}
	if opts.MaxLabelLength <= 0 {
		return fmt.Errorf("flag %q must be greater than 0", maxLabelLengthFlagName)
	}
	if !queue.IsRegistered(queue.RegisteredQueueName(opts.Queue)) {
		return fmt.Errorf("unexpected %q value for %q flag, it can only be set to one of %v",
			opts.Queue, queueFlagName, queue.RegisteredNames())
	}
	if opts.LogVerbosity < 0 {
		return errors.New("log verbosity can not be negative")
	}
	return nil
}

// RegistryConfigOptions translates the registry flags that were set explicitly into registry config options, so
// that they override values from the configuration file. Without a configuration file every flag applies, defaults
// included.
func (opts *Options) RegistryConfigOptions() []registry.ConfigOption {
	changed := func(name string) bool {
		if opts.ConfigFile == "" {
			return true
		}
		if opts.fs == nil {
			return false
		}
		f := opts.fs.Lookup(name)
		return f != nil && f.Changed
	}

	var out []registry.ConfigOption
	if changed(registryNameFlagName) {
		out = append(out, registry.WithName(opts.RegistryName))
	}
	if changed(initialCapacityFlagName) {
		out = append(out, registry.WithInitialCapacity(opts.InitialCapacity))
	}
	if opts.LogCapacity > 0 && changed(logCapacityFlagName) {
		out = append(out, registry.WithLogCapacity(opts.LogCapacity))
	}
	if changed(queueFlagName) {
		out = append(out, registry.WithQueue(queue.RegisteredQueueName(opts.Queue)))
	}
	if changed(maxLabelLengthFlagName) {
		out = append(out, registry.WithMaxLabelLength(opts.MaxLabelLength))
	}
	return out
}
