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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	ctrl "sigs.k8s.io/controller-runtime"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/common/observability/logging"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/common/observability/tracing"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/metrics"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/registry"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/scenario"
	"github.com/812-pratha/Emergency-Room-Triage-System/version"
)

var setupLog = ctrl.Log.WithName("setup")

// NewRunner initializes a new triage Runner that reads os.Args, renders to os.Stdout and exports console traces to
// os.Stderr.
func NewRunner() *Runner {
	return &Runner{
		args:     os.Args[1:],
		out:      os.Stdout,
		traceOut: os.Stderr,
	}
}

// Runner is used to run a triage simulation.
type Runner struct {
	args     []string
	out      io.Writer
	traceOut io.Writer
}

// WithArgs replaces the command line arguments.
func (r *Runner) WithArgs(args []string) *Runner {
	r.args = args
	return r
}

// WithOutput replaces the writer the simulation is rendered to.
func (r *Runner) WithOutput(out io.Writer) *Runner {
	r.out = out
	return r
}

// WithTraceOutput replaces the writer the console trace exporter writes to.
func (r *Runner) WithTraceOutput(out io.Writer) *Runner {
	r.traceOut = out
	return r
}

func (r *Runner) Run(ctx context.Context) (err error) {
	logging.InitSetupLogging()

	opts := NewOptions()
	fs := pflag.NewFlagSet("triage", pflag.ContinueOnError)
	opts.AddFlags(fs)
	if err := fs.Parse(r.args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if err := opts.Complete(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		setupLog.Error(err, "Failed to validate flags")
		return err
	}
	logging.InitLogging(&opts.ZapOptions)

	setupLog.Info("Triage build", "version", version.Version, "commit-sha", version.CommitSHA,
		"build-ref", version.BuildRef)

	// Print all flag values
	flags := make(map[string]any)
	fs.VisitAll(func(f *pflag.Flag) {
		flags[f.Name] = f.Value
	})
	setupLog.V(logging.VERBOSE).Info("Flags processed", "flags", flags)

	config, err := loadRegistryConfig(opts)
	if err != nil {
		setupLog.Error(err, "Failed to load registry configuration")
		return err
	}
	s, err := loadScenario(opts)
	if err != nil {
		setupLog.Error(err, "Failed to load scenario")
		return err
	}
	setupLog.Info("Configuration loaded", "registry", config.Name, "queue", config.Queue,
		"initialCapacity", config.InitialCapacity, "logCapacity", config.LogCapacity, "scenario", s.Name,
		"steps", len(s.Steps))

	metrics.Register()

	reg, err := registry.NewRegistry(config, ctrl.Log)
	if err != nil {
		setupLog.Error(err, "Failed to create registry")
		return err
	}
	defer func() {
		err = multierr.Append(err, reg.Dispose())
		if err == nil && opts.PrintMetrics {
			err = printMetrics(r.out, config.Name)
		}
	}()

	if err := ctx.Err(); err != nil {
		setupLog.Info("Simulation cancelled before start")
		return err
	}

	var dispatcher scenario.Dispatcher = reg
	if opts.Tracing {
		shutdown, err := tracing.InitTracing(ctx, ctrl.Log, r.traceOut)
		if err != nil {
			setupLog.Error(err, "Failed to initialize tracing")
			return err
		}
		defer func() {
			err = multierr.Append(err, shutdown(context.WithoutCancel(ctx)))
		}()

		simCtx, span := otel.Tracer(tracerName).Start(ctx, "triage.simulation", trace.WithAttributes(
			attribute.String("scenario.name", s.Name),
			attribute.String("registry.name", config.Name),
		))
		defer span.End()
		dispatcher = newTracedDispatcher(simCtx, reg, otel.GetTracerProvider())
	}

	renderer := newTextRenderer(r.out)
	if err := scenario.Run(dispatcher, s, renderer); err != nil {
		setupLog.Error(err, "Simulation failed", "scenario", s.Name)
		return err
	}
	if renderer.err != nil {
		return fmt.Errorf("failed to write simulation output: %w", renderer.err)
	}
	setupLog.Info("Simulation finished", "scenario", s.Name)
	return nil
}

func loadRegistryConfig(opts *Options) (*registry.Config, error) {
	if opts.ConfigFile == "" {
		return registry.NewConfig(opts.RegistryConfigOptions()...)
	}
	data, err := os.ReadFile(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", opts.ConfigFile, err)
	}
	return registry.LoadConfig(data, opts.RegistryConfigOptions()...)
}

func loadScenario(opts *Options) (*scenario.Scenario, error) {
	if opts.ScenarioFile == "" {
		return scenario.Default(), nil
	}
	data, err := os.ReadFile(opts.ScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %q: %w", opts.ScenarioFile, err)
	}
	return scenario.Load(data)
}

// printMetrics writes the dispatch registry metric families in Prometheus text format, keeping only the series of
// the named registry.
func printMetrics(w io.Writer, registryName string) error {
	families, err := crmetrics.Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), metrics.DispatchRegistryComponent+"_") {
			continue
		}
		filtered := filterSeries(family, registryName)
		if len(filtered.GetMetric()) == 0 {
			continue
		}
		if err := enc.Encode(filtered); err != nil {
			return fmt.Errorf("failed to encode metric family %q: %w", family.GetName(), err)
		}
	}
	return nil
}

func filterSeries(family *dto.MetricFamily, registryName string) *dto.MetricFamily {
	out := &dto.MetricFamily{
		Name: family.Name,
		Help: family.Help,
		Type: family.Type,
		Unit: family.Unit,
	}
	for _, m := range family.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "registry" && lp.GetValue() == registryName {
				out.Metric = append(out.Metric, m)
				break
			}
		}
	}
	return out
}
