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

// Package tracing configures the global OpenTelemetry tracer provider from OTEL_* environment variables.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/common/observability/logging"
	"github.com/812-pratha/Emergency-Room-Triage-System/version"
)

const (
	defaultServiceName  = "triage"
	defaultExporterType = "console"
	defaultSamplerType  = "parentbased_traceidratio"
	defaultSamplerRatio = 1.0
)

type errorHandler struct {
	logger logr.Logger
}

func (h *errorHandler) Handle(err error) {
	h.logger.V(logging.DEFAULT).Error(err, "trace error occurred")
}

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(ctx context.Context) error

// InitTracing installs a tracer provider as the OpenTelemetry global.
//
// The exporter is chosen by OTEL_TRACES_EXPORTER: "console" (default) writes spans to consoleOut, "otlp" sends them
// over gRPC to the collector at OTEL_EXPORTER_OTLP_ENDPOINT. Sampling follows OTEL_TRACES_SAMPLER and
// OTEL_TRACES_SAMPLER_ARG; the default samples every trace. The caller must invoke the returned ShutdownFunc before
// exiting so that buffered spans are exported.
func InitTracing(ctx context.Context, logger logr.Logger, consoleOut io.Writer) (ShutdownFunc, error) {
	logger = logger.WithName("trace")
	loggerWrap := &errorHandler{logger: logger}

	serviceName, ok := os.LookupEnv("OTEL_SERVICE_NAME")
	if !ok {
		serviceName = defaultServiceName
	}

	exporterType, ok := os.LookupEnv("OTEL_TRACES_EXPORTER")
	if !ok {
		exporterType = defaultExporterType
	}
	traceExporter, err := newTraceExporter(ctx, exporterType, consoleOut)
	if err != nil {
		loggerWrap.Handle(fmt.Errorf("init trace exporter failed: %w", err))
		return nil, err
	}
	logger.Info("init OTel trace exporter", "type", exporterType)

	opt := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(samplerFromEnv(loggerWrap)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version.Version),
		)),
	}
	if exporterType == "otlp" {
		opt = append(opt, sdktrace.WithBatcher(traceExporter))
	} else {
		opt = append(opt, sdktrace.WithSyncer(traceExporter))
	}

	tracerProvider := sdktrace.NewTracerProvider(opt...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetErrorHandler(loggerWrap)

	return func(ctx context.Context) error {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			loggerWrap.Handle(fmt.Errorf("failed to shutdown TraceProvider: %w", err))
			return err
		}
		logger.V(logging.DEFAULT).Info("trace provider shut down")
		return nil
	}, nil
}

// newTraceExporter creates a SpanExporter.
// Supported exporter types:
// - console: export spans as JSON to consoleOut for development use
// - otlp: export spans through gRPC to an opentelemetry collector
func newTraceExporter(ctx context.Context, exporterType string, consoleOut io.Writer) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "console":
		if consoleOut == nil {
			consoleOut = os.Stderr
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(consoleOut))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdouttrace exporter: %w", err)
		}
		return exporter, nil
	case "otlp":
		exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithInsecure())
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp-grpc exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter type %q", exporterType)
	}
}

// samplerFromEnv builds the sampler named by OTEL_TRACES_SAMPLER.
// The Go SDK doesn't select a sampler from the environment automatically, so it is handled manually.
func samplerFromEnv(h *errorHandler) sdktrace.Sampler {
	samplerType, ok := os.LookupEnv("OTEL_TRACES_SAMPLER")
	if !ok {
		samplerType = defaultSamplerType
	}

	switch samplerType {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "parentbased_traceidratio":
		fraction := defaultSamplerRatio
		if arg, ok := os.LookupEnv("OTEL_TRACES_SAMPLER_ARG"); ok {
			parsed, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				h.Handle(fmt.Errorf("invalid OTEL_TRACES_SAMPLER_ARG %q, falling back to %v: %w", arg, fraction, err))
			} else {
				fraction = parsed
			}
		}
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(fraction))
	default:
		h.Handle(fmt.Errorf("unsupported sampler type: %s, fallback to parentbased_traceidratio with %v ratio",
			samplerType, defaultSamplerRatio))
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(defaultSamplerRatio))
	}
}
