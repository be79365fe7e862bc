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
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/scenario"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

const tracerName = "github.com/812-pratha/Emergency-Room-Triage-System/cmd/triage"

// tracedDispatcher records a span for every dispatcher call, as a child of the span carried by ctx.
type tracedDispatcher struct {
	ctx    context.Context
	next   scenario.Dispatcher
	tracer trace.Tracer
}

var _ scenario.Dispatcher = &tracedDispatcher{}

func newTracedDispatcher(ctx context.Context, next scenario.Dispatcher, tp trace.TracerProvider) *tracedDispatcher {
	return &tracedDispatcher{ctx: ctx, next: next, tracer: tp.Tracer(tracerName)}
}

func (d *tracedDispatcher) Admit(label string, priority int) (uint64, error) {
	_, span := d.tracer.Start(d.ctx, "dispatch.admit",
		trace.WithAttributes(attribute.String("entity.label", label), attribute.Int("entity.priority", priority)))
	defer span.End()

	id, err := d.next.Admit(label, priority)
	span.SetAttributes(attribute.Int64("entity.id", int64(id)))
	if errors.Is(err, types.ErrRejected) {
		span.SetAttributes(attribute.Bool("admission.rejected", true))
	}
	endSpan(span, err)
	return id, err
}

func (d *tracedDispatcher) ServeNext() (*types.Entity, error) {
	_, span := d.tracer.Start(d.ctx, "dispatch.serve_next")
	defer span.End()

	entity, err := d.next.ServeNext()
	if entity != nil {
		span.SetAttributes(
			attribute.Int64("entity.id", int64(entity.ID())),
			attribute.String("entity.label", entity.Label()),
			attribute.Int("entity.priority", entity.Priority()),
		)
	}
	span.SetAttributes(attribute.Bool("dispatch.idle", entity == nil && err == nil))
	endSpan(span, err)
	return entity, err
}

func (d *tracedDispatcher) PeekWaiting() (int, *types.Entity, error) {
	_, span := d.tracer.Start(d.ctx, "dispatch.peek_waiting")
	defer span.End()

	count, next, err := d.next.PeekWaiting()
	span.SetAttributes(attribute.Int("dispatch.waiting", count))
	endSpan(span, err)
	return count, next, err
}

func (d *tracedDispatcher) LogSnapshot() ([]types.Entity, error) {
	_, span := d.tracer.Start(d.ctx, "dispatch.log_snapshot")
	defer span.End()

	entries, err := d.next.LogSnapshot()
	span.SetAttributes(attribute.Int("dispatch.served_log_entries", len(entries)))
	endSpan(span, err)
	return entries, err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
