package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the engine.
const defaultTracerName = "weave"

// Span names.
const (
	SpanBuild     = "component.build"
	SpanReconcile = "component.reconcile"
)

// Attribute keys.
const (
	AttrComponentID = attribute.Key("weave.component.id")
	AttrNodeCount   = attribute.Key("weave.node.count")
)

// TracerConfig configures a Tracer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "weave").
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider
}

// TracerOption configures a Tracer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = p
	}
}

// Tracer starts engine spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer. Configure the global provider with
// otel.SetTracerProvider before calling it to export spans.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: provider.Tracer(config.TracerName)}
}

// Start opens a span named name for the component id.
func (t *Tracer) Start(ctx context.Context, name, id string) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(AttrComponentID.String(id)),
	)
}

// End closes span, recording err if it is non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
