package middleware

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "lesson"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "lesson").
	TracerName string

	// Provider supplies the tracer. Defaults to the global provider.
	Provider trace.TracerProvider

	// Filter determines which events to trace.
	// If nil, all events are traced.
	Filter func(ev *Event) bool
}

// TracingOption configures the OpenTelemetry middleware.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ev *Event) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// Tracing creates middleware that starts a span for every event.
//
// The span is named after the event type and carries the session ID and
// target hydration ID. The span context replaces the event's context, so
// anything the handler calls inherits the trace. Errors are recorded and
// the patch count is attached when the handler returns.
//
// Configure the global provider in main() before starting the server:
//
//	otel.SetTracerProvider(tp)
func Tracing(opts ...TracingOption) Middleware {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	tracer := config.Provider.Tracer(config.TracerName)

	return MiddlewareFunc(func(ev *Event, next func() error) error {
		if config.Filter != nil && !config.Filter(ev) {
			return next()
		}

		spanCtx, span := tracer.Start(
			ev.Context(),
			fmt.Sprintf("lesson.%s", ev.Type),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("lesson.session_id", ev.Session),
				attribute.String("lesson.event_type", ev.Type),
				attribute.String("lesson.event_target", ev.HID),
			),
		)
		defer span.End()

		ev.WithContext(spanCtx)

		err := next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(attribute.Int("lesson.patch_count", ev.Patches()))
		return err
	})
}

// SpanFromEvent returns the span started for ev, or a non-recording span
// when tracing is off.
func SpanFromEvent(ev *Event) trace.Span {
	return trace.SpanFromContext(ev.Context())
}
