// Package middleware wraps the handling of client events with
// observability.
//
// Every event dispatched by a live session runs through a chain of
// Middleware before reaching the page:
//
//	metrics := middleware.NewMetrics()
//	chain := []middleware.Middleware{
//	    middleware.Tracing(),
//	    metrics.Middleware(),
//	}
//	ev := middleware.NewEvent(ctx, sessionID, hid, "mousemove")
//	err := middleware.Run(ev, func() error {
//	    patches := handle(ev.Context())
//	    ev.AddPatches(len(patches))
//	    return nil
//	}, chain...)
//
// # Prometheus Metrics
//
// Metrics owns its registry rather than registering globally, so several
// servers can run in one process (and in one test binary). Serve it with:
//
//	r.Handle("/metrics", metrics.Handler())
//
// # OpenTelemetry
//
// Tracing uses the global tracer provider unless WithTracerProvider is
// given. The span context is installed on the Event, so code running
// inside the handler can call SpanFromEvent or pass ev.Context() on.
package middleware
