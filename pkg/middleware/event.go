package middleware

import "context"

// Event is one client event travelling through the middleware chain.
type Event struct {
	ctx     context.Context
	Session string
	HID     string
	Type    string
	patches int
	values  map[any]any
}

// NewEvent creates an Event for a dispatch on session.
func NewEvent(ctx context.Context, session, hid, eventType string) *Event {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Event{ctx: ctx, Session: session, HID: hid, Type: eventType}
}

// Context returns the event's standard context.
func (e *Event) Context() context.Context { return e.ctx }

// WithContext replaces the standard context seen by later middleware and
// the final handler.
func (e *Event) WithContext(ctx context.Context) {
	if ctx != nil {
		e.ctx = ctx
	}
}

// AddPatches records n patches produced while handling the event.
func (e *Event) AddPatches(n int) { e.patches += n }

// Patches returns the number of patches recorded so far.
func (e *Event) Patches() int { return e.patches }

// SetValue stores a request-scoped value.
func (e *Event) SetValue(key, value any) {
	if e.values == nil {
		e.values = make(map[any]any)
	}
	e.values[key] = value
}

// Value returns a value stored with SetValue.
func (e *Event) Value(key any) any { return e.values[key] }

// Middleware wraps the handling of one event.
type Middleware interface {
	Handle(ev *Event, next func() error) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(ev *Event, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ev *Event, next func() error) error {
	return f(ev, next)
}

// Run executes final inside mws, outermost first.
func Run(ev *Event, final func() error, mws ...Middleware) error {
	var call func(i int) error
	call = func(i int) error {
		if i == len(mws) {
			return final()
		}
		if mws[i] == nil {
			return call(i + 1)
		}
		return mws[i].Handle(ev, func() error { return call(i + 1) })
	}
	return call(0)
}
