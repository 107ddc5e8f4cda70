package store

import "sync/atomic"

// Listener is anything that can be notified when a variable it depends on
// changes. Page regions implement it to schedule a re-render.
type Listener interface {
	// MarkDirty notifies the listener that one of its keys changed.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used to deduplicate subscriptions.
	ID() uint64
}

var listenerIDs atomic.Uint64

// NextListenerID returns a process-unique listener ID.
func NextListenerID() uint64 {
	return listenerIDs.Add(1)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc struct {
	id uint64
	fn func()
}

// NewListenerFunc wraps fn with a fresh ID.
func NewListenerFunc(fn func()) *ListenerFunc {
	return &ListenerFunc{id: NextListenerID(), fn: fn}
}

// MarkDirty implements Listener.
func (l *ListenerFunc) MarkDirty() { l.fn() }

// ID implements Listener.
func (l *ListenerFunc) ID() uint64 { return l.id }
