package widget

import (
	"sort"
	"sync"
)

// Document is the registry of document-level listeners for one live page.
//
// Listeners are acquired with Listen and released with the returned func.
// The client only forwards document events that have at least one listener;
// OnChange reports every change of that set so the transport can tell it.
type Document struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[string][]docListener
	closers   map[uint64]func()
	onChange  func(active []string)
	closed    bool
}

type docListener struct {
	id uint64
	fn func(PointerEvent)
}

// NewDocument creates an empty listener registry.
func NewDocument() *Document {
	return &Document{
		listeners: make(map[string][]docListener),
		closers:   make(map[uint64]func()),
	}
}

// OnChange sets the callback invoked after the set of active event types
// changes. It is called without the document lock held.
func (d *Document) OnChange(fn func(active []string)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Listen registers fn for eventType and returns its release func. Release
// is idempotent. Listening on a closed document registers nothing.
func (d *Document) Listen(eventType string, fn func(PointerEvent)) (release func()) {
	return d.ListenAll(map[string]func(PointerEvent){eventType: fn})
}

// ListenAll registers one listener per event type as a single change:
// OnChange fires at most once when they are added and once when the
// returned func releases them all.
func (d *Document) ListenAll(fns map[string]func(PointerEvent)) (release func()) {
	d.mu.Lock()
	if d.closed || len(fns) == 0 {
		d.mu.Unlock()
		return func() {}
	}
	ids := make(map[string]uint64, len(fns))
	added := false
	for eventType, fn := range fns {
		d.nextID++
		ids[eventType] = d.nextID
		if len(d.listeners[eventType]) == 0 {
			added = true
		}
		d.listeners[eventType] = append(d.listeners[eventType], docListener{id: d.nextID, fn: fn})
	}
	d.mu.Unlock()

	if added {
		d.changed()
	}

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(ids) })
	}
}

func (d *Document) remove(ids map[string]uint64) {
	d.mu.Lock()
	emptied := false
	for eventType, id := range ids {
		list := d.listeners[eventType]
		for i, l := range list {
			if l.id == id {
				list = append(list[:i:i], list[i+1:]...)
				if len(list) == 0 {
					emptied = true
				}
				break
			}
		}
		if len(list) == 0 {
			delete(d.listeners, eventType)
		} else {
			d.listeners[eventType] = list
		}
	}
	d.mu.Unlock()

	if emptied {
		d.changed()
	}
}

// Dispatch delivers ev to every listener of eventType, in registration
// order. Listeners may release themselves or register others. It reports
// whether any listener was called.
func (d *Document) Dispatch(eventType string, ev PointerEvent) bool {
	d.mu.Lock()
	list := make([]docListener, len(d.listeners[eventType]))
	copy(list, d.listeners[eventType])
	d.mu.Unlock()

	for _, l := range list {
		l.fn(ev)
	}
	return len(list) > 0
}

// Active returns the sorted event types with at least one listener.
func (d *Document) Active() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeLocked()
}

func (d *Document) activeLocked() []string {
	out := make([]string, 0, len(d.listeners))
	for t := range d.listeners {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Close runs every pending cleanup (ending live drag sessions), drops the
// remaining listeners and rejects new ones. Close is idempotent.
func (d *Document) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	closers := make([]func(), 0, len(d.closers))
	for _, fn := range d.closers {
		closers = append(closers, fn)
	}
	d.mu.Unlock()

	for _, fn := range closers {
		fn()
	}

	d.mu.Lock()
	d.closed = true
	had := len(d.listeners) > 0
	d.listeners = make(map[string][]docListener)
	d.closers = make(map[uint64]func())
	d.mu.Unlock()

	if had {
		d.changed()
	}
}

// Closed reports whether Close has been called.
func (d *Document) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// onClose registers fn to run when the document closes. The returned func
// unregisters it.
func (d *Document) onClose(fn func()) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return func() {}
	}
	d.nextID++
	id := d.nextID
	d.closers[id] = fn
	return func() {
		d.mu.Lock()
		delete(d.closers, id)
		d.mu.Unlock()
	}
}

func (d *Document) changed() {
	d.mu.Lock()
	fn := d.onChange
	active := d.activeLocked()
	d.mu.Unlock()
	if fn != nil {
		fn(active)
	}
}
