package widget

// PointerEvent is a mouse event forwarded by the client.
type PointerEvent struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`

	// Frame is the bounding rectangle of the nearest enclosing <svg>, or of
	// the target itself outside SVG. Nil when the client could not resolve it.
	Frame *Frame `json:"frame,omitempty"`

	// Buttons is the MouseEvent.buttons bitmask. Nil when the client did
	// not report it.
	Buttons *int `json:"buttons,omitempty"`
}

// Released reports whether the event says no mouse button is held.
func (ev PointerEvent) Released() bool {
	return ev.Buttons != nil && *ev.Buttons == 0
}

// InputEvent is an input or change event carrying the control's value.
// Value is whatever the client sent, usually a string.
type InputEvent struct {
	Value any `json:"value"`
}

// PointerHandler handles element-level mouse events.
type PointerHandler func(PointerEvent) error

// InputHandler handles input and change events.
type InputHandler func(InputEvent) error

// Document-level event types a drag session listens to.
const (
	EventMouseMove = "mousemove"
	EventMouseUp   = "mouseup"
)
