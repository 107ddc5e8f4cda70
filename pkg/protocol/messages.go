package protocol

import "encoding/json"

// Version is the protocol version spoken by this server.
const Version = 1

// Hello is the first frame a client sends on a live connection.
type Hello struct {
	Version int    `json:"version"`
	Session string `json:"session"`
}

// Event is a DOM event forwarded by the client.
type Event struct {
	Seq uint64 `json:"seq"`

	// HID is the hydration ID of the target element. Empty for
	// document-level events.
	HID string `json:"hid,omitempty"`

	// Type is the DOM event type without the "on" prefix.
	Type string `json:"type"`

	// Document marks events captured on the document rather than on an
	// element.
	Document bool `json:"document,omitempty"`

	// Data is the event payload, decoded by the handler's event type.
	Data json.RawMessage `json:"data,omitempty"`
}

// Patch replaces a region's HTML.
type Patch struct {
	Region string `json:"region"`
	HTML   string `json:"html"`
}

// Patches is a batch of region patches answering the event Seq.
type Patches struct {
	Seq     uint64  `json:"seq"`
	Patches []Patch `json:"patches"`
}

// Control operations.
const (
	// OpCapture sets the document events the client forwards.
	OpCapture = "capture"

	// OpReload asks the client to reload the page.
	OpReload = "reload"
)

// Control is a server instruction to the client.
type Control struct {
	Op     string   `json:"op"`
	Events []string `json:"events,omitempty"`
}

// ErrorMessage reports a failed event. Fatal errors close the connection.
type ErrorMessage struct {
	Seq     uint64 `json:"seq,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal,omitempty"`
}
