// Package widget implements the lesson's interactive diagrams and the
// inline scrubber.
//
// Widgets read the variables they declare in Keys from a store and render
// a VNode tree; they never keep derived state between renders. Pointer
// interaction that outlives a single event (dragging) goes through a
// DragSession, which holds document-level listeners for exactly as long as
// the drag lasts.
package widget
