package vdom

import (
	"strconv"
	"sync/atomic"
)

// HIDGenerator hands out hydration IDs ("h1", "h2", ...) for interactive
// elements. A page resets it before every full render so IDs are stable.
type HIDGenerator struct {
	counter atomic.Uint32
}

// NewHIDGenerator creates a generator starting at h1.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID.
func (g *HIDGenerator) Next() string {
	return "h" + strconv.FormatUint(uint64(g.counter.Add(1)), 10)
}

// Reset restarts numbering at h1.
func (g *HIDGenerator) Reset() { g.counter.Store(0) }

// Current returns the number of IDs handed out since the last reset.
func (g *HIDGenerator) Current() uint32 { return g.counter.Load() }

// Walk visits node and its descendants depth-first. Returning false from
// fn skips the node's children.
func Walk(node *VNode, fn func(*VNode) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// AssignHIDs gives every element with event handlers a HID.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	Walk(node, func(n *VNode) bool {
		if n.IsInteractive() {
			n.HID = gen.Next()
		}
		return true
	})
}

// HandlerKey is the registry key for a handler: "h3_onmousedown".
func HandlerKey(hid, prop string) string {
	return hid + "_" + prop
}

// CollectHandlers returns every handler in the tree keyed by HandlerKey.
// Nodes without a HID are skipped; call AssignHIDs first.
func CollectHandlers(node *VNode) map[string]any {
	out := make(map[string]any)
	Walk(node, func(n *VNode) bool {
		if n.HID == "" {
			return true
		}
		for prop, h := range n.Handlers() {
			out[HandlerKey(n.HID, prop)] = h
		}
		return true
	})
	return out
}

// Find returns the first node in depth-first order for which match is true.
func Find(node *VNode, match func(*VNode) bool) *VNode {
	var found *VNode
	Walk(node, func(n *VNode) bool {
		if found != nil {
			return false
		}
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}
