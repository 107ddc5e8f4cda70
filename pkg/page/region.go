package page

import (
	"sync/atomic"

	"github.com/lessonkit/inversetrig/pkg/store"
	"github.com/lessonkit/inversetrig/pkg/vdom"
	"github.com/lessonkit/inversetrig/pkg/widget"
)

// region is a part of the page that depends on store variables. It is the
// unit of re-rendering: a dirty region is rendered again as a whole and
// replaces its previous HTML on the client.
type region struct {
	id         string
	name       string // widget name, or the variable of a scrubber
	inline     bool
	w          widget.Widget
	listenerID uint64
	dirty      atomic.Bool

	// handler keys registered by the last render
	keys []string
}

// MarkDirty implements store.Listener.
func (r *region) MarkDirty() { r.dirty.Store(true) }

// ID implements store.Listener.
func (r *region) ID() uint64 { return r.listenerID }

var _ store.Listener = (*region)(nil)

// node renders the region with its wrapper element.
func (r *region) node() *vdom.VNode {
	if r.inline {
		return vdom.Span(vdom.Class("region", "region-inline"), vdom.Data("region", r.id), r.w.Render())
	}
	return vdom.Div(vdom.Class("region"), vdom.Data("region", r.id), r.w.Render())
}
