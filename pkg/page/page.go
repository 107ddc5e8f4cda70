package page

import (
	"encoding/json"
	"fmt"
	"sync"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/content"
	"github.com/lessonkit/inversetrig/pkg/render"
	"github.com/lessonkit/inversetrig/pkg/store"
	"github.com/lessonkit/inversetrig/pkg/vdom"
	"github.com/lessonkit/inversetrig/pkg/widget"
)

// Patch replaces the HTML of one region on the client.
type Patch struct {
	Region string `json:"region"`
	HTML   string `json:"html"`
}

// Page interprets a content document for one visitor. It owns the widget
// instances, their store subscriptions and the handler registry.
//
// A Page is driven by a single goroutine: Render, Flush and Dispatch must
// not be called concurrently.
type Page struct {
	doc      *content.Document
	env      widget.Env
	renderer *render.Renderer
	hids     *vdom.HIDGenerator

	regions []*region
	cursor  int
	unsubs  []func()

	mu       sync.Mutex
	handlers map[string]any
}

// New validates doc against the registry and the store schema and builds
// a page bound to env.
func New(doc *content.Document, registry *widget.Registry, env widget.Env) (*Page, error) {
	if env.Store == nil {
		return nil, lerrors.New("L012").WithDetail("page needs a store")
	}
	if env.Document == nil {
		env.Document = widget.NewDocument()
	}
	if err := doc.Validate(registry, env.Store.Schema()); err != nil {
		return nil, err
	}

	p := &Page{
		doc:      doc,
		env:      env,
		renderer: render.NewRenderer(render.RendererConfig{}),
		hids:     vdom.NewHIDGenerator(),
		handlers: make(map[string]any),
	}

	err := doc.Walk(func(_ content.Section, b content.Block) error {
		switch body := b.Body.(type) {
		case content.WidgetRef:
			w, err := registry.Build(body.Name, env)
			if err != nil {
				return err
			}
			p.addRegion(body.Name, false, w)
		case content.Heading:
			return p.addScrubbers(body.Inlines)
		case content.Paragraph:
			return p.addScrubbers(body.Inlines)
		}
		return nil
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Page) addScrubbers(inlines []content.Inline) error {
	for _, in := range inlines {
		ref, ok := in.(content.ScrubberRef)
		if !ok {
			continue
		}
		s, err := widget.NewScrubber(p.env, ref.Var)
		if err != nil {
			return err
		}
		p.addRegion(ref.Var, true, s)
	}
	return nil
}

func (p *Page) addRegion(name string, inline bool, w widget.Widget) {
	r := &region{
		id:         fmt.Sprintf("r%d", len(p.regions)+1),
		name:       name,
		inline:     inline,
		w:          w,
		listenerID: store.NextListenerID(),
	}
	p.regions = append(p.regions, r)
	p.unsubs = append(p.unsubs, p.env.Store.Subscribe(r, w.Keys()...))
}

// Document returns the content document.
func (p *Page) Document() *content.Document { return p.doc }

// Env returns the page environment.
func (p *Page) Env() widget.Env { return p.env }

// Title returns the document title.
func (p *Page) Title() string { return p.doc.Title }

// Description returns the plain text of the first paragraph.
func (p *Page) Description() string {
	var desc string
	_ = p.doc.Walk(func(_ content.Section, b content.Block) error {
		if para, ok := b.Body.(content.Paragraph); ok && desc == "" {
			desc = content.PlainText(para.Inlines, p)
		}
		return nil
	})
	return desc
}

// Render builds the whole page body. Hydration IDs restart from h1, so two
// pages over the same document produce identical IDs. All regions are
// clean afterwards.
func (p *Page) Render() *vdom.VNode {
	p.mu.Lock()
	p.handlers = make(map[string]any)
	p.mu.Unlock()
	p.hids.Reset()
	p.cursor = 0

	sections := make([]*vdom.VNode, 0, len(p.doc.Sections))
	for _, s := range p.doc.Sections {
		sections = append(sections, p.section(s))
	}
	return vdom.Main(vdom.Class("lesson"), vdom.Data("document", p.doc.ID), sections)
}

func (p *Page) nextRegion() *region {
	if p.cursor >= len(p.regions) {
		return nil
	}
	r := p.regions[p.cursor]
	p.cursor++
	return r
}

// renderRegion renders r, assigns hydration IDs and replaces the region's
// handlers in the registry.
func (p *Page) renderRegion(r *region) *vdom.VNode {
	r.dirty.Store(false)
	node := r.node()
	vdom.AssignHIDs(node, p.hids)
	handlers := vdom.CollectHandlers(node)

	p.mu.Lock()
	for _, key := range r.keys {
		delete(p.handlers, key)
	}
	r.keys = r.keys[:0]
	for key, h := range handlers {
		p.handlers[key] = h
		r.keys = append(r.keys, key)
	}
	p.mu.Unlock()
	return node
}

// Dirty reports whether any region needs re-rendering.
func (p *Page) Dirty() bool {
	for _, r := range p.regions {
		if r.dirty.Load() {
			return true
		}
	}
	return false
}

// Flush re-renders dirty regions in document order and returns their
// patches.
func (p *Page) Flush() ([]Patch, error) {
	var patches []Patch
	for _, r := range p.regions {
		if !r.dirty.Load() {
			continue
		}
		html, err := p.renderer.RenderToString(p.renderRegion(r))
		if err != nil {
			return patches, err
		}
		patches = append(patches, Patch{Region: r.id, HTML: html})
	}
	return patches, nil
}

// Sync re-renders every region. A live connection uses it to bring a
// server-rendered page up to date with the session state.
func (p *Page) Sync() ([]Patch, error) {
	for _, r := range p.regions {
		r.MarkDirty()
	}
	return p.Flush()
}

// Regions returns the region IDs in document order.
func (p *Page) Regions() []string {
	out := make([]string, len(p.regions))
	for i, r := range p.regions {
		out[i] = r.id
	}
	return out
}

// Handler returns the handler registered for event on element hid.
func (p *Page) Handler(hid, event string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.handlers[vdom.HandlerKey(hid, "on"+event)]
	return h, ok
}

// Dispatch decodes data for the handler bound to (hid, event) and calls it.
func (p *Page) Dispatch(hid, event string, data json.RawMessage) error {
	h, ok := p.Handler(hid, event)
	if !ok {
		return lerrors.New("L022").WithDetailf("%s on %s", event, hid)
	}

	switch fn := h.(type) {
	case widget.PointerHandler:
		var ev widget.PointerEvent
		if err := decodeEvent(data, &ev); err != nil {
			return err
		}
		return fn(ev)
	case widget.InputHandler:
		var ev widget.InputEvent
		if err := decodeEvent(data, &ev); err != nil {
			return err
		}
		return fn(ev)
	default:
		return lerrors.New("L022").WithDetailf("%s on %s: unsupported handler %T", event, hid, h)
	}
}

// DispatchDocument delivers a document-level pointer event to the
// listeners of live drag sessions. It reports whether any listener ran.
func (p *Page) DispatchDocument(event string, data json.RawMessage) (bool, error) {
	var ev widget.PointerEvent
	if err := decodeEvent(data, &ev); err != nil {
		return false, err
	}
	return p.env.Document.Dispatch(event, ev), nil
}

func decodeEvent(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return lerrors.New("L021").Wrap(err)
	}
	return nil
}

// ScrubberText implements content.Resolver.
func (p *Page) ScrubberText(name string) string {
	v, ok := p.env.Store.Var(name)
	if !ok {
		return ""
	}
	return widget.FormatValue(v.Definition(), v.Get())
}

// WidgetText implements content.Resolver.
func (p *Page) WidgetText(name string) string {
	for _, r := range p.regions {
		if r.inline || r.name != name {
			continue
		}
		if d, ok := r.w.(widget.Describer); ok {
			return d.Describe()
		}
	}
	return name
}

// Markdown exports the page with the current variable values.
func (p *Page) Markdown() string {
	return content.Markdown(p.doc, p)
}

// Close drops the store subscriptions and closes the document listener
// registry, ending any live drag session.
func (p *Page) Close() {
	for _, unsubscribe := range p.unsubs {
		unsubscribe()
	}
	p.unsubs = nil
	p.env.Document.Close()
}

// Lesson builds the inverse trigonometry lesson page over env.
func Lesson(env widget.Env) (*Page, error) {
	return New(content.InverseTrigSection1(), widget.LessonRegistry(), env)
}
