package widget

import (
	"sort"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/content"
	"github.com/lessonkit/inversetrig/pkg/store"
	"github.com/lessonkit/inversetrig/pkg/vdom"
)

// Widget is a self-contained diagram bound to store variables.
type Widget interface {
	// Keys returns the store variables Render reads. The page re-renders
	// the widget after any of them changes.
	Keys() []string

	// Render builds the widget's current tree from the store.
	Render() *vdom.VNode
}

// Describer is implemented by widgets that can summarise their state in
// one line of text, for non-graphical renditions.
type Describer interface {
	Describe() string
}

// Env is what a widget is built against: the per-visitor store and the
// document listener registry of the live page.
type Env struct {
	Store    *store.Store
	Document *Document
}

// Factory builds a widget for an environment.
type Factory func(env Env) Widget

// Registry maps widget names used by content to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Registering a name twice replaces the factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build instantiates the named widget.
func (r *Registry) Build(name string, env Env) (Widget, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, lerrors.New("L011").WithDetailf("%q", name)
	}
	return f(env), nil
}

// LessonRegistry returns a registry with the lesson's two diagrams.
func LessonRegistry() *Registry {
	r := NewRegistry()
	r.Register(content.UnitCircleWidget, func(env Env) Widget { return NewUnitCircle(env) })
	r.Register(content.InverseLookupWidget, func(env Env) Widget { return NewInverseLookup(env) })
	return r
}
