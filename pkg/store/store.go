package store

import (
	"math"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
)

// Store is a reactive key-value store of named numeric variables.
//
// Every key is declared by the schema. Writes are validated and coerced at
// write time, so reads never need to check ranges. Listeners subscribed to
// a key are notified synchronously after a write changes its value.
type Store struct {
	schema *Schema

	// mu protects values.
	mu     sync.RWMutex
	values map[string]float64

	// subMu protects subs and observers.
	subMu     sync.RWMutex
	subs      map[string][]Listener
	observers []func(name string, value float64)
}

// New creates a store for the given schema. Variables start unset and
// read as their defaults.
func New(schema *Schema) *Store {
	return &Store{
		schema: schema,
		values: make(map[string]float64),
		subs:   make(map[string][]Listener),
	}
}

// Schema returns the store's schema.
func (s *Store) Schema() *Schema {
	return s.schema
}

// Get returns the current value of name, or its default when unset.
func (s *Store) Get(name string) (float64, error) {
	def, ok := s.schema.Lookup(name)
	if !ok {
		return 0, unknownVariable(name)
	}

	s.mu.RLock()
	v, set := s.values[name]
	s.mu.RUnlock()

	if !set {
		return def.Default, nil
	}
	return v, nil
}

// Float returns the value of name, or 0 for an unknown name.
func (s *Store) Float(name string) float64 {
	v, _ := s.Get(name)
	return v
}

// Set validates and stores v under name, then notifies subscribers if the
// value changed. Out-of-range values are coerced per the definition.
func (s *Store) Set(name string, v float64) error {
	def, ok := s.schema.Lookup(name)
	if !ok {
		return unknownVariable(name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lerrors.New("L002").WithDetailf("%s: %v is not finite", name, v)
	}
	v = def.Coerce(v)

	s.mu.Lock()
	old, set := s.values[name]
	if !set {
		old = def.Default
	}
	changed := old != v
	s.values[name] = v
	s.mu.Unlock()

	if changed {
		s.notify(name, v)
	}
	return nil
}

// SetAny decodes a dynamically typed value (string, integer, json.Number,
// float) into a float64 and stores it with Set.
func (s *Store) SetAny(name string, raw any) error {
	if raw == nil {
		return lerrors.New("L002").WithDetailf("%s: nil value", name)
	}
	if str, ok := raw.(string); ok && strings.TrimSpace(str) == "" {
		return lerrors.New("L002").WithDetailf("%s: empty value", name)
	}

	var v float64
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &v,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return lerrors.New("L002").WithDetailf("%s: %v", name, raw).Wrap(err)
	}
	return s.Set(name, v)
}

// Subscribe registers l for changes to any of keys and returns a function
// that removes the subscription. Subscribing the same listener twice to a
// key is a no-op.
func (s *Store) Subscribe(l Listener, keys ...string) func() {
	if l == nil {
		return func() {}
	}

	s.subMu.Lock()
	for _, key := range keys {
		if !containsListener(s.subs[key], l.ID()) {
			s.subs[key] = append(s.subs[key], l)
		}
	}
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for _, key := range keys {
				s.subs[key] = removeListener(s.subs[key], l.ID())
			}
		})
	}
}

// OnWrite registers an observer called after every value change.
func (s *Store) OnWrite(fn func(name string, value float64)) {
	s.subMu.Lock()
	s.observers = append(s.observers, fn)
	s.subMu.Unlock()
}

// notify copies subscribers under the lock and calls them without it, so
// listeners may read the store.
func (s *Store) notify(name string, v float64) {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs[name]))
	copy(subs, s.subs[name])
	observers := make([]func(string, float64), len(s.observers))
	copy(observers, s.observers)
	s.subMu.RUnlock()

	for _, l := range subs {
		l.MarkDirty()
	}
	for _, fn := range observers {
		fn(name, v)
	}
}

// Snapshot returns the explicitly set values.
func (s *Store) Snapshot() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Restore writes every known key of snapshot through Set. Unknown keys are
// skipped so snapshots written by older schemas still load.
func (s *Store) Restore(snapshot map[string]float64) error {
	for _, name := range s.schema.Names() {
		v, ok := snapshot[name]
		if !ok {
			continue
		}
		if err := s.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Var returns a typed accessor for name.
func (s *Store) Var(name string) (Var, bool) {
	def, ok := s.schema.Lookup(name)
	if !ok {
		return Var{}, false
	}
	return Var{store: s, def: def}, true
}

// MustVar returns the accessor for a variable the caller knows is declared.
func (s *Store) MustVar(name string) Var {
	v, ok := s.Var(name)
	if !ok {
		panic(unknownVariable(name))
	}
	return v
}

// Var is a typed handle to one declared variable.
type Var struct {
	store *Store
	def   Definition
}

// Name returns the variable name.
func (v Var) Name() string { return v.def.Name }

// Definition returns the variable's schema entry.
func (v Var) Definition() Definition { return v.def }

// Get returns the current value.
func (v Var) Get() float64 {
	val, _ := v.store.Get(v.def.Name)
	return val
}

// Set stores a new value.
func (v Var) Set(val float64) error {
	return v.store.Set(v.def.Name, val)
}

// SetAny decodes raw and stores it.
func (v Var) SetAny(raw any) error {
	return v.store.SetAny(v.def.Name, raw)
}

func unknownVariable(name string) error {
	return lerrors.New("L001").WithDetailf("%q", name)
}

func containsListener(list []Listener, id uint64) bool {
	for _, l := range list {
		if l.ID() == id {
			return true
		}
	}
	return false
}

func removeListener(list []Listener, id uint64) []Listener {
	for i, l := range list {
		if l.ID() == id {
			list[i] = list[len(list)-1]
			return list[:len(list)-1]
		}
	}
	return list
}
