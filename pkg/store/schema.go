package store

import (
	"math"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
)

// RangeMode decides how a write outside [Min, Max] is coerced.
type RangeMode uint8

const (
	// RangeNone accepts any finite value.
	RangeNone RangeMode = iota
	// RangeClamp pins values to [Min, Max].
	RangeClamp
	// RangeWrap reduces values modulo (Max-Min) into [Min, Max).
	RangeWrap
)

// String returns the string representation of the RangeMode.
func (m RangeMode) String() string {
	switch m {
	case RangeNone:
		return "none"
	case RangeClamp:
		return "clamp"
	case RangeWrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// Definition declares one named variable: its type is always float64,
// the rest is metadata for validation and for controls bound to it.
type Definition struct {
	Name      string
	Label     string
	Default   float64
	Min       float64
	Max       float64
	Step      float64
	Precision int
	Range     RangeMode
}

// Coerce applies the definition's range mode to v. v must be finite.
func (d Definition) Coerce(v float64) float64 {
	switch d.Range {
	case RangeClamp:
		return math.Max(d.Min, math.Min(d.Max, v))
	case RangeWrap:
		span := d.Max - d.Min
		r := math.Mod(v-d.Min, span)
		if r < 0 {
			r += span
		}
		// r+span can round up to exactly span.
		if r >= span {
			r = 0
		}
		return d.Min + r
	default:
		return v
	}
}

func (d Definition) validate() error {
	switch {
	case d.Name == "":
		return lerrors.New("L003").WithDetail("empty name")
	case d.Step < 0 || math.IsNaN(d.Step):
		return lerrors.New("L003").WithDetailf("%s: step must not be negative", d.Name)
	case d.Range != RangeNone && !(d.Min < d.Max):
		return lerrors.New("L003").WithDetailf("%s: min must be below max", d.Name)
	case math.IsNaN(d.Default) || math.IsInf(d.Default, 0):
		return lerrors.New("L003").WithDetailf("%s: default must be finite", d.Name)
	}
	if d.Range != RangeNone && d.Coerce(d.Default) != d.Default {
		return lerrors.New("L003").WithDetailf("%s: default %v outside range", d.Name, d.Default)
	}
	return nil
}

// Schema is an ordered, immutable set of variable definitions.
type Schema struct {
	defs  map[string]Definition
	order []string
}

// NewSchema validates the definitions and builds a schema.
func NewSchema(defs ...Definition) (*Schema, error) {
	s := &Schema{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.defs[d.Name]; dup {
			return nil, lerrors.New("L003").WithDetailf("%s: defined twice", d.Name)
		}
		s.defs[d.Name] = d
		s.order = append(s.order, d.Name)
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error, for package-level schemas.
func MustSchema(defs ...Definition) *Schema {
	s, err := NewSchema(defs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the definition for name.
func (s *Schema) Lookup(name string) (Definition, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Names returns the variable names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Variable names used by the inverse trigonometry lesson.
const (
	AngleValue = "angleValue"
	SineValue  = "sineValue"
)

// LessonSchema returns the schema for the lesson's two variables.
func LessonSchema() *Schema {
	return MustSchema(
		Definition{
			Name:      AngleValue,
			Label:     "θ",
			Default:   math.Pi / 4,
			Min:       0,
			Max:       2 * math.Pi,
			Step:      0.01,
			Precision: 2,
			Range:     RangeWrap,
		},
		Definition{
			Name:      SineValue,
			Label:     "sin(θ)",
			Default:   0.707,
			Min:       -1,
			Max:       1,
			Step:      0.05,
			Precision: 3,
			Range:     RangeClamp,
		},
	)
}
