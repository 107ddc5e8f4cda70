package widget

import (
	"math"
	"strconv"
	"strings"

	"github.com/lessonkit/inversetrig/pkg/store"
	. "github.com/lessonkit/inversetrig/pkg/vdom"
)

// ScrubPixels is the horizontal drag distance for one step.
const ScrubPixels = 4

// Scrubber is an inline number bound to a variable. Dragging it sideways
// changes the value by the variable's step per ScrubPixels.
type Scrubber struct {
	v    store.Var
	doc  *Document
	drag *DragSession
}

// NewScrubber binds a scrubber to the named variable.
func NewScrubber(env Env, name string) (*Scrubber, error) {
	v, ok := env.Store.Var(name)
	if !ok {
		_, err := env.Store.Get(name)
		return nil, err
	}
	return &Scrubber{v: v, doc: env.Document}, nil
}

// Keys implements Widget.
func (s *Scrubber) Keys() []string {
	return []string{s.v.Name()}
}

// Render implements Widget.
func (s *Scrubber) Render() *VNode {
	def := s.v.Definition()
	value := s.v.Get()

	attrs := []Attr{
		Class("scrubber"),
		Data("var", def.Name),
		Role("slider"),
		TabIndex(0),
		AriaLabel(def.Label),
		AriaValueNow(value),
		Cursor("ew-resize"),
	}
	if def.Range != store.RangeNone {
		attrs = append(attrs, AriaValueMin(def.Min), AriaValueMax(def.Max))
	}

	return Span(attrs, FormatValue(def, value), OnMouseDown(PointerHandler(s.beginDrag)))
}

func (s *Scrubber) beginDrag(ev PointerEvent) error {
	if s.doc == nil {
		return nil
	}
	s.drag.End()

	def := s.v.Definition()
	startX, start := ev.ClientX, s.v.Get()
	step := def.Step
	if step == 0 {
		step = math.Pow10(-def.Precision)
	}

	s.drag = BeginDrag(s.doc, func(move PointerEvent) {
		steps := math.Trunc((move.ClientX - startX) / ScrubPixels)
		if steps == 0 {
			_ = s.v.Set(start)
			return
		}
		_ = s.v.Set(roundTo(start+steps*step, def.Precision))
	})
	return nil
}

// FormatValue formats v with the definition's display precision.
func FormatValue(def store.Definition, v float64) string {
	out := strconv.FormatFloat(v, 'f', def.Precision, 64)
	if strings.Trim(out, "-0.") == "" {
		out = strings.TrimPrefix(out, "-")
	}
	return out
}

func roundTo(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
