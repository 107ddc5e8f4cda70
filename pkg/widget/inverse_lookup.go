package widget

import (
	"fmt"

	"github.com/lessonkit/inversetrig/pkg/store"
	. "github.com/lessonkit/inversetrig/pkg/vdom"
)

// InverseLookup shows the two angles in a full turn whose sine equals
// sineValue, with a range slider bound to the variable.
type InverseLookup struct {
	sine store.Var
}

// NewInverseLookup binds an inverse lookup diagram to env.
func NewInverseLookup(env Env) *InverseLookup {
	return &InverseLookup{sine: env.Store.MustVar(store.SineValue)}
}

// Keys implements Widget.
func (w *InverseLookup) Keys() []string {
	return []string{store.SineValue}
}

// Render implements Widget.
func (w *InverseLookup) Render() *VNode {
	s := w.sine.Get()
	def := w.sine.Definition()
	a1, a2 := InverseAngles(s)
	x1, y1 := PointOnCircle(a1, Radius)
	x2, y2 := PointOnCircle(a2, Radius)
	x1, y1, x2, y2 = round3(x1), round3(y1), round3(x2), round3(y2)
	ref := round3(-Radius * s)

	return Div(Class("widget", "widget-inverse-lookup"),
		Div(Class("widget-controls"),
			P(Class("widget-given"), fmt.Sprintf("Given: sin(θ) = %.3f", s)),
			Input(Class("widget-slider"), Type("range"), Name(store.SineValue),
				Min(def.Min), Max(def.Max), Step(def.Step), Value(s),
				AriaLabel(def.Label),
				OnInput(InputHandler(w.input)),
			),
		),
		Svg(Class("widget-diagram"), Width(280), Height(280), ViewBox(-140, -140, 280, 280),
			Circle(Cx(0), Cy(0), R(Radius), Fill("none"), Stroke(colorCircle), StrokeWidth(1)),

			// Axes
			Line(X1(-120), Y1(0), X2(120), Y2(0), Stroke(colorAxis), StrokeWidth(1)),
			Line(X1(0), Y1(-120), X2(0), Y2(120), Stroke(colorAxis), StrokeWidth(1)),

			Line(Class("sine-reference"), X1(-Radius), Y1(ref), X2(Radius), Y2(ref),
				Stroke(ColorSine), StrokeWidth(2), StrokeDasharray("5,5"), Opacity(0.6)),

			Circle(Class("angle-point", "angle-1"), Cx(x1), Cy(y1), R(6),
				Fill(ColorAngle), Stroke("white"), StrokeWidth(2)),
			Line(X1(0), Y1(0), X2(x1), Y2(y1), Stroke(ColorAngle), StrokeWidth(2)),

			Circle(Class("angle-point", "angle-2"), Cx(x2), Cy(y2), R(6),
				Fill(ColorSecond), Stroke("white"), StrokeWidth(2)),
			Line(X1(0), Y1(0), X2(x2), Y2(y2), Stroke(ColorSecond), StrokeWidth(2)),

			SvgText(X(round3(x1+10)), Y(round3(y1-10)), FontSize(11), Fill(ColorAngle), FontWeight("bold"), "θ₁"),
			SvgText(X(round3(x2-20)), Y(round3(y2-10)), FontSize(11), Fill(ColorSecond), FontWeight("bold"), "θ₂"),
		),
		Div(Class("widget-readout"),
			P("θ₁ ≈ "+FormatDegrees(a1)),
			P("θ₂ ≈ "+FormatDegrees(a2)),
		),
	)
}

// input writes the slider value. Values outside [-1, 1] are clamped by the
// store.
func (w *InverseLookup) input(ev InputEvent) error {
	return w.sine.SetAny(ev.Value)
}

// Describe implements Describer.
func (w *InverseLookup) Describe() string {
	s := w.sine.Get()
	a1, a2 := InverseAngles(s)
	return fmt.Sprintf("Inverse lookup: sin(θ) = %.3f, θ₁ ≈ %s, θ₂ ≈ %s", s, FormatDegrees(a1), FormatDegrees(a2))
}
