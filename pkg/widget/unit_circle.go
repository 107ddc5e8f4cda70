package widget

import (
	"fmt"
	"math"

	"github.com/lessonkit/inversetrig/pkg/store"
	. "github.com/lessonkit/inversetrig/pkg/vdom"
)

// Radius is the unit circle radius in SVG user units.
const Radius = 100

// Diagram colors.
const (
	ColorAngle  = "#3b82f6"
	ColorSine   = "#ef4444"
	ColorCosine = "#10b981"
	ColorSecond = "#8b5cf6"

	colorAxis   = "#999"
	colorCircle = "#ccc"
	colorGrid   = "#e5e7eb"
)

const unitCircleGridID = "unit-circle-grid"

// UnitCircle draws a draggable point on the unit circle at angleValue,
// with its sine and cosine projections.
type UnitCircle struct {
	angle store.Var
	doc   *Document
	drag  *DragSession
}

// NewUnitCircle binds a unit circle to env.
func NewUnitCircle(env Env) *UnitCircle {
	return &UnitCircle{
		angle: env.Store.MustVar(store.AngleValue),
		doc:   env.Document,
	}
}

// Keys implements Widget.
func (w *UnitCircle) Keys() []string {
	return []string{store.AngleValue}
}

// Dragging reports whether a drag session is live.
func (w *UnitCircle) Dragging() bool {
	return w.drag.Active()
}

// Render implements Widget.
func (w *UnitCircle) Render() *VNode {
	theta := w.angle.Get()
	x, y := PointOnCircle(theta, Radius)
	px, py := round3(x), round3(y)

	return Div(Class("widget", "widget-unit-circle"),
		Svg(Class("widget-diagram"), Width(300), Height(300), ViewBox(-150, -150, 300, 300),
			Defs(
				Pattern(ID(unitCircleGridID), Width(30), Height(30), PatternUnits("userSpaceOnUse"),
					Path(D("M 30 0 L 0 0 0 30"), Fill("none"), Stroke(colorGrid), StrokeWidth(0.5)),
				),
			),
			Rect(X(-150), Y(-150), Width(300), Height(300), Fill("url(#"+unitCircleGridID+")")),

			// Axes
			Line(X1(-140), Y1(0), X2(140), Y2(0), Stroke(colorAxis), StrokeWidth(1)),
			Line(X1(0), Y1(-140), X2(0), Y2(140), Stroke(colorAxis), StrokeWidth(1)),

			Circle(Cx(0), Cy(0), R(Radius), Fill("none"), Stroke(colorCircle), StrokeWidth(1)),
			Path(Class("angle-arc"), D(ArcPath(theta, Radius)), Fill("none"), Stroke(ColorAngle), StrokeWidth(2)),
			Line(Class("radius"), X1(0), Y1(0), X2(px), Y2(py), Stroke(ColorAngle), StrokeWidth(2)),

			// Projections
			Line(Class("sin-projection"), X1(px), Y1(py), X2(px), Y2(0),
				Stroke(ColorSine), StrokeWidth(2), StrokeDasharray("5,5")),
			SvgText(X(round3(px+10)), Y(15), FontSize(12), Fill(ColorSine), FontWeight("bold"), "sin"),
			Line(Class("cos-projection"), X1(px), Y1(py), X2(0), Y2(py),
				Stroke(ColorCosine), StrokeWidth(2), StrokeDasharray("5,5")),
			SvgText(X(-10), Y(round3(py-10)), FontSize(12), Fill(ColorCosine), FontWeight("bold"), "cos"),

			Circle(Class("angle-handle"), Cx(px), Cy(py), R(6),
				Fill(ColorAngle), Stroke("white"), StrokeWidth(2), Cursor("grab"),
				Role("slider"), AriaLabel("angle"), AriaValueNow(round3(theta)),
				AriaValueMin(0), AriaValueMax(round3(2*math.Pi)),
				OnMouseDown(PointerHandler(w.beginDrag)),
			),
		),
		Div(Class("widget-caption"), "Drag the point around the circle"),
	)
}

// beginDrag starts a drag session measured against the frame of the
// enclosing SVG. Without a usable frame it does nothing.
func (w *UnitCircle) beginDrag(ev PointerEvent) error {
	if !ev.Frame.Valid() || w.doc == nil {
		return nil
	}
	w.drag.End()

	frame := *ev.Frame
	w.drag = BeginDrag(w.doc, func(move PointerEvent) {
		dx, dy, ok := frame.Offset(move.ClientX, move.ClientY)
		if !ok {
			return
		}
		_ = w.angle.Set(AngleFromOffset(dx, dy))
	})
	return nil
}

// Describe implements Describer.
func (w *UnitCircle) Describe() string {
	theta := w.angle.Get()
	return fmt.Sprintf("Unit circle: θ = %.2f rad (%s), sin θ = %.3f, cos θ = %.3f",
		theta, FormatDegrees(theta), math.Sin(theta), math.Cos(theta))
}
