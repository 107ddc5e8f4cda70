package widget

import (
	"errors"
	"math"
	"strings"
	"testing"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/content"
	"github.com/lessonkit/inversetrig/pkg/store"
	"github.com/lessonkit/inversetrig/pkg/vdom"
)

func newEnv() Env {
	return Env{Store: store.New(store.LessonSchema()), Document: NewDocument()}
}

func hasClass(n *vdom.VNode, class string) bool {
	c, _ := n.Props["class"].(string)
	for _, f := range strings.Fields(c) {
		if f == class {
			return true
		}
	}
	return false
}

func findClass(t *testing.T, root *vdom.VNode, class string) *vdom.VNode {
	t.Helper()
	n := vdom.Find(root, func(n *vdom.VNode) bool {
		return n.Kind == vdom.KindElement && hasClass(n, class)
	})
	if n == nil {
		t.Fatalf("no element with class %q", class)
	}
	return n
}

func textOf(n *vdom.VNode) string {
	if n == nil {
		return ""
	}
	if n.Kind == vdom.KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(textOf(c))
	}
	return b.String()
}

func TestUnitCircleRender(t *testing.T) {
	w := NewUnitCircle(newEnv())
	root := w.Render()

	handle := findClass(t, root, "angle-handle")
	if handle.Props["cx"] != 70.711 || handle.Props["cy"] != -70.711 {
		t.Errorf("handle at (%v, %v), want (70.711, -70.711)", handle.Props["cx"], handle.Props["cy"])
	}
	if _, ok := handle.Props["onmousedown"].(PointerHandler); !ok {
		t.Error("handle has no mousedown handler")
	}

	arc := findClass(t, root, "angle-arc")
	if arc.Props["d"] != "M 100 0 A 100 100 0 0 1 70.711 -70.711" {
		t.Errorf("arc d = %v", arc.Props["d"])
	}

	sin := findClass(t, root, "sin-projection")
	if sin.Props["y2"] != 0.0 || sin.Props["stroke-dasharray"] != "5,5" {
		t.Errorf("sin projection props %v", sin.Props)
	}
	cos := findClass(t, root, "cos-projection")
	if cos.Props["x2"] != 0.0 || cos.Props["y2"] != -70.711 {
		t.Errorf("cos projection props %v", cos.Props)
	}

	if !strings.Contains(textOf(root), "Drag the point around the circle") {
		t.Error("missing caption")
	}
	if got := w.Keys(); len(got) != 1 || got[0] != store.AngleValue {
		t.Errorf("Keys() = %v", got)
	}
}

func TestUnitCircleLargeArcAfterHalfTurn(t *testing.T) {
	env := newEnv()
	w := NewUnitCircle(env)
	_ = env.Store.Set(store.AngleValue, 3*math.Pi/2)

	arc := findClass(t, w.Render(), "angle-arc")
	if arc.Props["d"] != "M 100 0 A 100 100 0 1 1 0 100" {
		t.Errorf("arc d = %v", arc.Props["d"])
	}
}

func startDrag(t *testing.T, w *UnitCircle, ev PointerEvent) {
	t.Helper()
	handle := findClass(t, w.Render(), "angle-handle")
	if err := handle.Props["onmousedown"].(PointerHandler)(ev); err != nil {
		t.Fatalf("mousedown: %v", err)
	}
}

func TestUnitCircleDrag(t *testing.T) {
	env := newEnv()
	w := NewUnitCircle(env)
	frame := &Frame{Left: 10, Top: 20, Width: 300, Height: 300}

	startDrag(t, w, PointerEvent{ClientX: 220, ClientY: 100, Frame: frame})
	if !w.Dragging() {
		t.Fatal("drag did not start")
	}

	// centre is (160, 170) in client space
	tests := []struct {
		clientX, clientY float64
		want             float64
	}{
		{260, 170, 0},
		{160, 70, math.Pi / 2},
		{60, 170, math.Pi},
		{160, 270, 3 * math.Pi / 2},
		{210, 220, 7 * math.Pi / 4},
		{110, 120, 3 * math.Pi / 4},
	}
	for _, tt := range tests {
		env.Document.Dispatch(EventMouseMove, PointerEvent{ClientX: tt.clientX, ClientY: tt.clientY})
		got := env.Store.Float(store.AngleValue)
		if math.Abs(got-tt.want) > tol {
			t.Errorf("move to (%v, %v): angle = %v, want %v", tt.clientX, tt.clientY, got, tt.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("angle %v outside [0, 2π)", got)
		}
	}

	env.Document.Dispatch(EventMouseUp, PointerEvent{})
	if w.Dragging() || len(env.Document.Active()) != 0 {
		t.Fatalf("drag still live after mouseup: %v", env.Document.Active())
	}

	before := env.Store.Float(store.AngleValue)
	env.Document.Dispatch(EventMouseMove, PointerEvent{ClientX: 260, ClientY: 170})
	if env.Store.Float(store.AngleValue) != before {
		t.Error("move after mouseup changed the angle")
	}
}

func TestUnitCircleDragWithoutFrame(t *testing.T) {
	for _, frame := range []*Frame{nil, {Width: 0, Height: 300}} {
		env := newEnv()
		w := NewUnitCircle(env)
		startDrag(t, w, PointerEvent{ClientX: 1, ClientY: 1, Frame: frame})
		if w.Dragging() || len(env.Document.Active()) != 0 {
			t.Errorf("frame %+v: drag started without a usable frame", frame)
		}
	}
}

func TestUnitCircleRestartReplacesSession(t *testing.T) {
	env := newEnv()
	w := NewUnitCircle(env)
	frame := &Frame{Width: 300, Height: 300}

	writes := 0
	env.Store.OnWrite(func(string, float64) { writes++ })

	startDrag(t, w, PointerEvent{Frame: frame})
	startDrag(t, w, PointerEvent{Frame: frame})

	env.Document.Dispatch(EventMouseMove, PointerEvent{ClientX: 150, ClientY: 0})
	if writes != 1 {
		t.Errorf("writes = %d, want 1 (one live session)", writes)
	}
	env.Document.Close()
	if w.Dragging() {
		t.Error("drag survived document close")
	}
}

func TestInverseLookupRender(t *testing.T) {
	env := newEnv()
	w := NewInverseLookup(env)
	_ = env.Store.Set(store.SineValue, 0.5)
	root := w.Render()

	if got := textOf(findClass(t, root, "widget-given")); got != "Given: sin(θ) = 0.500" {
		t.Errorf("given = %q", got)
	}
	readout := textOf(findClass(t, root, "widget-readout"))
	if !strings.Contains(readout, "θ₁ ≈ 30.0°") || !strings.Contains(readout, "θ₂ ≈ 150.0°") {
		t.Errorf("readout = %q", readout)
	}

	ref := findClass(t, root, "sine-reference")
	if ref.Props["y1"] != -50.0 || ref.Props["x1"] != -100.0 || ref.Props["x2"] != 100.0 {
		t.Errorf("reference line props %v", ref.Props)
	}

	slider := findClass(t, root, "widget-slider")
	if slider.Props["type"] != "range" || slider.Props["min"] != -1.0 ||
		slider.Props["max"] != 1.0 || slider.Props["step"] != 0.05 {
		t.Errorf("slider props %v", slider.Props)
	}
	if _, ok := slider.Props["oninput"].(InputHandler); !ok {
		t.Error("slider has no input handler")
	}
	if vdom.Find(root, func(n *vdom.VNode) bool { return n.Props["onmousedown"] != nil }) != nil {
		t.Error("inverse diagram must not be draggable")
	}
}

func TestInverseLookupPointsCoincideAtOne(t *testing.T) {
	env := newEnv()
	w := NewInverseLookup(env)
	_ = env.Store.Set(store.SineValue, 1)
	root := w.Render()

	p1 := findClass(t, root, "angle-1")
	p2 := findClass(t, root, "angle-2")
	if p1.Props["cx"] != p2.Props["cx"] || p1.Props["cy"] != p2.Props["cy"] {
		t.Errorf("points differ: (%v, %v) vs (%v, %v)",
			p1.Props["cx"], p1.Props["cy"], p2.Props["cx"], p2.Props["cy"])
	}
	if !strings.Contains(textOf(root), "θ₂ ≈ 90.0°") {
		t.Error("expected 90.0° for both angles")
	}
}

func TestInverseLookupSlider(t *testing.T) {
	tests := []struct {
		value   any
		want    float64
		wantErr bool
	}{
		{"0.35", 0.35, false},
		{"-0.05", -0.05, false},
		{"2", 1, false},
		{-3.0, -1, false},
		{"abc", 0.707, true},
		{"", 0.707, true},
	}

	for _, tt := range tests {
		env := newEnv()
		w := NewInverseLookup(env)
		slider := findClass(t, w.Render(), "widget-slider")
		err := slider.Props["oninput"].(InputHandler)(InputEvent{Value: tt.value})
		if (err != nil) != tt.wantErr {
			t.Errorf("input %#v: err = %v", tt.value, err)
		}
		if tt.wantErr && !errors.Is(err, lerrors.New("L002")) {
			t.Errorf("input %#v: expected L002, got %v", tt.value, err)
		}
		if got := env.Store.Float(store.SineValue); math.Abs(got-tt.want) > tol {
			t.Errorf("input %#v: sine = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestScrubber(t *testing.T) {
	env := newEnv()
	s, err := NewScrubber(env, store.AngleValue)
	if err != nil {
		t.Fatal(err)
	}

	root := s.Render()
	if textOf(root) != "0.79" {
		t.Errorf("scrubber text = %q, want 0.79", textOf(root))
	}
	if root.Props["data-var"] != store.AngleValue || root.Props["role"] != "slider" {
		t.Errorf("scrubber props %v", root.Props)
	}

	if err := root.Props["onmousedown"].(PointerHandler)(PointerEvent{ClientX: 100}); err != nil {
		t.Fatal(err)
	}
	env.Document.Dispatch(EventMouseMove, PointerEvent{ClientX: 112})
	if got := env.Store.Float(store.AngleValue); got != 0.82 {
		t.Errorf("after +12px angle = %v, want 0.82", got)
	}
	env.Document.Dispatch(EventMouseMove, PointerEvent{ClientX: 102})
	if got := env.Store.Float(store.AngleValue); math.Abs(got-math.Pi/4) > tol {
		t.Errorf("back under one step angle = %v, want π/4", got)
	}
	env.Document.Dispatch(EventMouseUp, PointerEvent{})
	if len(env.Document.Active()) != 0 {
		t.Errorf("listeners leaked: %v", env.Document.Active())
	}
}

func TestScrubberClampsThroughStore(t *testing.T) {
	env := newEnv()
	s, _ := NewScrubber(env, store.SineValue)
	_ = s.Render().Props["onmousedown"].(PointerHandler)(PointerEvent{ClientX: 0})
	env.Document.Dispatch(EventMouseMove, PointerEvent{ClientX: 400})
	if got := env.Store.Float(store.SineValue); got != 1 {
		t.Errorf("sine = %v, want clamp to 1", got)
	}
}

func TestNewScrubberUnknownVariable(t *testing.T) {
	_, err := NewScrubber(newEnv(), "nope")
	if !errors.Is(err, lerrors.New("L001")) {
		t.Errorf("expected L001, got %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	def := store.Definition{Precision: 2}
	tests := map[float64]string{
		math.Pi / 4: "0.79",
		-0.0001:     "0.00",
		-1.5:        "-1.50",
		0:           "0.00",
	}
	for v, want := range tests {
		if got := FormatValue(def, v); got != want {
			t.Errorf("FormatValue(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := LessonRegistry()
	if !r.Has(content.UnitCircleWidget) || !r.Has(content.InverseLookupWidget) {
		t.Fatalf("Names() = %v", r.Names())
	}

	w, err := r.Build(content.InverseLookupWidget, newEnv())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := w.(*InverseLookup); !ok {
		t.Errorf("built %T", w)
	}

	if _, err := r.Build("pie-chart", newEnv()); !errors.Is(err, lerrors.New("L011")) {
		t.Errorf("expected L011, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	env := newEnv()
	_ = env.Store.Set(store.SineValue, 0.5)

	if got := NewUnitCircle(env).Describe(); got != "Unit circle: θ = 0.79 rad (45.0°), sin θ = 0.707, cos θ = 0.707" {
		t.Errorf("unit circle: %q", got)
	}
	if got := NewInverseLookup(env).Describe(); got != "Inverse lookup: sin(θ) = 0.500, θ₁ ≈ 30.0°, θ₂ ≈ 150.0°" {
		t.Errorf("inverse lookup: %q", got)
	}
}
