package widget

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestPointOnCircleDistance(t *testing.T) {
	for i := 0; i < 360; i++ {
		theta := float64(i) * 2 * math.Pi / 360
		x, y := PointOnCircle(theta, Radius)
		if d := math.Hypot(x, y); math.Abs(d-Radius) > 1e-9 {
			t.Fatalf("θ=%v: distance %v, want %v", theta, d, Radius)
		}
	}
}

func TestPointOnCircleQuarterTurn(t *testing.T) {
	x, y := PointOnCircle(math.Pi/4, Radius)
	if round3(x) != 70.711 || round3(y) != -70.711 {
		t.Errorf("point = (%v, %v), want (70.711, -70.711)", round3(x), round3(y))
	}
	if math.Abs(math.Cos(math.Pi/4)-0.7071) > 1e-4 || math.Abs(math.Sin(math.Pi/4)-0.7071) > 1e-4 {
		t.Error("unexpected projections")
	}
}

func TestLargeArcFlag(t *testing.T) {
	tests := []struct {
		theta float64
		want  int
	}{
		{0, 0},
		{math.Pi / 2, 0},
		{math.Pi, 0},
		{math.Nextafter(math.Pi, 4), 1},
		{3 * math.Pi / 2, 1},
		{2*math.Pi - 1e-9, 1},
	}

	for _, tt := range tests {
		if got := LargeArcFlag(tt.theta); got != tt.want {
			t.Errorf("LargeArcFlag(%v) = %d, want %d", tt.theta, got, tt.want)
		}
	}
}

func TestArcPath(t *testing.T) {
	tests := []struct {
		name  string
		theta float64
		want  string
	}{
		{"zero", 0, "M 100 0 A 100 100 0 0 1 100 0"},
		{"quarter", math.Pi / 2, "M 100 0 A 100 100 0 0 1 0 -100"},
		{"half", math.Pi, "M 100 0 A 100 100 0 0 1 -100 0"},
		{"three quarters", 3 * math.Pi / 2, "M 100 0 A 100 100 0 1 1 0 100"},
		{"eighth", math.Pi / 4, "M 100 0 A 100 100 0 0 1 70.711 -70.711"},
		{"almost full", 2*math.Pi - 1e-6, "M 100 0 A 100 100 0 1 1 100 0.001"},
		{"full turn", 2 * math.Pi, "M 100 0 A 100 100 0 1 1 100 0.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArcPath(tt.theta, Radius); got != tt.want {
				t.Errorf("ArcPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAngleFromOffset(t *testing.T) {
	tests := []struct {
		dx, dy float64
	}{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
		{0, 0}, {-1, math.Copysign(0, -1)}, {3, -1e-300}, {120, -35},
	}

	for _, tt := range tests {
		got := AngleFromOffset(tt.dx, tt.dy)
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("AngleFromOffset(%v, %v) = %v outside [0, 2π)", tt.dx, tt.dy, got)
			continue
		}
		want := math.Atan2(tt.dy, tt.dx)
		if want < 0 {
			want += 2 * math.Pi
		}
		if want >= 2*math.Pi {
			want = 0
		}
		if math.Abs(got-want) > tol {
			t.Errorf("AngleFromOffset(%v, %v) = %v, want %v", tt.dx, tt.dy, got, want)
		}
	}
}

func TestInverseAnglesProperty(t *testing.T) {
	for i := -20; i <= 20; i++ {
		s := float64(i) * 0.05
		a1, a2 := InverseAngles(s)
		if math.Abs(a2-(math.Pi-a1)) > tol {
			t.Errorf("s=%v: a2 = %v, want π - a1", s, a2)
		}
		if math.Abs(math.Sin(a1)-s) > 1e-9 || math.Abs(math.Sin(a2)-s) > 1e-9 {
			t.Errorf("s=%v: sin(a1)=%v sin(a2)=%v", s, math.Sin(a1), math.Sin(a2))
		}
	}
}

func TestInverseAnglesScenarios(t *testing.T) {
	tests := []struct {
		s        float64
		a1, a2   float64
		deg1     string
		deg2     string
		coincide bool
	}{
		{0.5, 0.5236, 2.6180, "30.0°", "150.0°", false},
		{1, math.Pi / 2, math.Pi / 2, "90.0°", "90.0°", true},
		{-1, -math.Pi / 2, 3 * math.Pi / 2, "-90.0°", "270.0°", true},
		{1.7, math.Pi / 2, math.Pi / 2, "90.0°", "90.0°", true},
		{-4, -math.Pi / 2, 3 * math.Pi / 2, "-90.0°", "270.0°", true},
	}

	for _, tt := range tests {
		a1, a2 := InverseAngles(tt.s)
		if math.Abs(a1-tt.a1) > 1e-4 || math.Abs(a2-tt.a2) > 1e-4 {
			t.Errorf("InverseAngles(%v) = (%v, %v), want (%v, %v)", tt.s, a1, a2, tt.a1, tt.a2)
		}
		if FormatDegrees(a1) != tt.deg1 || FormatDegrees(a2) != tt.deg2 {
			t.Errorf("degrees(%v) = %s, %s", tt.s, FormatDegrees(a1), FormatDegrees(a2))
		}
		x1, y1 := PointOnCircle(a1, Radius)
		x2, y2 := PointOnCircle(a2, Radius)
		same := round3(x1) == round3(x2) && round3(y1) == round3(y2)
		if same != tt.coincide {
			t.Errorf("s=%v: points coincide = %v, want %v", tt.s, same, tt.coincide)
		}
	}
}

func TestFormatDegreesNoNegativeZero(t *testing.T) {
	if got := FormatDegrees(-1e-6); got != "0.0°" {
		t.Errorf("FormatDegrees(-1e-6) = %q", got)
	}
}

func TestFrameOffset(t *testing.T) {
	f := &Frame{Left: 10, Top: 20, Width: 300, Height: 300}

	dx, dy, ok := f.Offset(160, 170)
	if !ok || dx != 0 || dy != 0 {
		t.Errorf("centre offset = (%v, %v, %v)", dx, dy, ok)
	}

	dx, dy, ok = f.Offset(210, 120)
	if !ok || dx != 50 || dy != 50 {
		t.Errorf("offset = (%v, %v, %v), want (50, 50, true)", dx, dy, ok)
	}

	for _, bad := range []*Frame{nil, {}, {Width: 300}, {Width: 300, Height: -1}, {Width: math.Inf(1), Height: 1}} {
		if _, _, ok := bad.Offset(0, 0); ok {
			t.Errorf("frame %+v should be unusable", bad)
		}
	}
}
