package widget

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lessonkit/inversetrig/pkg/vdom"
)

// PointOnCircle returns the screen position of angle theta on a circle of
// radius r centred at the origin. Screen y grows downwards, so the sine
// component is negated.
func PointOnCircle(theta, r float64) (x, y float64) {
	return r * math.Cos(theta), -r * math.Sin(theta)
}

// LargeArcFlag returns the SVG large-arc flag for an arc from angle 0 to
// theta: 1 when theta > π, 0 otherwise (θ = π is 0).
func LargeArcFlag(theta float64) int {
	if theta > math.Pi {
		return 1
	}
	return 0
}

// ArcPath returns the path data for the counter-clockwise arc from angle 0
// to theta on a circle of radius r. At theta = 0 the start and end points
// coincide and the arc draws nothing, but the path stays well formed. Just
// short of a full turn the end point is kept one coordinate step below the
// start, so the arc still draws almost the whole circle.
func ArcPath(theta, r float64) string {
	x, y := PointOnCircle(theta, r)
	large := LargeArcFlag(theta)
	ex, ey := round3(x), round3(y)
	if large == 1 && ex == round3(r) && ey <= 0 {
		ey = 0.001
	}
	return fmt.Sprintf("M %s 0 A %s %s 0 %d 1 %s %s",
		coord(r), coord(r), coord(r), large, vdom.FormatNumber(ex), vdom.FormatNumber(ey))
}

// AngleFromOffset converts an offset from the circle centre, in math
// orientation (y up), to an angle in [0, 2π).
func AngleFromOffset(dx, dy float64) float64 {
	a := math.Atan2(dy, dx)
	if a < 0 {
		a += 2 * math.Pi
	}
	// -tiny + 2π rounds to 2π.
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// InverseAngles returns the two angles whose sine is s: the principal
// value asin(s) and its reflection π - asin(s). s is clamped to [-1, 1].
func InverseAngles(s float64) (a1, a2 float64) {
	a1 = math.Asin(math.Max(-1, math.Min(1, s)))
	return a1, math.Pi - a1
}

// FormatDegrees formats an angle in radians as degrees with one decimal.
func FormatDegrees(rad float64) string {
	s := strconv.FormatFloat(rad*180/math.Pi, 'f', 1, 64)
	if s == "-0.0" {
		s = "0.0"
	}
	return s + "°"
}

// round3 rounds screen coordinates to 1/1000 px.
func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}

func coord(v float64) string {
	return vdom.FormatNumber(round3(v))
}

// Frame is the client-side bounding rectangle of the element an event was
// measured against, in client pixels.
type Frame struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the frame has a usable area.
func (f *Frame) Valid() bool {
	return f != nil && f.Width > 0 && f.Height > 0 &&
		!math.IsNaN(f.Left) && !math.IsNaN(f.Top) &&
		!math.IsInf(f.Width, 0) && !math.IsInf(f.Height, 0)
}

// Offset returns the position of a client point relative to the frame's
// centre in math orientation (y up). ok is false for an unusable frame.
func (f *Frame) Offset(clientX, clientY float64) (dx, dy float64, ok bool) {
	if !f.Valid() {
		return 0, 0, false
	}
	dx = clientX - f.Left - f.Width/2
	dy = f.Height/2 - (clientY - f.Top)
	return dx, dy, true
}
