// Package geom turns normalized annotation geometry into pixel-space
// drawing data. Everything here is pure.
package geom

import (
	"seehuhn.de/go/geom/vec"

	"PageMarkup/internal/state"
)

// Size is the pixel size of the rendered page.
type Size struct {
	W, H float64
}

// IsZero reports whether no usable canvas size is known.
func (s Size) IsZero() bool {
	return s.W <= 0 || s.H <= 0
}

// ToPixel converts a normalized point to pixel coordinates.
func ToPixel(p state.Point, s Size) vec.Vec2 {
	return vec.Vec2{X: p.X * s.W, Y: p.Y * s.H}
}

// ToNormalized converts pixel coordinates to a normalized point. A zero
// size yields the origin.
func ToNormalized(v vec.Vec2, s Size) state.Point {
	if s.IsZero() {
		return state.Point{}
	}
	return state.Point{X: v.X / s.W, Y: v.Y / s.H}
}

// DeltaToNormalized converts a pixel displacement to normalized units.
func DeltaToNormalized(dx, dy float64, s Size) (float64, float64) {
	if s.IsZero() {
		return 0, 0
	}
	return dx / s.W, dy / s.H
}

// PointsToPixel converts every point of ps.
func PointsToPixel(ps []state.Point, s Size) []vec.Vec2 {
	res := make([]vec.Vec2, len(ps))
	for i, p := range ps {
		res[i] = ToPixel(p, s)
	}
	return res
}
