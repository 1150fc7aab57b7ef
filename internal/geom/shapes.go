package geom

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Wavy returns a path from a to b that oscillates around the straight
// segment. The segment is split into max(2, round(length/wavelength))
// steps; step i (counting from 1) is a quadratic curve whose control point
// sits at the step's midpoint, displaced along the normal by +amplitude
// for odd i and -amplitude for even i.
func Wavy(a, b vec.Vec2, amplitude, wavelength float64) Path {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		length = 1
	}
	if wavelength <= 0 {
		wavelength = 1
	}
	steps := max(2, int(math.Round(length/wavelength)))
	u := d.Mul(1 / length)
	n := vec.Vec2{X: -u.Y, Y: u.X}

	path := Path{}.MoveTo(a)
	for i := 1; i <= steps; i++ {
		t0 := float64(i-1) / float64(steps)
		t1 := float64(i) / float64(steps)
		sign := -1.0
		if i%2 == 1 {
			sign = 1
		}
		mid := a.Add(d.Mul((t0 + t1) / 2))
		ctrl := mid.Add(n.Mul(sign * amplitude))
		path = path.QuadTo(ctrl, a.Add(d.Mul(t1)))
	}
	return path
}

// Arrowhead returns the triangle (tip, left wing, right wing) for an arrow
// pointing from tail to tip. The wings sit size back from the tip and
// 0.6*size to either side.
func Arrowhead(tail, tip vec.Vec2, size float64) [3]vec.Vec2 {
	d := tip.Sub(tail)
	length := d.Length()
	if length == 0 {
		length = 1
	}
	u := d.Mul(1 / length)
	n := vec.Vec2{X: -u.Y, Y: u.X}
	back := tip.Sub(u.Mul(size))
	return [3]vec.Vec2{
		tip,
		back.Add(n.Mul(0.6 * size)),
		back.Sub(n.Mul(0.6 * size)),
	}
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// RectFromCorners spans the rectangle between two opposite corners given in
// any order.
func RectFromCorners(a, b vec.Vec2) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

func (r Rect) Contains(p vec.Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Polygon() []vec.Vec2 {
	return []vec.Vec2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

type Circle struct {
	Center vec.Vec2
	Radius float64
}

// CircleFromCorners returns the circle centred between a and b whose radius
// is half their distance.
func CircleFromCorners(a, b vec.Vec2) Circle {
	return Circle{
		Center: a.Add(b).Mul(0.5),
		Radius: b.Sub(a).Length() / 2,
	}
}

func (c Circle) Contains(p vec.Vec2) bool {
	return p.Sub(c.Center).Length() <= c.Radius
}

// Polygon approximates the circle by n points.
func (c Circle) Polygon(n int) []vec.Vec2 {
	if n < 3 {
		n = 3
	}
	res := make([]vec.Vec2, n)
	for i := range res {
		phi := 2 * math.Pi * float64(i) / float64(n)
		res[i] = c.Center.Add(vec.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}.Mul(c.Radius))
	}
	return res
}

// TriangleFromCorners returns the right triangle a, (b.X, a.Y), b.
func TriangleFromCorners(a, b vec.Vec2) [3]vec.Vec2 {
	return [3]vec.Vec2{a, {X: b.X, Y: a.Y}, b}
}

// Polygon returns the closed path through pts.
func Polygon(pts []vec.Vec2) Path {
	if len(pts) == 0 {
		return nil
	}
	path := Path{}.MoveTo(pts[0])
	for _, p := range pts[1:] {
		path = path.LineTo(p)
	}
	return path.Close()
}

// Freeform returns the closed polygon through a hand-drawn outline.
func Freeform(pts []vec.Vec2) Path {
	return Polygon(pts)
}
