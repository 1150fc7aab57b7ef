package geom

import "seehuhn.de/go/geom/vec"

// DistToSegment returns the distance from p to the segment a-b.
func DistToSegment(p, a, b vec.Vec2) float64 {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / l2
	t = max(0, min(1, t))
	return p.Sub(a.Add(d.Mul(t))).Length()
}

// InPolygon reports whether p lies inside the closed polygon, using the
// even-odd rule.
func InPolygon(p vec.Vec2, poly []vec.Vec2) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// NearPolyline reports whether p is within tol of any segment of line.
func NearPolyline(p vec.Vec2, line []vec.Vec2, tol float64) bool {
	if len(line) == 1 {
		return p.Sub(line[0]).Length() <= tol
	}
	for i := 1; i < len(line); i++ {
		if DistToSegment(p, line[i-1], line[i]) <= tol {
			return true
		}
	}
	return false
}
