package geom

import "seehuhn.de/go/geom/vec"

type Op int

const (
	MoveTo Op = iota
	LineTo
	QuadTo // Pts holds the control point followed by the end point
	Close
)

type Segment struct {
	Op  Op
	Pts []vec.Vec2
}

// Path is a sequence of drawing commands in pixel space.
type Path []Segment

func (p Path) MoveTo(v vec.Vec2) Path {
	return append(p, Segment{Op: MoveTo, Pts: []vec.Vec2{v}})
}

func (p Path) LineTo(v vec.Vec2) Path {
	return append(p, Segment{Op: LineTo, Pts: []vec.Vec2{v}})
}

func (p Path) QuadTo(c, v vec.Vec2) Path {
	return append(p, Segment{Op: QuadTo, Pts: []vec.Vec2{c, v}})
}

func (p Path) Close() Path {
	return append(p, Segment{Op: Close})
}

// Count returns the number of segments with the given op.
func (p Path) Count(op Op) int {
	n := 0
	for _, s := range p {
		if s.Op == op {
			n++
		}
	}
	return n
}

// Flatten converts the path to polylines, approximating each quadratic
// segment by steps straight pieces. Close repeats the subpath's first
// point.
func (p Path) Flatten(steps int) [][]vec.Vec2 {
	if steps < 1 {
		steps = 1
	}
	var res [][]vec.Vec2
	var cur []vec.Vec2
	flush := func() {
		if len(cur) > 0 {
			res = append(res, cur)
		}
		cur = nil
	}
	for _, s := range p {
		switch s.Op {
		case MoveTo:
			flush()
			cur = []vec.Vec2{s.Pts[0]}
		case LineTo:
			cur = append(cur, s.Pts[0])
		case QuadTo:
			if len(cur) == 0 {
				cur = []vec.Vec2{s.Pts[1]}
				continue
			}
			p0, c, p1 := cur[len(cur)-1], s.Pts[0], s.Pts[1]
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				cur = append(cur, quadPoint(p0, c, p1, t))
			}
		case Close:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
			flush()
		}
	}
	flush()
	return res
}

func quadPoint(p0, c, p1 vec.Vec2, t float64) vec.Vec2 {
	u := 1 - t
	return p0.Mul(u * u).Add(c.Mul(2 * u * t)).Add(p1.Mul(t * t))
}
