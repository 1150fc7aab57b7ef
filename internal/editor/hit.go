package editor

import (
	"slices"

	"seehuhn.de/go/geom/vec"

	"PageMarkup/internal/geom"
	"PageMarkup/internal/state"
)

const (
	// HandleRadius is how close, in pixels, the pointer must be to a handle.
	HandleRadius = 8
	// LineSlop is the minimum pick distance around a line's stroke.
	LineSlop = 5
)

type hit struct {
	kind state.Kind
	id   state.ID
	mode DragMode
}

// hitTest finds what the pointer pressed: a handle of the selected
// annotation first, then annotation bodies from the top of the z-order
// down (text boxes over lines over areas).
func (e *Editor) hitTest(p vec.Vec2) (hit, bool) {
	if e.canvas.IsZero() {
		return hit{}, false
	}
	textsOnly := e.tool == ToolText
	if h, ok := e.hitHandle(p, textsOnly); ok {
		return h, true
	}

	store := e.markup.Store()
	texts := store.Texts()
	for _, t := range slices.Backward(texts) {
		if textRect(t, e.canvas).Contains(p) {
			return hit{kind: state.KindText, id: t.ID, mode: DragMove}, true
		}
	}
	if textsOnly {
		return hit{}, false
	}
	for _, l := range slices.Backward(store.Lines()) {
		a, b := geom.ToPixel(l.Start(), e.canvas), geom.ToPixel(l.End(), e.canvas)
		tol := max(LineSlop, float64(l.Width)/2+3)
		if geom.DistToSegment(p, a, b) <= tol {
			return hit{kind: state.KindLine, id: l.ID, mode: DragMove}, true
		}
	}
	for _, a := range slices.Backward(store.Areas()) {
		if areaContains(a, p, e.canvas) {
			return hit{kind: state.KindArea, id: a.ID, mode: DragMove}, true
		}
	}
	return hit{}, false
}

func (e *Editor) hitHandle(p vec.Vec2, textsOnly bool) (hit, bool) {
	sel := e.markup.Selection()
	store := e.markup.Store()
	near := func(q state.Point) bool {
		return p.Sub(geom.ToPixel(q, e.canvas)).Length() <= HandleRadius
	}
	switch {
	case sel.Is(state.KindText):
		if t, ok := store.Text(sel.ID); ok && near(state.Point{X: t.X + t.W, Y: t.Y + t.H}) {
			return hit{kind: state.KindText, id: t.ID, mode: DragCorner}, true
		}
	case textsOnly:
	case sel.Is(state.KindLine):
		if l, ok := store.Line(sel.ID); ok {
			// the end point wins so a freshly drawn zero-length line can be
			// pulled out again
			if near(l.End()) {
				return hit{kind: state.KindLine, id: l.ID, mode: DragEnd}, true
			}
			if near(l.Start()) {
				return hit{kind: state.KindLine, id: l.ID, mode: DragStart}, true
			}
		}
	case sel.Is(state.KindArea):
		if a, ok := store.Area(sel.ID); ok && a.HasHandles() {
			if near(a.Points[1]) {
				return hit{kind: state.KindArea, id: a.ID, mode: DragEnd}, true
			}
			if near(a.Points[0]) {
				return hit{kind: state.KindArea, id: a.ID, mode: DragStart}, true
			}
		}
	}
	return hit{}, false
}

func textRect(t *state.TextBox, s geom.Size) geom.Rect {
	return geom.Rect{X: t.X * s.W, Y: t.Y * s.H, W: t.W * s.W, H: t.H * s.H}
}

func areaContains(a *state.Area, p vec.Vec2, s geom.Size) bool {
	pts := geom.PointsToPixel(a.Points, s)
	if len(pts) == 0 {
		return false
	}
	slop := max(LineSlop, float64(a.Width)/2+3)
	if a.Shape == state.ShapeFreeform || len(pts) != 2 {
		if len(pts) < 3 {
			return geom.NearPolyline(p, pts, slop)
		}
		return geom.InPolygon(p, pts) || geom.NearPolyline(p, append(pts, pts[0]), slop)
	}
	switch a.Shape {
	case state.ShapeCircle:
		c := geom.CircleFromCorners(pts[0], pts[1])
		c.Radius += slop
		return c.Contains(p)
	case state.ShapeTriangle:
		tri := geom.TriangleFromCorners(pts[0], pts[1])
		return geom.InPolygon(p, tri[:]) || geom.NearPolyline(p, append(tri[:], tri[0]), slop)
	}
	r := geom.RectFromCorners(pts[0], pts[1])
	r.X, r.Y, r.W, r.H = r.X-slop, r.Y-slop, r.W+2*slop, r.H+2*slop
	return r.Contains(p)
}
