package editor

import (
	"seehuhn.de/go/geom/vec"

	"PageMarkup/internal/geom"
	"PageMarkup/internal/state"
)

type DragMode int

const (
	DragNone DragMode = iota
	DragMove
	DragStart  // line start point, or first area corner
	DragEnd    // line end point, or second area corner
	DragCorner // bottom-right corner of a text box
)

func (m DragMode) String() string {
	switch m {
	case DragMove:
		return "move"
	case DragStart:
		return "resize-start"
	case DragEnd:
		return "resize-end"
	case DragCorner:
		return "resize-corner"
	}
	return "none"
}

// dragSession remembers the dragged annotation as it was when the drag
// started. Every pointer move recomputes the live geometry from this
// snapshot and the total pointer displacement, so intermediate moves never
// accumulate rounding and a change of canvas size mid-drag cannot skew the
// result.
type dragSession struct {
	mode DragMode
	kind state.Kind
	id   state.ID

	line *state.Line
	area *state.Area
	text *state.TextBox

	startX, startY float64
}

// drawSession is the annotation being extended by pointer moves between its
// creation and the pointer release.
type drawSession struct {
	kind state.Kind
	id   state.ID
}

type panSession struct {
	active           bool
	startX, startY   float64
	scrollX, scrollY float64
}

// startDrag selects the target, mirrors its style into the creation
// defaults and snapshots it.
func (e *Editor) startDrag(h hit, ev PointerEvent) {
	m := e.markup
	m.Select(state.Selection{Kind: h.kind, ID: h.id})
	m.MirrorSelectionStyle()

	s := dragSession{
		mode:   h.mode,
		kind:   h.kind,
		id:     h.id,
		startX: ev.ScreenX,
		startY: ev.ScreenY,
	}
	var ok bool
	switch h.kind {
	case state.KindLine:
		s.line, ok = m.Store().Line(h.id)
	case state.KindArea:
		s.area, ok = m.Store().Area(h.id)
	case state.KindText:
		s.text, ok = m.Store().Text(h.id)
	}
	if !ok {
		return
	}
	e.drag = s
	e.log.Debug().Stringer("kind", h.kind).Str("id", string(h.id)).Stringer("mode", h.mode).Msg("drag started")
}

// continueDrag applies the displacement since the drag started to the
// snapshot and stores the result. A target that has disappeared ends the
// drag.
func (e *Editor) continueDrag(ev PointerEvent) {
	s := &e.drag
	dx, dy := geom.DeltaToNormalized(ev.ScreenX-s.startX, ev.ScreenY-s.startY, e.canvas)

	var ok bool
	store := e.markup.Store()
	switch s.kind {
	case state.KindLine:
		ok = store.UpdateLine(s.id, func(l *state.Line) { dragLine(l, s.line, s.mode, dx, dy) })
	case state.KindArea:
		ok = store.UpdateArea(s.id, func(a *state.Area) { dragArea(a, s.area, s.mode, dx, dy) })
	case state.KindText:
		ok = store.UpdateText(s.id, func(t *state.TextBox) { dragText(t, s.text, s.mode, dx, dy) })
	}
	if !ok {
		e.drag = dragSession{}
	}
}

func dragLine(l, snap *state.Line, mode DragMode, dx, dy float64) {
	switch mode {
	case DragMove:
		l.X1, l.Y1 = snap.X1+dx, snap.Y1+dy
		l.X2, l.Y2 = snap.X2+dx, snap.Y2+dy
	case DragStart:
		l.X1, l.Y1 = snap.X1+dx, snap.Y1+dy
	case DragEnd:
		l.X2, l.Y2 = snap.X2+dx, snap.Y2+dy
	}
}

func dragArea(a, snap *state.Area, mode DragMode, dx, dy float64) {
	pts := append([]state.Point(nil), snap.Points...)
	move := func(i int) { pts[i] = state.Point{X: snap.Points[i].X + dx, Y: snap.Points[i].Y + dy} }
	switch {
	case mode == DragMove:
		for i := range pts {
			move(i)
		}
	case mode == DragStart && snap.HasHandles():
		move(0)
	case mode == DragEnd && snap.HasHandles():
		move(1)
	}
	a.Points = pts
}

func dragText(t, snap *state.TextBox, mode DragMode, dx, dy float64) {
	switch mode {
	case DragMove:
		t.X, t.Y = snap.X+dx, snap.Y+dy
	case DragCorner:
		t.W = max(state.MinTextSize, snap.W+dx)
		t.H = max(state.MinTextSize, snap.H+dy)
	}
}

// extendDrawing grows the annotation being drawn towards the pointer.
// Lines and bounding-box shapes move their second point; freeform shapes
// append the pointer position.
func (e *Editor) extendDrawing(ev PointerEvent) {
	p := e.normalized(ev)
	store := e.markup.Store()
	var ok bool
	switch e.drawing.kind {
	case state.KindLine:
		ok = store.UpdateLine(e.drawing.id, func(l *state.Line) { l.X2, l.Y2 = p.X, p.Y })
	case state.KindArea:
		ok = store.UpdateArea(e.drawing.id, func(a *state.Area) {
			if a.Shape == state.ShapeFreeform {
				a.Points = append(a.Points, p)
				return
			}
			if len(a.Points) < 2 {
				a.Points = append(a.Points[:len(a.Points):len(a.Points)], p)
				return
			}
			a.Points[1] = p
		})
	}
	if !ok {
		e.drawing = drawSession{}
	}
}

func (e *Editor) startPan(ev PointerEvent) {
	if e.scroll == nil {
		return
	}
	x, y := e.scroll.ScrollOffset()
	e.pan = panSession{
		active:  true,
		startX:  ev.ScreenX,
		startY:  ev.ScreenY,
		scrollX: x,
		scrollY: y,
	}
}

// continuePan scrolls so the page point under the pointer at the start of
// the gesture stays under the pointer.
func (e *Editor) continuePan(ev PointerEvent) {
	p := e.pan
	e.scroll.ScrollTo(p.scrollX-(ev.ScreenX-p.startX), p.scrollY-(ev.ScreenY-p.startY))
}

func pixel(ev PointerEvent) vec.Vec2 {
	return vec.Vec2{X: ev.X, Y: ev.Y}
}
