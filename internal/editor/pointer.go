package editor

import (
	"slices"

	"PageMarkup/internal/geom"
	"PageMarkup/internal/state"
)

// PointerDown starts a gesture according to the active tool.
func (e *Editor) PointerDown(ev PointerEvent) {
	e.endGesture()

	switch e.tool {
	case ToolHand:
		e.startPan(ev)

	case ToolSelect:
		if h, ok := e.hitTest(pixel(ev)); ok {
			e.startDrag(h, ev)
			return
		}
		e.markup.ClearSelection()

	case ToolLine:
		if e.canvas.IsZero() {
			return
		}
		l := e.markup.CreateLine(e.normalized(ev))
		e.drawing = drawSession{kind: state.KindLine, id: l.ID}
		e.log.Debug().Str("id", string(l.ID)).Msg("line created")

	case ToolArea:
		if e.canvas.IsZero() {
			return
		}
		a := e.markup.CreateArea(e.normalized(ev))
		e.drawing = drawSession{kind: state.KindArea, id: a.ID}
		e.log.Debug().Str("id", string(a.ID)).Stringer("shape", a.Shape).Msg("area created")

	case ToolText:
		if h, ok := e.hitTest(pixel(ev)); ok {
			e.startDrag(h, ev)
			return
		}
		if e.canvas.IsZero() {
			return
		}
		w, h := geom.DeltaToNormalized(TextBoxWidth, TextBoxHeight, e.canvas)
		t := e.markup.CreateText(e.normalized(ev), w, h)
		e.log.Debug().Str("id", string(t.ID)).Msg("text box created")
	}
}

// PointerMove continues the gesture in progress, if any.
func (e *Editor) PointerMove(ev PointerEvent) {
	switch {
	case e.drag.mode != DragNone:
		e.continueDrag(ev)
	case e.drawing.kind != state.KindNone:
		e.extendDrawing(ev)
	case e.pan.active:
		e.continuePan(ev)
	}
}

// PointerUp ends every gesture regardless of the tool that started it.
func (e *Editor) PointerUp(PointerEvent) {
	e.endGesture()
}

// PointerLeave behaves like PointerUp.
func (e *Editor) PointerLeave() {
	e.endGesture()
}

// DoubleClick enters edit mode on the text box under the pointer. It only
// reacts under the tools that make text boxes interactive.
func (e *Editor) DoubleClick(ev PointerEvent) bool {
	if e.tool != ToolSelect && e.tool != ToolText {
		return false
	}
	e.endGesture()
	p := pixel(ev)
	for _, t := range slices.Backward(e.markup.Store().Texts()) {
		if textRect(t, e.canvas).Contains(p) {
			e.markup.BeginTextEdit(t.ID)
			e.markup.MirrorSelectionStyle()
			return true
		}
	}
	return false
}

func (e *Editor) endGesture() {
	e.drawing = drawSession{}
	e.drag = dragSession{}
	e.pan = panSession{}
}
