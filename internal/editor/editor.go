// Package editor implements the pointer-driven state machine that creates,
// selects, drags and resizes annotations.
package editor

import (
	"github.com/rs/zerolog"

	"PageMarkup/internal/geom"
	"PageMarkup/internal/state"
	"PageMarkup/internal/viewport"
)

// Default size of a new text box, in pixels at the current zoom.
const (
	TextBoxWidth  = 160
	TextBoxHeight = 40
)

// Scroller is the scroll position owned by the viewport. The hand tool
// reads and writes it.
type Scroller interface {
	ScrollOffset() (x, y float64)
	ScrollTo(x, y float64)
}

// PointerEvent is a pointer position. X and Y are pixels relative to the
// top-left corner of the rendered page; ScreenX and ScreenY are pixels
// relative to the viewport, which do not move when the page scrolls.
type PointerEvent struct {
	X, Y             float64
	ScreenX, ScreenY float64
}

// At returns an event whose page and screen positions coincide.
func At(x, y float64) PointerEvent {
	return PointerEvent{X: x, Y: y, ScreenX: x, ScreenY: y}
}

// Editor owns one markup layer and the transient state of the gesture in
// progress. All methods must be called from a single goroutine.
type Editor struct {
	markup *state.Markup
	view   viewport.Adapter
	scroll Scroller
	log    zerolog.Logger

	tool    Tool
	canvas  geom.Size
	drawing drawSession
	drag    dragSession
	pan     panSession

	page      int
	pageCount int
	zoom      float64
	renderSeq Ticket
}

type Option func(*Editor)

func WithMarkup(m *state.Markup) Option {
	return func(e *Editor) { e.markup = m }
}

// WithIDs creates a fresh markup layer minting ids from ids.
func WithIDs(ids state.IDGenerator) Option {
	return func(e *Editor) { e.markup = state.NewMarkup(ids) }
}

func WithViewport(v viewport.Adapter) Option {
	return func(e *Editor) { e.view = v }
}

func WithScroller(s Scroller) Option {
	return func(e *Editor) { e.scroll = s }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

func WithTool(t Tool) Option {
	return func(e *Editor) { e.tool = t }
}

// WithCanvasSize presets the rendered page size, for editors that are not
// backed by a viewport.
func WithCanvasSize(w, h float64) Option {
	return func(e *Editor) { e.canvas = geom.Size{W: w, H: h} }
}

func New(opts ...Option) *Editor {
	e := &Editor{
		tool: ToolSelect,
		zoom: 1,
		log:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.markup == nil {
		e.markup = state.NewMarkup(nil)
	}
	e.log = e.log.With().Str("component", "editor").Logger()
	return e
}

func (e *Editor) Markup() *state.Markup { return e.markup }
func (e *Editor) Tool() Tool            { return e.tool }
func (e *Editor) Canvas() geom.Size     { return e.canvas }

// SetTool switches the active tool. Existing annotations are not touched.
// A shape being drawn is finished; a drag in progress continues until the
// pointer is released.
func (e *Editor) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	e.drawing = drawSession{}
	e.pan = panSession{}
	if t != ToolSelect && t != ToolText {
		e.markup.EndTextEdit()
	}
	e.tool = t
	e.log.Debug().Stringer("tool", t).Msg("tool changed")
}

// Gesture describes the gesture in progress, for display and tests.
type Gesture struct {
	Drawing  bool
	Panning  bool
	DragMode DragMode
	Kind     state.Kind
	ID       state.ID
}

func (e *Editor) Gesture() Gesture {
	g := Gesture{
		Drawing:  e.drawing.kind != state.KindNone,
		Panning:  e.pan.active,
		DragMode: e.drag.mode,
	}
	switch {
	case e.drag.mode != DragNone:
		g.Kind, g.ID = e.drag.kind, e.drag.id
	case g.Drawing:
		g.Kind, g.ID = e.drawing.kind, e.drawing.id
	}
	return g
}

func (e *Editor) Copy() bool { return e.markup.Copy() }

func (e *Editor) Cut() bool {
	e.endGesture()
	return e.markup.Cut()
}

func (e *Editor) Paste() bool {
	_, ok := e.markup.Paste()
	return ok
}

func (e *Editor) Duplicate() bool {
	_, ok := e.markup.Duplicate()
	return ok
}

func (e *Editor) Delete() bool {
	e.endGesture()
	return e.markup.DeleteSelected()
}

// ApplyStyle changes a style control; see state.Markup.ApplyStyleChange.
func (e *Editor) ApplyStyle(c state.StyleChange) error {
	if err := e.markup.ApplyStyleChange(c); err != nil {
		e.log.Debug().Err(err).Msg("style change ignored")
		return err
	}
	return nil
}

func (e *Editor) normalized(ev PointerEvent) state.Point {
	return geom.ToNormalized(pixel(ev), e.canvas)
}
