package editor

import (
	"context"
	"fmt"
	"math"

	"PageMarkup/internal/geom"
	"PageMarkup/internal/viewport"
)

const (
	MinZoom  = 0.25
	MaxZoom  = 4.0
	ZoomStep = 1.25
)

// Ticket identifies one render request. Only the result of the most
// recent ticket is applied.
type Ticket struct {
	seq  uint64
	Page int
	Zoom float64
}

func (e *Editor) Page() int         { return e.page }
func (e *Editor) PageCount() int    { return e.pageCount }
func (e *Editor) Zoom() float64     { return e.zoom }
func (e *Editor) HasDocument() bool { return e.pageCount > 0 }

// LoadDocument hands data to the viewport and, on success, starts over on
// page one at zoom 1 with an empty markup layer. A failed load leaves the
// editor untouched.
func (e *Editor) LoadDocument(ctx context.Context, data []byte) (viewport.Page, error) {
	if e.view == nil {
		return viewport.Page{}, viewport.ErrNoDocument
	}
	n, err := e.view.LoadDocument(ctx, data)
	if err != nil {
		return viewport.Page{}, fmt.Errorf("loading document: %w", err)
	}
	e.DocumentLoaded(n)
	return e.Render(ctx)
}

// DocumentLoaded resets the editor for a freshly loaded document with n
// pages. Shells that drive the viewport themselves call it directly.
func (e *Editor) DocumentLoaded(n int) {
	e.endGesture()
	e.markup.Reset()
	e.pageCount = n
	e.page = 1
	e.zoom = 1
	e.canvas = geom.Size{}
	e.log.Info().Int("pages", n).Msg("document loaded")
}

// GoToPage switches to page n and renders it. Pages outside the document
// are ignored.
func (e *Editor) GoToPage(ctx context.Context, n int) (viewport.Page, bool, error) {
	if !e.SelectPage(n) {
		return viewport.Page{}, false, nil
	}
	p, err := e.Render(ctx)
	return p, true, err
}

// SelectPage makes n the current page without rendering it. It reports
// false, changing nothing, when n is the current page or out of range.
func (e *Editor) SelectPage(n int) bool {
	if n < 1 || n > e.pageCount || n == e.page {
		return false
	}
	e.endGesture()
	e.page = n
	return true
}

func (e *Editor) NextPage(ctx context.Context) (viewport.Page, bool, error) {
	return e.GoToPage(ctx, e.page+1)
}

func (e *Editor) PrevPage(ctx context.Context) (viewport.Page, bool, error) {
	return e.GoToPage(ctx, e.page-1)
}

// SetZoom clamps z to the supported range and re-renders when it changed.
// Normalized coordinates make the annotations follow without conversion.
func (e *Editor) SetZoom(ctx context.Context, z float64) (viewport.Page, bool, error) {
	if !e.SelectZoom(z) {
		return viewport.Page{}, false, nil
	}
	p, err := e.Render(ctx)
	return p, true, err
}

// SelectZoom is SetZoom without the render.
func (e *Editor) SelectZoom(z float64) bool {
	if math.IsNaN(z) {
		return false
	}
	z = min(max(z, MinZoom), MaxZoom)
	if z == e.zoom || e.pageCount == 0 {
		return false
	}
	e.endGesture()
	e.zoom = z
	return true
}

func (e *Editor) ZoomIn(ctx context.Context) (viewport.Page, bool, error) {
	return e.SetZoom(ctx, e.zoom*ZoomStep)
}

func (e *Editor) ZoomOut(ctx context.Context) (viewport.Page, bool, error) {
	return e.SetZoom(ctx, e.zoom/ZoomStep)
}

// BeginRender issues a ticket for the current page and zoom. Any earlier
// ticket becomes stale.
func (e *Editor) BeginRender() Ticket {
	e.renderSeq.seq++
	e.renderSeq.Page, e.renderSeq.Zoom = e.page, e.zoom
	return e.renderSeq
}

// FinishRender applies the outcome of a render. Results of stale tickets
// and failed renders are dropped and the canvas keeps its size.
func (e *Editor) FinishRender(t Ticket, p viewport.Page, err error) bool {
	if t.seq != e.renderSeq.seq {
		e.log.Debug().Int("page", t.Page).Float64("zoom", t.Zoom).Msg("stale render dropped")
		return false
	}
	if err != nil {
		e.log.Warn().Err(err).Int("page", t.Page).Msg("render failed")
		return false
	}
	e.canvas = geom.Size{W: float64(p.Width), H: float64(p.Height)}
	return true
}

// Render renders the current page synchronously.
func (e *Editor) Render(ctx context.Context) (viewport.Page, error) {
	if e.view == nil {
		return viewport.Page{}, viewport.ErrNoDocument
	}
	t := e.BeginRender()
	p, err := e.view.RenderPage(ctx, t.Page, t.Zoom)
	if !e.FinishRender(t, p, err) {
		if err == nil {
			err = fmt.Errorf("render of page %d superseded", t.Page)
		}
		return viewport.Page{}, err
	}
	return p, nil
}

func (e *Editor) Viewport() viewport.Adapter { return e.view }
