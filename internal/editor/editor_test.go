package editor

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PageMarkup/internal/geom"
	"PageMarkup/internal/state"
	"PageMarkup/internal/viewport"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// fakeDocument renders every page at 800x600 pixels per unit of zoom.
type fakeDocument struct {
	pages   int
	loadErr error
	renders int
}

func (d *fakeDocument) LoadDocument(_ context.Context, _ []byte) (int, error) {
	if d.loadErr != nil {
		return 0, d.loadErr
	}
	return d.pages, nil
}

func (d *fakeDocument) RenderPage(_ context.Context, page int, zoom float64) (viewport.Page, error) {
	d.renders++
	if page < 1 || page > d.pages {
		return viewport.Page{}, viewport.ErrPageOutOfRange
	}
	return viewport.Page{
		Number: page,
		Zoom:   zoom,
		Width:  int(800 * zoom),
		Height: int(600 * zoom),
	}, nil
}

func newTestEditor(tool Tool) *Editor {
	return New(WithIDs(state.NewCounter("t")), WithCanvasSize(800, 600), WithTool(tool))
}

func drawLine(e *Editor, x1, y1, x2, y2 float64) *state.Line {
	prev := e.Tool()
	e.SetTool(ToolLine)
	e.PointerDown(At(x1, y1))
	e.PointerMove(At(x2, y2))
	e.PointerUp(At(x2, y2))
	e.SetTool(prev)
	lines := e.Markup().Store().Lines()
	return lines[len(lines)-1]
}

func TestDrawLine(t *testing.T) {
	e := newTestEditor(ToolLine)
	l := drawLine(e, 100, 100, 300, 200)

	want := state.Point{X: 0.375, Y: 1.0 / 3}
	if d := cmp.Diff(want, l.End(), approx); d != "" {
		t.Errorf("end point (-want +got):\n%s", d)
	}
	assert.Equal(t, l.ID, e.Markup().Selection().Line())
	assert.Equal(t, Gesture{}, e.Gesture())
}

func TestDragIsDriftFree(t *testing.T) {
	e := newTestEditor(ToolSelect)
	orig := drawLine(e, 100, 100, 300, 200)

	e.PointerDown(At(200, 150))
	require.Equal(t, DragMove, e.Gesture().DragMode)
	for i := 1; i <= 60; i++ {
		e.PointerMove(At(200+float64(i), 150+float64(i)*2/3))
	}
	got, ok := e.Markup().Store().Line(orig.ID)
	require.True(t, ok)

	want := orig.Clone()
	want.X1, want.Y1 = 0.2, 1.0/6+1.0/15
	want.X2, want.Y2 = 0.45, 0.4
	if d := cmp.Diff(want, got, approx); d != "" {
		t.Errorf("line after drag (-want +got):\n%s", d)
	}

	// wandering off and returning to the start point restores the exact
	// original geometry
	e.PointerMove(At(900, 900))
	e.PointerMove(At(200, 150))
	got, _ = e.Markup().Store().Line(orig.ID)
	assert.Equal(t, orig, got)
}

func TestDragLineEndpoint(t *testing.T) {
	e := newTestEditor(ToolSelect)
	orig := drawLine(e, 100, 100, 300, 200)

	e.PointerDown(At(302, 198))
	require.Equal(t, DragEnd, e.Gesture().DragMode)
	e.PointerMove(At(402, 298))
	e.PointerUp(At(402, 298))

	got, _ := e.Markup().Store().Line(orig.ID)
	assert.Equal(t, orig.Start(), got.Start())
	if d := cmp.Diff(state.Point{X: 0.5, Y: 0.5}, got.End(), approx); d != "" {
		t.Errorf("end point (-want +got):\n%s", d)
	}

	e.PointerDown(At(100, 100))
	assert.Equal(t, DragStart, e.Gesture().DragMode)
}

func TestDragRectangleCorner(t *testing.T) {
	e := newTestEditor(ToolArea)
	e.PointerDown(At(100, 100))
	e.PointerMove(At(200, 200))
	e.PointerUp(At(200, 200))
	a := e.Markup().Store().Areas()[0]
	require.Len(t, a.Points, 2)

	e.SetTool(ToolSelect)
	e.PointerDown(At(200, 200))
	require.Equal(t, DragEnd, e.Gesture().DragMode)
	e.PointerMove(At(400, 300))

	got, _ := e.Markup().Store().Area(a.ID)
	want := []state.Point{{X: 0.125, Y: 1.0 / 6}, {X: 0.5, Y: 0.5}}
	if d := cmp.Diff(want, got.Points, approx); d != "" {
		t.Errorf("points (-want +got):\n%s", d)
	}
}

func TestFreeformAppendsPoints(t *testing.T) {
	e := newTestEditor(ToolArea)
	require.NoError(t, e.ApplyStyle(state.StyleChange{Field: state.FieldAreaShape, Value: "freeform"}))

	e.PointerDown(At(100, 100))
	for i := 1; i <= 5; i++ {
		e.PointerMove(At(100+float64(i)*20, 100+float64(i%2)*30))
	}
	e.PointerUp(At(200, 130))

	areas := e.Markup().Store().Areas()
	require.Len(t, areas, 1)
	assert.Equal(t, state.ShapeFreeform, areas[0].Shape)
	assert.Len(t, areas[0].Points, 6)

	// no resize handles: pressing on the last point moves the whole shape
	e.SetTool(ToolSelect)
	e.PointerDown(At(200, 130))
	assert.Equal(t, DragMove, e.Gesture().DragMode)
}

func TestToolSwitchDuringDrag(t *testing.T) {
	e := newTestEditor(ToolSelect)
	orig := drawLine(e, 100, 100, 300, 200)

	e.PointerDown(At(200, 150))
	e.SetTool(ToolHand)
	assert.Equal(t, DragMove, e.Gesture().DragMode, "tool switch keeps the drag")

	e.PointerMove(At(280, 150))
	e.PointerUp(At(280, 150))
	assert.Equal(t, Gesture{}, e.Gesture())

	moved, _ := e.Markup().Store().Line(orig.ID)
	e.PointerMove(At(500, 500))
	after, _ := e.Markup().Store().Line(orig.ID)
	assert.Equal(t, moved, after)
	assert.InDelta(t, orig.X1+0.1, moved.X1, 1e-9)
}

func TestToolSwitchEndsDrawing(t *testing.T) {
	e := newTestEditor(ToolLine)
	e.PointerDown(At(100, 100))
	require.True(t, e.Gesture().Drawing)
	e.SetTool(ToolSelect)
	assert.False(t, e.Gesture().Drawing)
	e.PointerMove(At(300, 300))

	l := e.Markup().Store().Lines()[0]
	assert.Equal(t, l.Start(), l.End())
}

func TestDragSelectsExclusively(t *testing.T) {
	e := newTestEditor(ToolSelect)
	l := drawLine(e, 100, 100, 300, 100)
	e.SetTool(ToolText)
	e.PointerDown(At(500, 400))
	e.PointerUp(At(500, 400))
	tb := e.Markup().Store().Texts()[0]
	require.Equal(t, tb.ID, e.Markup().Selection().Text())

	e.SetTool(ToolSelect)
	e.PointerDown(At(200, 101))
	sel := e.Markup().Selection()
	assert.Equal(t, l.ID, sel.Line())
	assert.Empty(t, sel.Text())
	assert.Empty(t, sel.Area())
	e.PointerUp(At(200, 101))

	e.PointerDown(At(10, 590))
	assert.True(t, e.Markup().Selection().IsNone())
}

func TestDragMirrorsStyle(t *testing.T) {
	e := newTestEditor(ToolSelect)
	l := drawLine(e, 100, 100, 300, 100)
	require.NoError(t, e.ApplyStyle(state.StyleChange{Field: state.FieldLineWidth, Value: 6}))
	e.Markup().ClearSelection()
	require.NoError(t, e.ApplyStyle(state.StyleChange{Field: state.FieldLineWidth, Value: 1}))

	e.PointerDown(At(200, 100))
	assert.Equal(t, l.ID, e.Markup().Selection().Line())
	assert.Equal(t, 6, e.Markup().Defaults().LineWidth)
}

func TestEntitiesInertUnderDrawingTools(t *testing.T) {
	e := newTestEditor(ToolLine)
	drawLine(e, 100, 100, 300, 100)

	e.PointerDown(At(200, 100))
	e.PointerUp(At(200, 100))
	assert.Len(t, e.Markup().Store().Lines(), 2)

	e.SetTool(ToolHand)
	before := e.Markup().Store().Lines()
	e.PointerDown(At(200, 100))
	e.PointerMove(At(250, 150))
	assert.Equal(t, before, e.Markup().Store().Lines())
}

func TestAreaCreationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	e := New(
		WithIDs(state.NewCounter("t")),
		WithCanvasSize(800, 600),
		WithTool(ToolArea),
		WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
	)
	e.PointerDown(At(100, 100))
	assert.Contains(t, buf.String(), `"shape":"rectangle"`)
}

func TestTextCreation(t *testing.T) {
	e := New(WithIDs(state.NewCounter("t")), WithCanvasSize(800, 400), WithTool(ToolText))
	e.PointerDown(At(80, 40))
	e.PointerUp(At(80, 40))

	texts := e.Markup().Store().Texts()
	require.Len(t, texts, 1)
	want := &state.TextBox{ID: texts[0].ID, X: 0.1, Y: 0.1, W: 0.2, H: 0.1, Style: state.DefaultStyles().Text}
	if d := cmp.Diff(want, texts[0], approx); d != "" {
		t.Errorf("text box (-want +got):\n%s", d)
	}
	assert.Empty(t, e.Markup().Editing(), "a new box is not in edit mode")

	// pressing an existing box moves it instead of creating another
	e.PointerDown(At(100, 50))
	assert.Equal(t, DragMove, e.Gesture().DragMode)
	assert.Len(t, e.Markup().Store().Texts(), 1)
}

func TestNothingCreatedWithoutCanvas(t *testing.T) {
	for _, tool := range []Tool{ToolLine, ToolArea, ToolText} {
		t.Run(tool.String(), func(t *testing.T) {
			e := New(WithTool(tool))
			e.PointerDown(At(10, 10))
			e.PointerMove(At(20, 20))
			assert.Zero(t, e.Markup().Store().Len())
		})
	}
}

func TestTextResizeFloor(t *testing.T) {
	e := newTestEditor(ToolText)
	e.PointerDown(At(100, 100))
	e.PointerUp(At(100, 100))
	tb := e.Markup().Store().Texts()[0]

	e.PointerDown(At(260, 140))
	require.Equal(t, DragCorner, e.Gesture().DragMode)
	e.PointerMove(At(300, 200))
	got, _ := e.Markup().Store().Text(tb.ID)
	assert.InDelta(t, 0.25, got.W, 1e-9)
	assert.InDelta(t, 40.0/600+0.1, got.H, 1e-9)
	assert.Equal(t, tb.X, got.X)

	e.PointerMove(At(0, 0))
	got, _ = e.Markup().Store().Text(tb.ID)
	assert.Equal(t, state.MinTextSize, got.W)
	assert.Equal(t, state.MinTextSize, got.H)
}

func TestTextEditKeys(t *testing.T) {
	e := newTestEditor(ToolText)
	e.PointerDown(At(100, 100))
	e.PointerUp(At(100, 100))
	tb := e.Markup().Store().Texts()[0]

	assert.False(t, e.TypeRune('x'), "typing needs edit mode")
	require.True(t, e.DoubleClick(At(120, 110)))
	require.True(t, e.Editing())

	for _, r := range "hé!" {
		assert.True(t, e.TypeRune(r))
	}
	assert.True(t, e.KeyDown(KeyBackspace))
	assert.True(t, e.KeyDown(KeyDelete))

	got, ok := e.Markup().Store().Text(tb.ID)
	require.True(t, ok, "delete keys never remove the edited box")
	assert.Equal(t, "hé", got.Text)

	assert.True(t, e.KeyDown(KeyEscape))
	assert.False(t, e.Editing())
	assert.Equal(t, tb.ID, e.Markup().Selection().Text())

	assert.True(t, e.KeyDown(KeyDelete))
	assert.Zero(t, e.Markup().Store().Len())
}

func TestOnlyOneBoxEdits(t *testing.T) {
	e := newTestEditor(ToolText)
	for _, p := range [][2]float64{{100, 100}, {400, 300}} {
		e.PointerDown(At(p[0], p[1]))
		e.PointerUp(At(p[0], p[1]))
	}
	texts := e.Markup().Store().Texts()

	e.SetTool(ToolSelect)
	require.True(t, e.DoubleClick(At(110, 110)))
	assert.Equal(t, texts[0].ID, e.Markup().Editing())
	require.True(t, e.DoubleClick(At(410, 310)))
	assert.Equal(t, texts[1].ID, e.Markup().Editing())

	e.SetTool(ToolLine)
	assert.False(t, e.Editing())
	assert.False(t, e.DoubleClick(At(410, 310)))
}

func TestDeleteKeyOutsideEditing(t *testing.T) {
	e := newTestEditor(ToolSelect)
	drawLine(e, 100, 100, 300, 100)
	assert.True(t, e.KeyDown(KeyBackspace))
	assert.Zero(t, e.Markup().Store().Len())
	assert.False(t, e.KeyDown(KeyDelete), "nothing selected")
	assert.False(t, e.KeyDown(KeyEscape))
}

func TestHandPans(t *testing.T) {
	scroll := &viewport.Scroll{}
	scroll.ScrollTo(100, 50)
	e := New(WithScroller(scroll), WithTool(ToolHand))

	e.PointerDown(PointerEvent{X: 400, Y: 350, ScreenX: 300, ScreenY: 300})
	e.PointerMove(PointerEvent{X: 400, Y: 350, ScreenX: 250, ScreenY: 280})
	x, y := scroll.ScrollOffset()
	assert.Equal(t, 150.0, x)
	assert.Equal(t, 70.0, y)

	e.PointerMove(PointerEvent{ScreenX: 600, ScreenY: 600})
	x, y = scroll.ScrollOffset()
	assert.Zero(t, x)
	assert.Zero(t, y)

	e.PointerLeave()
	e.PointerMove(PointerEvent{ScreenX: 0, ScreenY: 0})
	x, _ = scroll.ScrollOffset()
	assert.Zero(t, x)
}

func TestPageNavigation(t *testing.T) {
	ctx := context.Background()
	doc := &fakeDocument{pages: 3}
	e := New(WithViewport(doc), WithIDs(state.NewCounter("t")))

	page, err := e.LoadDocument(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, geom.Size{W: 800, H: 600}, e.Canvas())

	_, moved, err := e.GoToPage(ctx, 7)
	require.NoError(t, err)
	assert.False(t, moved)
	_, moved, _ = e.PrevPage(ctx)
	assert.False(t, moved)
	assert.False(t, e.SelectPage(1), "already there")
	assert.Equal(t, 1, e.Page())
	renders := doc.renders

	require.True(t, e.SelectPage(3))
	assert.Equal(t, renders, doc.renders, "selecting does not render")
	require.True(t, e.SelectPage(1))

	_, moved, err = e.NextPage(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, e.Page())

	_, _, _ = e.GoToPage(ctx, 3)
	_, moved, _ = e.NextPage(ctx)
	assert.False(t, moved)
	assert.Equal(t, 3, e.Page())
}

func TestZoomClamps(t *testing.T) {
	ctx := context.Background()
	e := New(WithViewport(&fakeDocument{pages: 1}))
	_, changed, _ := e.ZoomIn(ctx)
	assert.False(t, changed, "no document")

	_, err := e.LoadDocument(ctx, nil)
	require.NoError(t, err)

	_, changed, err = e.ZoomIn(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1.25, e.Zoom())
	assert.Equal(t, geom.Size{W: 1000, H: 750}, e.Canvas())

	_, _, _ = e.SetZoom(ctx, 10)
	assert.Equal(t, MaxZoom, e.Zoom())
	_, changed, _ = e.ZoomIn(ctx)
	assert.False(t, changed)

	_, _, _ = e.SetZoom(ctx, 0.01)
	assert.Equal(t, MinZoom, e.Zoom())

	_, changed, err = e.SetZoom(ctx, math.NaN())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, MinZoom, e.Zoom())
	_, changed, _ = e.ZoomIn(ctx)
	assert.True(t, changed)
	assert.Equal(t, MinZoom*ZoomStep, e.Zoom())
}

func TestStaleRenderIgnored(t *testing.T) {
	e := newTestEditor(ToolSelect)
	first := e.BeginRender()
	second := e.BeginRender()

	assert.False(t, e.FinishRender(first, viewport.Page{Width: 100, Height: 100}, nil))
	assert.Equal(t, geom.Size{W: 800, H: 600}, e.Canvas())

	assert.True(t, e.FinishRender(second, viewport.Page{Width: 200, Height: 100}, nil))
	assert.Equal(t, geom.Size{W: 200, H: 100}, e.Canvas())

	third := e.BeginRender()
	assert.False(t, e.FinishRender(third, viewport.Page{Width: 1, Height: 1}, errors.New("boom")))
	assert.Equal(t, geom.Size{W: 200, H: 100}, e.Canvas())
}

func TestLoadResetsMarkup(t *testing.T) {
	ctx := context.Background()
	doc := &fakeDocument{pages: 2}
	e := New(WithViewport(doc), WithIDs(state.NewCounter("t")))
	_, err := e.LoadDocument(ctx, nil)
	require.NoError(t, err)
	_, _, _ = e.NextPage(ctx)
	_, _, _ = e.ZoomIn(ctx)

	drawLine(e, 10, 10, 50, 50)
	require.True(t, e.Copy())

	_, err = e.LoadDocument(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, e.Markup().Store().Len())
	assert.True(t, e.Markup().Selection().IsNone())
	assert.Equal(t, 1, e.Page())
	assert.Equal(t, 1.0, e.Zoom())
	assert.Equal(t, state.KindLine, e.Markup().ClipboardKind())

	drawLine(e, 10, 10, 50, 50)
	boom := errors.New("corrupt")
	doc.loadErr = boom
	_, err = e.LoadDocument(ctx, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, e.Markup().Store().Len())
}

func TestEditorClipboard(t *testing.T) {
	e := newTestEditor(ToolSelect)
	drawLine(e, 100, 100, 300, 100)

	assert.True(t, e.Duplicate())
	assert.True(t, e.Cut())
	assert.Len(t, e.Markup().Store().Lines(), 1)
	assert.True(t, e.Paste())
	assert.Len(t, e.Markup().Store().Lines(), 2)
	assert.True(t, e.Delete())
	assert.False(t, e.Delete())
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	_, err := ParseTool("lasso")
	assert.Error(t, err)
}
