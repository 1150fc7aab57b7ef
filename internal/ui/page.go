package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"PageMarkup/internal/editor"
	"PageMarkup/internal/render"
	"PageMarkup/internal/state"
)

// PageWidget shows the rendered page with its annotations and feeds
// pointer and keyboard input to the editor. Like every fyne widget it is
// only touched from the UI goroutine.
type PageWidget struct {
	widget.BaseWidget
	ed    *editor.Editor
	image image.Image

	// OnChange runs after every input that may have changed the editor.
	OnChange func()
}

var _ fyne.Widget = (*PageWidget)(nil)
var _ fyne.Draggable = (*PageWidget)(nil)
var _ fyne.DoubleTappable = (*PageWidget)(nil)
var _ fyne.Focusable = (*PageWidget)(nil)
var _ desktop.Mouseable = (*PageWidget)(nil)
var _ desktop.Hoverable = (*PageWidget)(nil)

// NewPageWidget returns a widget that is not yet attached to an editor.
// The editor needs the scroll container around the widget, so the two are
// joined after both exist.
func NewPageWidget() *PageWidget {
	w := &PageWidget{}
	w.ExtendBaseWidget(w)
	return w
}

func (w *PageWidget) attach(ed *editor.Editor) {
	w.ed = ed
}

// SetImage replaces the page bitmap after a render.
func (w *PageWidget) SetImage(img image.Image) {
	w.image = img
	w.changed()
}

func (w *PageWidget) changed() {
	w.Refresh()
	if w.OnChange != nil {
		w.OnChange()
	}
}

func pointer(ev *fyne.PointEvent) editor.PointerEvent {
	return editor.PointerEvent{
		X:       float64(ev.Position.X),
		Y:       float64(ev.Position.Y),
		ScreenX: float64(ev.AbsolutePosition.X),
		ScreenY: float64(ev.AbsolutePosition.Y),
	}
}

func (w *PageWidget) MouseDown(e *desktop.MouseEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(w); c != nil {
		c.Focus(w)
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.ed.PointerDown(pointer(&e.PointEvent))
	w.changed()
}

func (w *PageWidget) MouseUp(e *desktop.MouseEvent) {
	w.ed.PointerUp(pointer(&e.PointEvent))
	w.changed()
}

func (w *PageWidget) MouseIn(*desktop.MouseEvent) {}

func (w *PageWidget) MouseMoved(e *desktop.MouseEvent) {
	if w.ed.Gesture() == (editor.Gesture{}) {
		return
	}
	w.ed.PointerMove(pointer(&e.PointEvent))
	w.Refresh()
}

func (w *PageWidget) MouseOut() {
	if w.ed.Gesture() == (editor.Gesture{}) {
		return
	}
	w.ed.PointerLeave()
	w.changed()
}

// Dragged receives pointer moves while the primary button is held.
func (w *PageWidget) Dragged(e *fyne.DragEvent) {
	w.ed.PointerMove(pointer(&e.PointEvent))
	w.Refresh()
}

func (w *PageWidget) DragEnd() {
	w.ed.PointerLeave()
	w.changed()
}

func (w *PageWidget) DoubleTapped(e *fyne.PointEvent) {
	if w.ed.DoubleClick(pointer(e)) {
		w.changed()
	}
}

func (w *PageWidget) FocusGained() {}
func (w *PageWidget) FocusLost()   {}

func (w *PageWidget) TypedRune(r rune) {
	if w.ed.TypeRune(r) {
		w.changed()
	}
}

func (w *PageWidget) TypedKey(e *fyne.KeyEvent) {
	if w.ed.KeyDown(editor.Key(e.Name)) {
		w.changed()
	}
}

func (w *PageWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &pageRenderer{page: w}
	r.background = canvas.NewRectangle(color.NRGBA{R: 245, G: 246, B: 248, A: 255})
	return r
}

type pageRenderer struct {
	page       *PageWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *pageRenderer) Objects() []fyne.CanvasObject {
	if r.objects == nil {
		r.build()
	}
	return r.objects
}

func (r *pageRenderer) build() {
	w := r.page
	size := w.ed.Canvas()
	objects := []fyne.CanvasObject{r.background}

	if w.image != nil {
		img := canvas.NewImageFromImage(w.image)
		img.FillMode = canvas.ImageFillStretch
		img.Resize(fyne.NewSize(float32(size.W), float32(size.H)))
		objects = append(objects, img)
	}

	prims := render.Build(w.ed.Markup(), size, render.DefaultOptions())
	if fills := render.FillImage(prims, int(size.W), int(size.H)); len(prims) > 0 {
		img := canvas.NewImageFromImage(fills)
		img.FillMode = canvas.ImageFillStretch
		img.Resize(fyne.NewSize(float32(size.W), float32(size.H)))
		objects = append(objects, img)
	}

	for _, p := range prims {
		switch p := p.(type) {
		case render.Stroke:
			for i := 1; i < len(p.Points); i++ {
				seg := canvas.NewLine(p.Color)
				seg.StrokeWidth = float32(p.Width)
				seg.Position1 = fyne.NewPos(float32(p.Points[i-1].X), float32(p.Points[i-1].Y))
				seg.Position2 = fyne.NewPos(float32(p.Points[i].X), float32(p.Points[i].Y))
				objects = append(objects, seg)
			}
		case render.Label:
			objects = append(objects, labelObjects(p)...)
		case render.Handle:
			c := canvas.NewCircle(p.Color)
			c.StrokeColor = color.NRGBA{A: 200}
			c.StrokeWidth = 1
			c.Move(fyne.NewPos(float32(p.Center.X-p.Radius), float32(p.Center.Y-p.Radius)))
			c.Resize(fyne.NewSquareSize(float32(2 * p.Radius)))
			objects = append(objects, c)
		}
	}
	r.objects = objects
}

func labelObjects(l render.Label) []fyne.CanvasObject {
	pos := fyne.NewPos(float32(l.Rect.X), float32(l.Rect.Y))
	size := fyne.NewSize(float32(l.Rect.W), float32(l.Rect.H))

	var res []fyne.CanvasObject
	if l.Background.A > 0 {
		bg := canvas.NewRectangle(l.Background)
		bg.Move(pos)
		bg.Resize(size)
		res = append(res, bg)
	}
	txt := canvas.NewText(l.Text, l.Color)
	txt.TextSize = float32(l.Style.Size)
	txt.TextStyle = fyne.TextStyle{
		Bold:      l.Style.Bold,
		Italic:    l.Style.Italic,
		Monospace: l.Style.Font == state.FontMonospace,
	}
	txt.Move(pos.AddXY(4, 2))
	txt.Resize(size)
	res = append(res, txt)

	if l.Style.Underline && l.Text != "" {
		width := fyne.MeasureText(l.Text, txt.TextSize, txt.TextStyle).Width
		y := pos.Y + 2 + txt.TextSize*1.2
		u := canvas.NewLine(l.Color)
		u.StrokeWidth = 1
		u.Position1 = fyne.NewPos(pos.X+4, y)
		u.Position2 = fyne.NewPos(pos.X+4+width, y)
		res = append(res, u)
	}
	return res
}

func (r *pageRenderer) Refresh() {
	r.build()
	r.Layout(r.page.Size())
	canvas.Refresh(r.page)
}

func (r *pageRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

// MinSize follows the rendered page so an enclosing scroll container can
// scroll across it.
func (r *pageRenderer) MinSize() fyne.Size {
	s := r.page.ed.Canvas()
	if s.IsZero() {
		return fyne.NewSize(300, 300)
	}
	return fyne.NewSize(float32(s.W), float32(s.H))
}

func (r *pageRenderer) Destroy() {}
