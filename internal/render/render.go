// Package render turns a markup layer into flat drawing primitives in
// pixel space. The primitives only need straight polylines, filled
// polygons and text, so any canvas can draw them.
package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"seehuhn.de/go/geom/vec"

	"PageMarkup/internal/geom"
	"PageMarkup/internal/state"
)

type Primitive interface {
	isPrimitive()
}

// Stroke is an open or closed polyline.
type Stroke struct {
	Points []vec.Vec2
	Width  float64
	Color  color.NRGBA
}

// Fill is a filled polygon. Opacity is folded into the alpha channel.
type Fill struct {
	Polygon []vec.Vec2
	Color   color.NRGBA
}

// Label is the content of a text box.
type Label struct {
	ID         state.ID
	Rect       geom.Rect
	Text       string
	Style      state.TextStyle
	Color      color.NRGBA
	Background color.NRGBA // zero when the box has a transparent background
	Editing    bool
}

// Handle is a grip of the selected annotation.
type Handle struct {
	Center vec.Vec2
	Radius float64
	Color  color.NRGBA
}

func (Stroke) isPrimitive() {}
func (Fill) isPrimitive()   {}
func (Label) isPrimitive()  {}
func (Handle) isPrimitive() {}

type Options struct {
	CurveSteps     int     // straight pieces per quadratic segment
	CircleSegments int     // polygon vertices per circle
	HandleRadius   float64 // pixels
	WaveAmplitude  float64 // pixels per unit of stroke width
	WaveLength     float64 // pixels per unit of stroke width
}

func DefaultOptions() Options {
	return Options{
		CurveSteps:     6,
		CircleSegments: 48,
		HandleRadius:   5,
		WaveAmplitude:  2,
		WaveLength:     6,
	}
}

var (
	selectionOutline = colorful.Color{R: 0.1, G: 0.45, B: 0.95}
	white            = colorful.Color{R: 1, G: 1, B: 1}
)

// Build emits the primitives for m on a canvas of the given size, bottom
// to top: areas, lines, text boxes, then the handles of the selection.
func Build(m *state.Markup, size geom.Size, opts Options) []Primitive {
	if size.IsZero() {
		return nil
	}
	b := builder{size: size, opts: opts}
	store := m.Store()
	for _, a := range store.Areas() {
		b.area(a)
	}
	for _, l := range store.Lines() {
		b.line(l)
	}
	for _, t := range store.Texts() {
		b.text(t, t.ID == m.Editing())
	}
	b.handles(m)
	return b.out
}

type builder struct {
	size geom.Size
	opts Options
	out  []Primitive
}

func (b *builder) line(l *state.Line) {
	w := float64(l.Width)
	c := ParseColor(l.Color, 1)
	a, z := geom.ToPixel(l.Start(), b.size), geom.ToPixel(l.End(), b.size)

	if l.Style == state.LineWavy {
		amp, wl := b.opts.WaveAmplitude*w, b.opts.WaveLength*w
		for _, pl := range geom.Wavy(a, z, amp, wl).Flatten(b.opts.CurveSteps) {
			b.out = append(b.out, Stroke{Points: pl, Width: w, Color: c})
		}
	} else {
		b.strokes([]vec.Vec2{a, z}, geom.LineDash(l.Style, w), w, c)
	}

	if l.Arrow && a != z {
		head := geom.Arrowhead(a, z, ArrowSize(l.Width))
		b.out = append(b.out, Fill{Polygon: head[:], Color: c})
	}
}

// ArrowSize is the arrowhead length for a stroke width.
func ArrowSize(width int) float64 {
	return math.Max(8, 3*float64(width))
}

func (b *builder) area(a *state.Area) {
	outline := b.outline(a)
	if len(outline) == 0 {
		return
	}
	w := float64(a.Width)
	if a.FillOpacity > 0 && len(outline) >= 3 {
		b.out = append(b.out, Fill{Polygon: outline, Color: ParseColor(a.Color, a.FillOpacity)})
	}
	closed := append(outline[:len(outline):len(outline)], outline[0])
	b.strokes(closed, geom.OutlineDash(a.Outline, w), w, ParseColor(a.Color, 1))
}

// outline returns the area's boundary as an open polygon in pixels.
func (b *builder) outline(a *state.Area) []vec.Vec2 {
	pts := geom.PointsToPixel(a.Points, b.size)
	if a.Shape == state.ShapeFreeform || len(pts) != 2 {
		return pts
	}
	switch a.Shape {
	case state.ShapeCircle:
		return geom.CircleFromCorners(pts[0], pts[1]).Polygon(b.opts.CircleSegments)
	case state.ShapeTriangle:
		tri := geom.TriangleFromCorners(pts[0], pts[1])
		return tri[:]
	}
	return geom.RectFromCorners(pts[0], pts[1]).Polygon()
}

func (b *builder) strokes(pl []vec.Vec2, dash []float64, w float64, c color.NRGBA) {
	if dash == nil {
		b.out = append(b.out, Stroke{Points: pl, Width: w, Color: c})
		return
	}
	for _, on := range geom.SplitDashes(pl, dash) {
		b.out = append(b.out, Stroke{Points: on, Width: w, Color: c})
	}
}

func (b *builder) text(t *state.TextBox, editing bool) {
	r := geom.Rect{X: t.X * b.size.W, Y: t.Y * b.size.H, W: t.W * b.size.W, H: t.H * b.size.H}
	lbl := Label{
		ID:      t.ID,
		Rect:    r,
		Text:    t.Text,
		Style:   t.Style,
		Color:   ParseColor(t.Style.Color, 1),
		Editing: editing,
	}
	if t.Style.SolidBackground {
		lbl.Background = ParseColor(t.Style.Background, 1)
	}
	b.out = append(b.out, lbl)
	if editing {
		b.out = append(b.out, Stroke{
			Points: append(r.Polygon(), vec.Vec2{X: r.X, Y: r.Y}),
			Width:  1,
			Color:  toNRGBA(selectionOutline, 1),
		})
	}
}

func (b *builder) handles(m *state.Markup) {
	sel := m.Selection()
	store := m.Store()
	var grips []state.Point
	var base colorful.Color
	switch sel.Kind {
	case state.KindLine:
		l, ok := store.Line(sel.ID)
		if !ok {
			return
		}
		grips = []state.Point{l.Start(), l.End()}
		base = parse(l.Color)
	case state.KindArea:
		a, ok := store.Area(sel.ID)
		if !ok || !a.HasHandles() {
			return
		}
		grips = a.Points
		base = parse(a.Color)
	case state.KindText:
		t, ok := store.Text(sel.ID)
		if !ok {
			return
		}
		grips = []state.Point{{X: t.X + t.W, Y: t.Y + t.H}}
		base = selectionOutline
	default:
		return
	}
	c := toNRGBA(base.BlendLab(white, 0.5).Clamped(), 1)
	for _, p := range grips {
		b.out = append(b.out, Handle{Center: geom.ToPixel(p, b.size), Radius: b.opts.HandleRadius, Color: c})
	}
}

// ParseColor converts a "#rrggbb" color with the given opacity. Colors
// that fail to parse render black.
func ParseColor(c state.Color, opacity float64) color.NRGBA {
	return toNRGBA(parse(c), opacity)
}

func parse(c state.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}
	}
	return col
}

func toNRGBA(c colorful.Color, opacity float64) color.NRGBA {
	r, g, b := c.RGB255()
	a := math.Round(math.Max(0, math.Min(1, opacity)) * 255)
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}
}
