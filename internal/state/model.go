package state

import (
	"fmt"
	"strings"
)

// ID identifies an annotation. Ids are never reused.
type ID string

// Point is a position normalized to the page: both components are fractions
// of the rendered page width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color is a "#rrggbb" string.
type Color string

// Kind names one of the three annotation collections.
type Kind int

const (
	KindNone Kind = iota
	KindLine
	KindArea
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArea:
		return "area"
	case KindText:
		return "text"
	}
	return "none"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{KindNone, KindLine, KindArea, KindText} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", b)
}

type LineStyle string

const (
	LineSolid   LineStyle = "solid"
	LineDashed  LineStyle = "dashed"
	LineDotted  LineStyle = "dotted"
	LineDotDash LineStyle = "dot-dash"
	LineWavy    LineStyle = "wavy"
)

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeFreeform  ShapeKind = "freeform"
)

type OutlineStyle string

const (
	OutlineSolid  OutlineStyle = "solid"
	OutlineDashed OutlineStyle = "dashed"
	OutlineCloud  OutlineStyle = "cloud"
	OutlineZigzag OutlineStyle = "zigzag"
)

type FontFamily string

const (
	FontSystem    FontFamily = "system"
	FontSerif     FontFamily = "serif"
	FontMonospace FontFamily = "monospace"
)

func (s LineStyle) String() string    { return string(s) }
func (s ShapeKind) String() string    { return string(s) }
func (s OutlineStyle) String() string { return string(s) }
func (f FontFamily) String() string   { return string(f) }

var (
	lineStyles    = []LineStyle{LineSolid, LineDashed, LineDotted, LineDotDash, LineWavy}
	shapeKinds    = []ShapeKind{ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeFreeform}
	outlineStyles = []OutlineStyle{OutlineSolid, OutlineDashed, OutlineCloud, OutlineZigzag}
	fontFamilies  = []FontFamily{FontSystem, FontSerif, FontMonospace}
)

// LineStyles lists the stroke styles in toolbar order.
func LineStyles() []LineStyle { return append([]LineStyle(nil), lineStyles...) }

// ShapeKinds lists the area shapes in toolbar order.
func ShapeKinds() []ShapeKind { return append([]ShapeKind(nil), shapeKinds...) }

// OutlineStyles lists the area outline styles in toolbar order.
func OutlineStyles() []OutlineStyle { return append([]OutlineStyle(nil), outlineStyles...) }

// FontFamilies lists the available text box fonts.
func FontFamilies() []FontFamily { return append([]FontFamily(nil), fontFamilies...) }

func ParseLineStyle(s string) (LineStyle, error) {
	return parseEnum(s, lineStyles, "line style")
}

func ParseShapeKind(s string) (ShapeKind, error) {
	return parseEnum(s, shapeKinds, "shape")
}

func ParseOutlineStyle(s string) (OutlineStyle, error) {
	return parseEnum(s, outlineStyles, "outline style")
}

func ParseFontFamily(s string) (FontFamily, error) {
	return parseEnum(s, fontFamilies, "font family")
}

func parseEnum[T ~string](s string, valid []T, what string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range valid {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", what, s)
}

// ParseColor accepts "#rgb" or "#rrggbb" (the leading '#' is optional) and
// returns the canonical lower-case "#rrggbb" form.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return "", fmt.Errorf("invalid color %q", s)
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return "", fmt.Errorf("invalid color %q", s)
		}
	}
	return Color("#" + s), nil
}

// Line is a connector between two normalized endpoints.
type Line struct {
	ID    ID        `json:"id"`
	X1    float64   `json:"x1"`
	Y1    float64   `json:"y1"`
	X2    float64   `json:"x2"`
	Y2    float64   `json:"y2"`
	Style LineStyle `json:"style"`
	Width int       `json:"width"`
	Arrow bool      `json:"arrow"`
	Color Color     `json:"color"`
}

func (l *Line) Clone() *Line {
	c := *l
	return &c
}

func (l *Line) Start() Point { return Point{l.X1, l.Y1} }
func (l *Line) End() Point   { return Point{l.X2, l.Y2} }

// Area is a filled or outlined shape. Rectangles, circles and triangles
// carry exactly two points (opposite corners of the bounding box); freeform
// shapes carry the outline in drawing order.
type Area struct {
	ID          ID           `json:"id"`
	Shape       ShapeKind    `json:"shape"`
	Points      []Point      `json:"points"`
	Outline     OutlineStyle `json:"outline"`
	Width       int          `json:"width"`
	Color       Color        `json:"color"`
	FillOpacity float64      `json:"fill_opacity"`
}

func (a *Area) Clone() *Area {
	c := *a
	c.Points = append([]Point(nil), a.Points...)
	return &c
}

// HasHandles reports whether the shape can be resized by its corners.
func (a *Area) HasHandles() bool {
	return a.Shape != ShapeFreeform && len(a.Points) == 2
}

type TextStyle struct {
	Color           Color      `json:"color"`
	Font            FontFamily `json:"font"`
	Size            float64    `json:"size"`
	Bold            bool       `json:"bold"`
	Italic          bool       `json:"italic"`
	Underline       bool       `json:"underline"`
	Background      Color      `json:"background"`
	SolidBackground bool       `json:"solid_background"`
}

// TextBox is a styled text label anchored at its top-left corner.
type TextBox struct {
	ID    ID        `json:"id"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	W     float64   `json:"w"`
	H     float64   `json:"h"`
	Text  string    `json:"text"`
	Style TextStyle `json:"style"`
}

func (t *TextBox) Clone() *TextBox {
	c := *t
	return &c
}
