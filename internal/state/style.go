package state

import (
	"fmt"
	"math"
)

const (
	MinWidth       = 1
	MaxWidth       = 8
	MaxFillOpacity = 0.9
	MinFontSize    = 6
	MaxFontSize    = 96
)

// Defaults is the style applied to newly created annotations.
type Defaults struct {
	LineStyle LineStyle `json:"line_style"`
	LineWidth int       `json:"line_width"`
	LineArrow bool      `json:"line_arrow"`
	LineColor Color     `json:"line_color"`

	AreaShape   ShapeKind    `json:"area_shape"`
	AreaOutline OutlineStyle `json:"area_outline"`
	AreaWidth   int          `json:"area_width"`
	AreaColor   Color        `json:"area_color"`
	FillOpacity float64      `json:"fill_opacity"`

	Text TextStyle `json:"text"`
}

func DefaultStyles() Defaults {
	return Defaults{
		LineStyle:   LineSolid,
		LineWidth:   2,
		LineColor:   "#e53935",
		AreaShape:   ShapeRectangle,
		AreaOutline: OutlineSolid,
		AreaWidth:   2,
		AreaColor:   "#1e88e5",
		FillOpacity: 0.2,
		Text: TextStyle{
			Color:      "#000000",
			Font:       FontSystem,
			Size:       16,
			Background: "#ffffff",
		},
	}
}

// StyleField names one style control.
type StyleField string

const (
	FieldLineStyle       StyleField = "line_style"
	FieldLineWidth       StyleField = "line_width"
	FieldLineArrow       StyleField = "line_arrow"
	FieldLineColor       StyleField = "line_color"
	FieldAreaShape       StyleField = "area_shape"
	FieldAreaOutline     StyleField = "area_outline"
	FieldAreaWidth       StyleField = "area_width"
	FieldAreaColor       StyleField = "area_color"
	FieldFillOpacity     StyleField = "fill_opacity"
	FieldTextColor       StyleField = "text_color"
	FieldFont            StyleField = "font"
	FieldFontSize        StyleField = "font_size"
	FieldBold            StyleField = "bold"
	FieldItalic          StyleField = "italic"
	FieldUnderline       StyleField = "underline"
	FieldBackground      StyleField = "background"
	FieldSolidBackground StyleField = "solid_background"
)

// StyleChange sets one style field. Value may be the field's own type or
// the loosely typed form produced by JSON decoding (string, float64, bool).
type StyleChange struct {
	Field StyleField `json:"field"`
	Value any        `json:"value"`
}

type fieldSpec struct {
	kind  Kind
	parse func(any) (any, error)
	def   func(*Defaults, any)
	line  func(*Line, any)
	area  func(*Area, any)
	text  func(*TextStyle, any)
}

var fieldSpecs = map[StyleField]fieldSpec{
	FieldLineStyle: {
		kind:  KindLine,
		parse: enumValue(ParseLineStyle),
		def:   func(d *Defaults, v any) { d.LineStyle = v.(LineStyle) },
		line:  func(l *Line, v any) { l.Style = v.(LineStyle) },
	},
	FieldLineWidth: {
		kind:  KindLine,
		parse: widthValue,
		def:   func(d *Defaults, v any) { d.LineWidth = v.(int) },
		line:  func(l *Line, v any) { l.Width = v.(int) },
	},
	FieldLineArrow: {
		kind:  KindLine,
		parse: boolValue,
		def:   func(d *Defaults, v any) { d.LineArrow = v.(bool) },
		line:  func(l *Line, v any) { l.Arrow = v.(bool) },
	},
	FieldLineColor: {
		kind:  KindLine,
		parse: colorValue,
		def:   func(d *Defaults, v any) { d.LineColor = v.(Color) },
		line:  func(l *Line, v any) { l.Color = v.(Color) },
	},
	FieldAreaShape: {
		// only affects shapes drawn from now on
		kind:  KindArea,
		parse: enumValue(ParseShapeKind),
		def:   func(d *Defaults, v any) { d.AreaShape = v.(ShapeKind) },
	},
	FieldAreaOutline: {
		kind:  KindArea,
		parse: enumValue(ParseOutlineStyle),
		def:   func(d *Defaults, v any) { d.AreaOutline = v.(OutlineStyle) },
		area:  func(a *Area, v any) { a.Outline = v.(OutlineStyle) },
	},
	FieldAreaWidth: {
		kind:  KindArea,
		parse: widthValue,
		def:   func(d *Defaults, v any) { d.AreaWidth = v.(int) },
		area:  func(a *Area, v any) { a.Width = v.(int) },
	},
	FieldAreaColor: {
		kind:  KindArea,
		parse: colorValue,
		def:   func(d *Defaults, v any) { d.AreaColor = v.(Color) },
		area:  func(a *Area, v any) { a.Color = v.(Color) },
	},
	FieldFillOpacity: {
		kind:  KindArea,
		parse: opacityValue,
		def:   func(d *Defaults, v any) { d.FillOpacity = v.(float64) },
		area:  func(a *Area, v any) { a.FillOpacity = v.(float64) },
	},
	FieldTextColor: {
		kind:  KindText,
		parse: colorValue,
		text:  func(s *TextStyle, v any) { s.Color = v.(Color) },
	},
	FieldFont: {
		kind:  KindText,
		parse: enumValue(ParseFontFamily),
		text:  func(s *TextStyle, v any) { s.Font = v.(FontFamily) },
	},
	FieldFontSize: {
		kind:  KindText,
		parse: fontSizeValue,
		text:  func(s *TextStyle, v any) { s.Size = v.(float64) },
	},
	FieldBold: {
		kind:  KindText,
		parse: boolValue,
		text:  func(s *TextStyle, v any) { s.Bold = v.(bool) },
	},
	FieldItalic: {
		kind:  KindText,
		parse: boolValue,
		text:  func(s *TextStyle, v any) { s.Italic = v.(bool) },
	},
	FieldUnderline: {
		kind:  KindText,
		parse: boolValue,
		text:  func(s *TextStyle, v any) { s.Underline = v.(bool) },
	},
	FieldBackground: {
		kind:  KindText,
		parse: colorValue,
		text:  func(s *TextStyle, v any) { s.Background = v.(Color) },
	},
	FieldSolidBackground: {
		kind:  KindText,
		parse: boolValue,
		text:  func(s *TextStyle, v any) { s.SolidBackground = v.(bool) },
	},
}

// Kind returns the annotation kind the field styles, or KindNone for an
// unknown field.
func (f StyleField) Kind() Kind {
	return fieldSpecs[f].kind
}

// Apply returns the defaults with the change applied. It is pure: d is not
// modified.
func (d Defaults) Apply(c StyleChange) (Defaults, error) {
	spec, v, err := c.resolve()
	if err != nil {
		return d, err
	}
	spec.setDefault(&d, v)
	return d, nil
}

func (c StyleChange) resolve() (fieldSpec, any, error) {
	spec, ok := fieldSpecs[c.Field]
	if !ok {
		return fieldSpec{}, nil, fmt.Errorf("unknown style field %q", c.Field)
	}
	v, err := spec.parse(c.Value)
	if err != nil {
		return fieldSpec{}, nil, fmt.Errorf("%s: %w", c.Field, err)
	}
	return spec, v, nil
}

func (spec fieldSpec) setDefault(d *Defaults, v any) {
	if spec.text != nil {
		spec.text(&d.Text, v)
		return
	}
	spec.def(d, v)
}

func enumValue[T ~string](parse func(string) (T, error)) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case T:
			return parse(string(x))
		case string:
			return parse(x)
		}
		return nil, fmt.Errorf("unexpected value %v", v)
	}
}

func colorValue(v any) (any, error) {
	switch x := v.(type) {
	case Color:
		return ParseColor(string(x))
	case string:
		return ParseColor(x)
	}
	return nil, fmt.Errorf("unexpected color %v", v)
}

func boolValue(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("unexpected flag %v", v)
	}
	return b, nil
}

func number(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("invalid number %v", x)
		}
		return x, nil
	case float32:
		return number(float64(x))
	}
	return 0, fmt.Errorf("unexpected number %v", v)
}

func widthValue(v any) (any, error) {
	x, err := number(v)
	if err != nil {
		return nil, err
	}
	return int(clamp(math.Round(x), MinWidth, MaxWidth)), nil
}

func opacityValue(v any) (any, error) {
	x, err := number(v)
	if err != nil {
		return nil, err
	}
	return clamp(x, 0, MaxFillOpacity), nil
}

func fontSizeValue(v any) (any, error) {
	x, err := number(v)
	if err != nil {
		return nil, err
	}
	return clamp(x, MinFontSize, MaxFontSize), nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
