package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"PageMarkup/internal/editor"
	"PageMarkup/internal/render"
	"PageMarkup/internal/state"
)

// Palette is the set of swatch colors offered in the toolbar.
var Palette = []state.Color{
	"#000000",
	"#e53935",
	"#43a047",
	"#1e88e5",
	"#fdd835",
	"#8e24aa",
	"#ffffff",
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    state.Color
	OnTapped func(state.Color)
}

func newColorSwatch(c state.Color, tapped func(state.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(render.ParseColor(s.Color, 1))
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// colorField picks the color a swatch sets: that of the selected
// annotation, or else that of the annotations the active tool creates.
func colorField(sel state.Selection, tool editor.Tool) state.StyleField {
	kind := sel.Kind
	if kind == state.KindNone {
		switch tool {
		case editor.ToolArea:
			kind = state.KindArea
		case editor.ToolText:
			kind = state.KindText
		}
	}
	switch kind {
	case state.KindArea:
		return state.FieldAreaColor
	case state.KindText:
		return state.FieldTextColor
	}
	return state.FieldLineColor
}

// Toolbar holds the style controls. Controls write through the editor and
// Sync reads the defaults back, so a selected annotation's style shows up
// in the controls.
type Toolbar struct {
	shell   *Shell
	syncing bool

	tools      *widget.RadioGroup
	lineStyle  *widget.Select
	lineWidth  *widget.Slider
	arrow      *widget.Check
	shape      *widget.Select
	outline    *widget.Select
	areaWidth  *widget.Slider
	opacity    *widget.Slider
	font       *widget.Select
	fontSize   *widget.Slider
	bold       *widget.Check
	italic     *widget.Check
	underline  *widget.Check
	background *widget.Check
}

func (t *Toolbar) apply(field state.StyleField, v any) {
	if t.syncing {
		return
	}
	if t.shell.ed.ApplyStyle(state.StyleChange{Field: field, Value: v}) == nil {
		t.shell.changed()
	}
}

func names[T ~string](vs []T) []string {
	res := make([]string, len(vs))
	for i, v := range vs {
		res[i] = string(v)
	}
	return res
}

func newSlider(lo, hi, step float64, changed func(float64)) *widget.Slider {
	s := widget.NewSlider(lo, hi)
	s.Step = step
	s.OnChanged = changed
	return s
}

func fixed(width float32, o fyne.CanvasObject) fyne.CanvasObject {
	return container.New(layout.NewGridWrapLayout(fyne.NewSize(width, 35)), o)
}

// NewToolbar builds the toolbar rows for s.
func NewToolbar(s *Shell) (*Toolbar, fyne.CanvasObject) {
	t := &Toolbar{shell: s}

	var toolNames []string
	for _, tool := range editor.Tools() {
		toolNames = append(toolNames, tool.String())
	}
	t.tools = widget.NewRadioGroup(toolNames, func(name string) {
		if tool, err := editor.ParseTool(name); err == nil && !t.syncing {
			s.ed.SetTool(tool)
			s.changed()
		}
	})
	t.tools.Horizontal = true
	t.tools.Required = true

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), s.open),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), s.prevPage),
		widget.NewToolbarAction(theme.NavigateNextIcon(), s.nextPage),
		widget.NewToolbarAction(theme.ZoomOutIcon(), s.zoomOut),
		widget.NewToolbarAction(theme.ZoomInIcon(), s.zoomIn),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentCopyIcon(), s.copy),
		widget.NewToolbarAction(theme.ContentCutIcon(), s.cut),
		widget.NewToolbarAction(theme.ContentPasteIcon(), s.paste),
		widget.NewToolbarAction(theme.ContentAddIcon(), s.duplicate),
		widget.NewToolbarAction(theme.DeleteIcon(), s.delete),
	)

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, c := range Palette {
		colorBox.Add(newColorSwatch(c, func(c state.Color) {
			t.apply(colorField(s.ed.Markup().Selection(), s.ed.Tool()), c)
		}))
	}

	t.lineStyle = widget.NewSelect(names(state.LineStyles()), func(v string) { t.apply(state.FieldLineStyle, v) })
	t.lineWidth = newSlider(state.MinWidth, state.MaxWidth, 1, func(v float64) { t.apply(state.FieldLineWidth, v) })
	t.arrow = widget.NewCheck("Arrow", func(v bool) { t.apply(state.FieldLineArrow, v) })

	t.shape = widget.NewSelect(names(state.ShapeKinds()), func(v string) { t.apply(state.FieldAreaShape, v) })
	t.outline = widget.NewSelect(names(state.OutlineStyles()), func(v string) { t.apply(state.FieldAreaOutline, v) })
	t.areaWidth = newSlider(state.MinWidth, state.MaxWidth, 1, func(v float64) { t.apply(state.FieldAreaWidth, v) })
	t.opacity = newSlider(0, state.MaxFillOpacity, 0.05, func(v float64) { t.apply(state.FieldFillOpacity, v) })

	t.font = widget.NewSelect(names(state.FontFamilies()), func(v string) { t.apply(state.FieldFont, v) })
	t.fontSize = newSlider(state.MinFontSize, state.MaxFontSize, 1, func(v float64) { t.apply(state.FieldFontSize, v) })
	t.bold = widget.NewCheck("Bold", func(v bool) { t.apply(state.FieldBold, v) })
	t.italic = widget.NewCheck("Italic", func(v bool) { t.apply(state.FieldItalic, v) })
	t.underline = widget.NewCheck("Underline", func(v bool) { t.apply(state.FieldUnderline, v) })
	t.background = widget.NewCheck("Background", func(v bool) { t.apply(state.FieldSolidBackground, v) })

	t.Sync()

	// --- Assemble everything ---
	top := container.NewHBox(
		widget.NewLabel("Tool:"),
		t.tools,
		widget.NewSeparator(),
		actions,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		layout.NewSpacer(),
	)
	styles := container.NewHBox(
		widget.NewLabel("Line:"),
		t.lineStyle,
		fixed(100, t.lineWidth),
		t.arrow,
		widget.NewSeparator(),
		widget.NewLabel("Area:"),
		t.shape,
		t.outline,
		fixed(100, t.areaWidth),
		fixed(100, t.opacity),
		widget.NewSeparator(),
		widget.NewLabel("Text:"),
		t.font,
		fixed(100, t.fontSize),
		t.bold,
		t.italic,
		t.underline,
		t.background,
		layout.NewSpacer(),
	)
	return t, container.NewVBox(top, styles)
}

// Sync shows the current tool and defaults without writing them back.
func (t *Toolbar) Sync() {
	t.syncing = true
	defer func() { t.syncing = false }()

	ed := t.shell.ed
	d := ed.Markup().Defaults()
	t.tools.SetSelected(ed.Tool().String())
	t.lineStyle.SetSelected(string(d.LineStyle))
	t.lineWidth.SetValue(float64(d.LineWidth))
	t.arrow.SetChecked(d.LineArrow)
	t.shape.SetSelected(string(d.AreaShape))
	t.outline.SetSelected(string(d.AreaOutline))
	t.areaWidth.SetValue(float64(d.AreaWidth))
	t.opacity.SetValue(d.FillOpacity)
	t.font.SetSelected(string(d.Text.Font))
	t.fontSize.SetValue(d.Text.Size)
	t.bold.SetChecked(d.Text.Bold)
	t.italic.SetChecked(d.Text.Italic)
	t.underline.SetChecked(d.Text.Underline)
	t.background.SetChecked(d.Text.SolidBackground)
}
