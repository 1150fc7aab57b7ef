package state

import (
	"math"
	"unicode/utf8"
)

// PasteOffset is added to every coordinate of a pasted or duplicated
// annotation so the copy never sits exactly on top of its source.
const PasteOffset = 0.02

// MinTextSize is the smallest normalized width and height a text box can
// be resized to.
const MinTextSize = 0.02

// Markup is the annotation layer of one document: the collections, the
// selection, the clipboard slot, the creation defaults and the text box
// being edited. It is not safe for concurrent use.
type Markup struct {
	store    *Store
	ids      IDGenerator
	sel      Selection
	clip     clipboard
	defaults Defaults
	editing  ID
}

// clipboard holds a deep copy of one annotation.
type clipboard struct {
	kind Kind
	line *Line
	area *Area
	text *TextBox
}

// NewMarkup creates an empty layer. A nil generator selects
// UUIDGenerator.
func NewMarkup(ids IDGenerator) *Markup {
	if ids == nil {
		ids = &UUIDGenerator{}
	}
	return &Markup{
		store:    NewStore(),
		ids:      ids,
		defaults: DefaultStyles(),
	}
}

func (m *Markup) Store() *Store          { return m.store }
func (m *Markup) Selection() Selection   { return m.sel }
func (m *Markup) Defaults() Defaults     { return m.defaults }
func (m *Markup) Editing() ID            { return m.editing }
func (m *Markup) ClipboardKind() Kind    { return m.clip.kind }
func (m *Markup) SetDefaults(d Defaults) { m.defaults = d }

// Select replaces the selection. Selecting an id that is not present in
// the named collection clears the selection instead. Leaving a text box
// ends its edit mode.
func (m *Markup) Select(sel Selection) {
	if !sel.IsNone() && !m.store.Has(sel.Kind, sel.ID) {
		sel = NoSelection
	}
	if m.editing != "" && sel.Text() != m.editing {
		m.editing = ""
	}
	m.sel = sel
}

func (m *Markup) ClearSelection() {
	m.Select(NoSelection)
}

// Reset removes every annotation and clears the selection and edit mode.
// The clipboard survives so content can be pasted into the next document.
func (m *Markup) Reset() {
	m.store.Reset()
	m.sel = NoSelection
	m.editing = ""
}

// CreateLine adds a zero-length line at p using the current defaults and
// selects it.
func (m *Markup) CreateLine(p Point) *Line {
	d := m.defaults
	l := &Line{
		ID:    m.ids.NewID(),
		X1:    p.X,
		Y1:    p.Y,
		X2:    p.X,
		Y2:    p.Y,
		Style: d.LineStyle,
		Width: d.LineWidth,
		Arrow: d.LineArrow,
		Color: d.LineColor,
	}
	m.store.AddLine(l)
	m.Select(SelectLine(l.ID))
	return l.Clone()
}

// CreateArea adds a shape of the default kind seeded at p and selects it.
// Bounding-box shapes start with two coincident corners, freeform shapes
// with a single point.
func (m *Markup) CreateArea(p Point) *Area {
	d := m.defaults
	a := &Area{
		ID:          m.ids.NewID(),
		Shape:       d.AreaShape,
		Outline:     d.AreaOutline,
		Width:       d.AreaWidth,
		Color:       d.AreaColor,
		FillOpacity: d.FillOpacity,
	}
	if a.Shape == ShapeFreeform {
		a.Points = []Point{p}
	} else {
		a.Points = []Point{p, p}
	}
	m.store.AddArea(a)
	m.Select(SelectArea(a.ID))
	return a.Clone()
}

// CreateText adds an empty text box with its top-left corner at p and the
// given normalized size, and selects it. The box is not put in edit mode.
func (m *Markup) CreateText(p Point, w, h float64) *TextBox {
	t := &TextBox{
		ID:    m.ids.NewID(),
		X:     p.X,
		Y:     p.Y,
		W:     w,
		H:     h,
		Style: m.defaults.Text,
	}
	m.store.AddText(t)
	m.Select(SelectText(t.ID))
	return t.Clone()
}

// ApplyStyleChange updates the creation defaults and, when an annotation of
// the field's kind is selected, applies the same value to it. An invalid
// change leaves everything untouched.
func (m *Markup) ApplyStyleChange(c StyleChange) error {
	spec, v, err := c.resolve()
	if err != nil {
		return err
	}
	spec.setDefault(&m.defaults, v)
	if !m.sel.Is(spec.kind) {
		return nil
	}
	switch spec.kind {
	case KindLine:
		if spec.line != nil {
			m.store.UpdateLine(m.sel.ID, func(l *Line) { spec.line(l, v) })
		}
	case KindArea:
		if spec.area != nil {
			m.store.UpdateArea(m.sel.ID, func(a *Area) { spec.area(a, v) })
		}
	case KindText:
		m.store.UpdateText(m.sel.ID, func(t *TextBox) { spec.text(&t.Style, v) })
	}
	return nil
}

// MirrorSelectionStyle copies the selected annotation's style into the
// creation defaults, so style controls show the selection's values.
func (m *Markup) MirrorSelectionStyle() {
	d := &m.defaults
	switch m.sel.Kind {
	case KindLine:
		if l, ok := m.store.Line(m.sel.ID); ok {
			d.LineStyle, d.LineWidth, d.LineArrow, d.LineColor = l.Style, l.Width, l.Arrow, l.Color
		}
	case KindArea:
		if a, ok := m.store.Area(m.sel.ID); ok {
			d.AreaOutline, d.AreaWidth, d.AreaColor, d.FillOpacity = a.Outline, a.Width, a.Color, a.FillOpacity
		}
	case KindText:
		if t, ok := m.store.Text(m.sel.ID); ok {
			d.Text = t.Style
		}
	}
}

// Copy stores a deep copy of the selection in the clipboard slot,
// replacing its previous content.
func (m *Markup) Copy() bool {
	c, ok := m.snapshot(m.sel)
	if !ok {
		return false
	}
	m.clip = c
	return true
}

// Cut copies the selection and then deletes it.
func (m *Markup) Cut() bool {
	if !m.Copy() {
		return false
	}
	return m.DeleteSelected()
}

// Paste inserts a copy of the clipboard content with a fresh id, shifted
// by PasteOffset, and selects it.
func (m *Markup) Paste() (Selection, bool) {
	if m.clip.kind == KindNone {
		return NoSelection, false
	}
	return m.insertCopy(m.clip), true
}

// Duplicate behaves like Copy followed by Paste but leaves the clipboard
// slot untouched.
func (m *Markup) Duplicate() (Selection, bool) {
	c, ok := m.snapshot(m.sel)
	if !ok {
		return NoSelection, false
	}
	return m.insertCopy(c), true
}

// DeleteSelected removes the selected annotation, clears the selection and
// leaves text edit mode. With nothing selected it does nothing.
func (m *Markup) DeleteSelected() bool {
	if m.sel.IsNone() {
		return false
	}
	removed := m.store.Remove(m.sel.Kind, m.sel.ID)
	if m.editing == m.sel.ID {
		m.editing = ""
	}
	m.sel = NoSelection
	return removed
}

// BeginTextEdit puts the given text box in edit mode and selects it. Any
// other box leaves edit mode.
func (m *Markup) BeginTextEdit(id ID) bool {
	if !m.store.Has(KindText, id) {
		return false
	}
	m.Select(SelectText(id))
	m.editing = id
	return true
}

func (m *Markup) EndTextEdit() {
	m.editing = ""
}

// SetText replaces the content of a text box.
func (m *Markup) SetText(id ID, text string) bool {
	return m.store.UpdateText(id, func(t *TextBox) { t.Text = text })
}

// TypeRune appends r to the box being edited.
func (m *Markup) TypeRune(r rune) bool {
	if m.editing == "" {
		return false
	}
	return m.store.UpdateText(m.editing, func(t *TextBox) { t.Text += string(r) })
}

// EraseRune removes the last rune of the box being edited.
func (m *Markup) EraseRune() bool {
	if m.editing == "" {
		return false
	}
	return m.store.UpdateText(m.editing, func(t *TextBox) {
		_, size := utf8.DecodeLastRuneInString(t.Text)
		t.Text = t.Text[:len(t.Text)-size]
	})
}

func (m *Markup) snapshot(sel Selection) (clipboard, bool) {
	switch sel.Kind {
	case KindLine:
		if l, ok := m.store.Line(sel.ID); ok {
			return clipboard{kind: KindLine, line: l}, true
		}
	case KindArea:
		if a, ok := m.store.Area(sel.ID); ok {
			return clipboard{kind: KindArea, area: a}, true
		}
	case KindText:
		if t, ok := m.store.Text(sel.ID); ok {
			return clipboard{kind: KindText, text: t}, true
		}
	}
	return clipboard{}, false
}

func (m *Markup) insertCopy(c clipboard) Selection {
	id := m.ids.NewID()
	var sel Selection
	switch c.kind {
	case KindLine:
		l := c.line.Clone()
		l.ID = id
		l.X1, l.Y1 = shift(l.X1), shift(l.Y1)
		l.X2, l.Y2 = shift(l.X2), shift(l.Y2)
		m.store.AddLine(l)
		sel = SelectLine(id)
	case KindArea:
		a := c.area.Clone()
		a.ID = id
		for i, p := range a.Points {
			a.Points[i] = Point{shift(p.X), shift(p.Y)}
		}
		m.store.AddArea(a)
		sel = SelectArea(id)
	case KindText:
		t := c.text.Clone()
		t.ID = id
		t.X, t.Y = shift(t.X), shift(t.Y)
		m.store.AddText(t)
		sel = SelectText(id)
	}
	m.Select(sel)
	return sel
}

func shift(v float64) float64 {
	return math.Min(v+PasteOffset, 1)
}
