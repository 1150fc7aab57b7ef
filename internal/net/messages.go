package net

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"unicode/utf8"

	"seehuhn.de/go/geom/vec"

	"PageMarkup/internal/editor"
	"PageMarkup/internal/render"
	"PageMarkup/internal/state"
)

// Message is one client request. Type selects the operation; only the
// fields that operation needs are read.
type Message struct {
	Type string `json:"type"`

	Data []byte  `json:"data,omitempty"` // load
	Page int     `json:"page,omitempty"` // page
	Zoom float64 `json:"zoom,omitempty"` // zoom
	Tool string  `json:"tool,omitempty"` // tool

	// pointer_* and double_click
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	ScreenX float64 `json:"screen_x,omitempty"`
	ScreenY float64 `json:"screen_y,omitempty"`

	Key   string            `json:"key,omitempty"`  // key
	Rune  string            `json:"rune,omitempty"` // rune
	Style *state.StyleChange `json:"style,omitempty"`
}

// Frame answers every message with the editor state after it was applied.
type Frame struct {
	Type       string          `json:"type"`
	Page       int             `json:"page"`
	PageCount  int             `json:"page_count"`
	Zoom       float64         `json:"zoom"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Tool       string          `json:"tool"`
	Selection  state.Selection `json:"selection"`
	Editing    state.ID        `json:"editing,omitempty"`
	Defaults   state.Defaults  `json:"defaults"`
	Changed    bool            `json:"changed"`
	Primitives []Primitive     `json:"primitives"`
	Error      string          `json:"error,omitempty"`
}

// Primitive is the wire form of a render.Primitive.
type Primitive struct {
	Kind       string           `json:"kind"` // stroke, fill, label or handle
	Points     [][2]float64     `json:"points,omitempty"`
	Width      float64          `json:"width,omitempty"`
	Color      string           `json:"color,omitempty"`
	Rect       *[4]float64      `json:"rect,omitempty"`
	Text       string           `json:"text,omitempty"`
	Style      *state.TextStyle `json:"style,omitempty"`
	Background string           `json:"background,omitempty"`
	Editing    bool             `json:"editing,omitempty"`
	Radius     float64          `json:"radius,omitempty"`
}

const (
	TypeFrame = "frame"
	TypeError = "error"
)

var errUnknownMessage = errors.New("unknown message type")

// apply runs msg against ed. The boolean reports whether anything changed.
func apply(ctx context.Context, ed *editor.Editor, msg Message) (bool, error) {
	ev := editor.PointerEvent{X: msg.X, Y: msg.Y, ScreenX: msg.ScreenX, ScreenY: msg.ScreenY}
	switch msg.Type {
	case "load":
		_, err := ed.LoadDocument(ctx, msg.Data)
		return err == nil, err
	case "page":
		_, ok, err := ed.GoToPage(ctx, msg.Page)
		return ok, err
	case "zoom":
		_, ok, err := ed.SetZoom(ctx, msg.Zoom)
		return ok, err
	case "tool":
		t, err := editor.ParseTool(msg.Tool)
		if err != nil {
			return false, err
		}
		ed.SetTool(t)
		return true, nil
	case "pointer_down":
		ed.PointerDown(ev)
		return true, nil
	case "pointer_move":
		ed.PointerMove(ev)
		return true, nil
	case "pointer_up":
		ed.PointerUp(ev)
		return true, nil
	case "pointer_leave":
		ed.PointerLeave()
		return true, nil
	case "double_click":
		return ed.DoubleClick(ev), nil
	case "key":
		return ed.KeyDown(editor.Key(msg.Key)), nil
	case "rune":
		r, size := utf8.DecodeRuneInString(msg.Rune)
		if size == 0 || r == utf8.RuneError {
			return false, fmt.Errorf("invalid rune %q", msg.Rune)
		}
		return ed.TypeRune(r), nil
	case "style":
		if msg.Style == nil {
			return false, errors.New("style message without style")
		}
		return true, ed.ApplyStyle(*msg.Style)
	case "copy":
		return ed.Copy(), nil
	case "cut":
		return ed.Cut(), nil
	case "paste":
		return ed.Paste(), nil
	case "duplicate":
		return ed.Duplicate(), nil
	case "delete":
		return ed.Delete(), nil
	}
	return false, fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
}

// frame captures the editor state for the client.
func frame(ed *editor.Editor, changed bool) Frame {
	m := ed.Markup()
	size := ed.Canvas()
	f := Frame{
		Type:      TypeFrame,
		Page:      ed.Page(),
		PageCount: ed.PageCount(),
		Zoom:      ed.Zoom(),
		Width:     size.W,
		Height:    size.H,
		Tool:      ed.Tool().String(),
		Selection: m.Selection(),
		Editing:   m.Editing(),
		Defaults:  m.Defaults(),
		Changed:   changed,
	}
	for _, p := range render.Build(m, size, render.DefaultOptions()) {
		f.Primitives = append(f.Primitives, wirePrimitive(p))
	}
	return f
}

func wirePrimitive(p render.Primitive) Primitive {
	switch p := p.(type) {
	case render.Stroke:
		return Primitive{Kind: "stroke", Points: points(p.Points), Width: p.Width, Color: hexColor(p.Color)}
	case render.Fill:
		return Primitive{Kind: "fill", Points: points(p.Polygon), Color: hexColor(p.Color)}
	case render.Label:
		style := p.Style
		w := Primitive{
			Kind:    "label",
			Rect:    &[4]float64{p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H},
			Text:    p.Text,
			Style:   &style,
			Color:   hexColor(p.Color),
			Editing: p.Editing,
		}
		if p.Background.A > 0 {
			w.Background = hexColor(p.Background)
		}
		return w
	case render.Handle:
		return Primitive{Kind: "handle", Points: [][2]float64{{p.Center.X, p.Center.Y}}, Radius: p.Radius, Color: hexColor(p.Color)}
	}
	return Primitive{}
}

func points(ps []vec.Vec2) [][2]float64 {
	res := make([][2]float64, len(ps))
	for i, p := range ps {
		res[i] = [2]float64{p.X, p.Y}
	}
	return res
}

// hexColor formats c as "#rrggbbaa".
func hexColor(c color.NRGBA) string {
	return "#" + hex.EncodeToString([]byte{c.R, c.G, c.B, c.A})
}
