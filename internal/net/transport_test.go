package net

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PageMarkup/internal/editor"
	"PageMarkup/internal/state"
	"PageMarkup/internal/viewport"
)

const (
	timeout = 2 * time.Second
	tick    = 20 * time.Millisecond
)

func startServer(t *testing.T, opts ...editor.Option) (*Server, string) {
	t.Helper()
	opts = append([]editor.Option{editor.WithIDs(state.NewCounter("n"))}, opts...)
	s := NewServer(editor.New(opts...), zerolog.Nop())
	hs := httptest.NewServer(s.Handler())
	t.Cleanup(hs.Close)
	return s, "ws" + strings.TrimPrefix(hs.URL, "http") + Path
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg Message) Frame {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestPointerSequenceProducesFrame(t *testing.T) {
	_, url := startServer(t, editor.WithCanvasSize(800, 400))
	conn := dial(t, url)

	f := send(t, conn, Message{Type: "tool", Tool: "line"})
	assert.Equal(t, TypeFrame, f.Type)
	assert.Equal(t, "line", f.Tool)

	send(t, conn, Message{Type: "pointer_down", X: 100, Y: 100, ScreenX: 100, ScreenY: 100})
	send(t, conn, Message{Type: "pointer_move", X: 300, Y: 100, ScreenX: 300, ScreenY: 100})
	f = send(t, conn, Message{Type: "pointer_up", X: 300, Y: 100, ScreenX: 300, ScreenY: 100})

	assert.Equal(t, state.KindLine, f.Selection.Kind)
	assert.NotEmpty(t, f.Selection.ID)
	assert.Equal(t, 800.0, f.Width)

	var kinds []string
	for _, p := range f.Primitives {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []string{"stroke", "handle", "handle"}, kinds)
	assert.Equal(t, [][2]float64{{100, 100}, {300, 100}}, f.Primitives[0].Points)
	assert.Equal(t, "#e53935ff", f.Primitives[0].Color)

	f = send(t, conn, Message{Type: "style", Style: &state.StyleChange{Field: state.FieldLineColor, Value: "#00ff00"}})
	assert.Equal(t, "#00ff00ff", f.Primitives[0].Color)
	assert.Equal(t, state.Color("#00ff00"), f.Defaults.LineColor)

	f = send(t, conn, Message{Type: "duplicate"})
	assert.True(t, f.Changed)
	f = send(t, conn, Message{Type: "delete"})
	assert.True(t, f.Changed)
	f = send(t, conn, Message{Type: "delete"})
	assert.False(t, f.Changed)
	assert.Equal(t, state.KindNone, f.Selection.Kind)
}

func TestTextEditingOverWire(t *testing.T) {
	_, url := startServer(t, editor.WithCanvasSize(800, 600), editor.WithTool(editor.ToolText))
	conn := dial(t, url)

	send(t, conn, Message{Type: "pointer_down", X: 100, Y: 100, ScreenX: 100, ScreenY: 100})
	send(t, conn, Message{Type: "pointer_up", X: 100, Y: 100, ScreenX: 100, ScreenY: 100})
	f := send(t, conn, Message{Type: "double_click", X: 110, Y: 110, ScreenX: 110, ScreenY: 110})
	require.NotEmpty(t, f.Editing)

	send(t, conn, Message{Type: "rune", Rune: "o"})
	send(t, conn, Message{Type: "rune", Rune: "k"})
	f = send(t, conn, Message{Type: "key", Key: string(editor.KeyDelete)})

	require.Len(t, f.Primitives, 3)
	assert.Equal(t, "label", f.Primitives[0].Kind)
	assert.Equal(t, "ok", f.Primitives[0].Text)
}

func TestErrorsAreReported(t *testing.T) {
	_, url := startServer(t)
	conn := dial(t, url)

	f := send(t, conn, Message{Type: "teleport"})
	assert.Equal(t, TypeError, f.Type)
	assert.Contains(t, f.Error, "teleport")

	f = send(t, conn, Message{Type: "tool", Tool: "lasso"})
	assert.Equal(t, TypeError, f.Type)
	assert.Equal(t, "select", f.Tool)

	f = send(t, conn, Message{Type: "load", Data: []byte("nope")})
	assert.Equal(t, TypeError, f.Type)
}

func TestLoadDocument(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, url := startServer(t, editor.WithViewport(viewport.NewImageDocument(zerolog.Nop())))
	conn := dial(t, url)

	f := send(t, conn, Message{Type: "load", Data: buf.Bytes()})
	require.Equal(t, TypeFrame, f.Type, f.Error)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 1, f.PageCount)
	assert.Equal(t, 120.0, f.Width)

	f = send(t, conn, Message{Type: "zoom", Zoom: 2})
	assert.True(t, f.Changed)
	assert.Equal(t, 240.0, f.Width)

	f = send(t, conn, Message{Type: "page", Page: 3})
	assert.Equal(t, TypeFrame, f.Type)
	assert.False(t, f.Changed)
}

func TestSecondClientRefused(t *testing.T) {
	_, url := startServer(t)
	first := dial(t, url)
	send(t, first, Message{Type: "copy"})

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, first.Close())
	assert.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		c.Close()
		return true
	}, timeout, tick)
}

func TestOversizedMessageClosesConnection(t *testing.T) {
	s := NewServer(editor.New(editor.WithIDs(state.NewCounter("n"))), zerolog.Nop())
	s.ReadLimit = 1024
	hs := httptest.NewServer(s.Handler())
	t.Cleanup(hs.Close)
	url := "ws" + strings.TrimPrefix(hs.URL, "http") + Path
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(Message{Type: "load", Data: make([]byte, 4096)}))
	var f Frame
	assert.Error(t, conn.ReadJSON(&f))

	// the slot is released and a new client can talk to the editor
	assert.Eventually(t, func() bool {
		next, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		defer next.Close()
		return next.WriteJSON(Message{Type: "tool", Tool: "text"}) == nil && next.ReadJSON(&f) == nil
	}, timeout, tick)
	assert.Equal(t, "text", f.Tool)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "ws://10.0.0.2:8899/ws", URL("10.0.0.2", 8899))
	assert.Equal(t, "ws://[::1]:80/ws", URL("::1", 80))
}
