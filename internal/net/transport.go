// Package net exposes an editor to a single remote client over a
// websocket and advertises it on the local network.
package net

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"PageMarkup/internal/editor"
)

// Path is where the websocket endpoint is mounted.
const Path = "/ws"

// MaxMessageSize is the default read limit of a connection. A load
// message carries the document base64 encoded.
const MaxMessageSize = 64 << 20

// Server drives one editor from one websocket client at a time. Messages
// are applied in arrival order and every message is answered before the
// next one is read.
type Server struct {
	ed  *editor.Editor
	mu  sync.Mutex // guards ed
	log zerolog.Logger

	upgrader websocket.Upgrader
	busy     atomic.Bool

	// ReadLimit caps the size of one incoming message; a larger message
	// closes the connection.
	ReadLimit int64
}

func NewServer(ed *editor.Editor, log zerolog.Logger) *Server {
	return &Server{
		ed:  ed,
		log: log.With().Str("component", "transport").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ReadLimit: MaxMessageSize,
	}
}

// Handler returns the HTTP handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveWS)
	return mux
}

// Do runs fn with exclusive access to the editor.
func (s *Server) Do(fn func(*editor.Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ed)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	if !s.busy.CompareAndSwap(false, true) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("refusing second client")
		http.Error(w, "another client is connected", http.StatusConflict)
		return
	}
	defer s.busy.Store(false)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.ReadLimit)
	s.log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	s.serveConn(r.Context(), conn)

	// the next client starts without a dangling gesture
	s.Do(func(ed *editor.Editor) { ed.PointerLeave() })
	s.log.Info().Str("remote", r.RemoteAddr).Msg("client disconnected")
}

func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		var reply Frame
		s.Do(func(ed *editor.Editor) {
			changed, err := apply(ctx, ed, msg)
			reply = frame(ed, changed)
			if err != nil {
				s.log.Debug().Err(err).Str("type", msg.Type).Msg("message failed")
				reply.Type = TypeError
				reply.Error = err.Error()
			}
		})
		if err := conn.WriteJSON(reply); err != nil {
			s.log.Debug().Err(err).Msg("write failed")
			return
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled. The returned
// channel receives the bound port once the listener is up.
func (s *Server) ListenAndServe(ctx context.Context, addr string, bound chan<- int) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	if bound != nil {
		bound <- port
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// URL formats the websocket address of a server reachable at host:port.
func URL(host string, port int) string {
	return "ws://" + net.JoinHostPort(host, strconv.Itoa(port)) + Path
}
