// Package web plays Dodge in the browser: one session per websocket,
// simulated on the server and streamed to an embedded canvas page.
package web

import (
	"context"
	_ "embed"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/store"
)

// Connection timing.
const (
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	pingInterval   = 25 * time.Second
	maxMessageSize = 4096
	inboxSize      = 64
)

// DefaultProfile is used when the page does not name one.
const DefaultProfile = "web"

//go:embed index.html
var indexHTML string

// HandlerOptions configures a Handler. Zero values select defaults.
type HandlerOptions struct {
	Store   store.Store // In-memory when nil
	Logger  *log.Logger
	NewGame func() *session.Session // A default session when nil

	// Context ends every connection with a shutdown notice when cancelled.
	Context context.Context

	// CheckOrigin overrides the same-origin check of the websocket upgrade.
	CheckOrigin func(r *http.Request) bool
}

// Handler upgrades requests to websockets and runs one game per connection.
type Handler struct {
	store    store.Store
	logger   *log.Logger
	newGame  func() *session.Session
	ctx      context.Context
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket game handler.
func NewHandler(opts HandlerOptions) *Handler {
	h := &Handler{
		store:   opts.Store,
		logger:  opts.Logger,
		newGame: opts.NewGame,
		ctx:     opts.Context,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
	if h.store == nil {
		h.store = store.NewMemoryStore()
	}
	if h.logger == nil {
		h.logger = log.Default()
	}
	if h.newGame == nil {
		h.newGame = func() *session.Session { return session.New(session.Options{}) }
	}
	if h.ctx == nil {
		h.ctx = context.Background()
	}
	return h
}

// ServeHTTP plays one game over the upgraded connection. The profile query
// parameter selects whose settings and best score are used.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profile")
	if profile == "" {
		profile = DefaultProfile
	}
	if err := store.ValidateProfile(profile); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer ws.Close()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	logger := h.logger.With("profile", profile, "remote", r.RemoteAddr)
	logger.Info("Player connected")

	p := newPlayer(ws, h.newGame(), h.store, profile, logger)

	inbox := make(chan Envelope, inboxSize)
	done := make(chan struct{})
	defer close(done)
	go readLoop(ws, inbox, done, logger)

	if err := p.run(h.ctx, inbox); err != nil {
		logger.Info("Player disconnected", "err", err)
		return
	}
	logger.Info("Player left")
}

// readLoop forwards decoded messages to inbox until the connection fails or
// done is closed. Malformed messages are dropped.
func readLoop(ws *websocket.Conn, inbox chan<- Envelope, done <-chan struct{}, logger *log.Logger) {
	defer close(inbox)
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Read failed", "err", err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		env, err := DecodeEnvelope(msg)
		if err != nil {
			logger.Debug("Dropping malformed message", "err", err)
			continue
		}
		select {
		case inbox <- env:
		case <-done:
			return
		}
	}
}

// PageHandler serves the game page. sshHost fills in the terminal hint.
func PageHandler(sshHost string) http.HandlerFunc {
	page := strings.ReplaceAll(indexHTML, "{{.SSHHost}}", sshHost)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}
}

// NewMux routes the page and the websocket endpoint.
func NewMux(h *Handler, sshHost string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", h)
	mux.Handle("GET /{$}", PageHandler(sshHost))
	return mux
}
