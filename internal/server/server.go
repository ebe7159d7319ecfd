// Package server is the browser bridge: it serves a small page that forwards
// pointer events over a websocket, applies them to a session owned by that
// connection and answers with PNG frames of the replayed canvas.
//
// Sessions are never shared between connections.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"LocalSketch/internal/config"
	sknet "LocalSketch/internal/net"
	"LocalSketch/internal/render"
)

const (
	writeWait       = 5 * time.Second
	maxMessageSize  = 4096
	shutdownTimeout = 5 * time.Second
)

//go:embed index.html
var indexHTML []byte

// Options configures a Server.
type Options struct {
	Config config.Config
	// Fonts renders stamps. Nil selects the built-in font.
	Fonts  *render.Fonts
	Logger *log.Logger
}

// Server hosts the websocket bridge.
type Server struct {
	cfg      config.Config
	fonts    *render.Fonts
	logger   *log.Logger
	peers    *sknet.PeerManager
	upgrader websocket.Upgrader
	router   chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("server")
	s := &Server{
		cfg:    opts.Config,
		fonts:  opts.Fonts,
		logger: logger,
		peers:  sknet.NewPeerManager(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// The page may be opened through the share link of another host name.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Peers returns the live connection registry.
func (s *Server) Peers() *sknet.PeerManager { return s.peers }

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully and closes all websocket peers.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(l) }()
	s.logger.Info("listening", "addr", l.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Hijacked websocket connections are not closed by Shutdown.
	s.peers.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"peers":  s.peers.Count(),
		"canvas": map[string]int{"width": s.cfg.Canvas.Width, "height": s.cfg.Canvas.Height},
	})
}
