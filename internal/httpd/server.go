// Package httpd implements the HTTP intake server that maps structured
// send requests onto the message composer.
package httpd

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sehwan/mailgate/internal/compose"
	"github.com/sehwan/mailgate/internal/transport"
)

// shutdownTimeout is the maximum time to wait for in-flight requests
// during graceful shutdown.
const shutdownTimeout = 30 * time.Second

// defaultMaxBodySize is applied when the config leaves MaxBodySize unset.
const defaultMaxBodySize = 1048576

// ServerConfig holds the configuration for the intake server.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":8080").
	ListenAddr string

	// Sender is the process-wide sender identity stamped onto every message.
	Sender compose.Sender

	// Transport is the delivery backend shared by all requests.
	Transport transport.Transport

	// AuthToken enables bearer-token authentication when non-empty.
	AuthToken string

	// MaxBodySize limits request body size in bytes.
	MaxBodySize int64

	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config
}

// Server is the HTTP intake server. It owns no message state; each
// request gets a fresh single-use builder.
type Server struct {
	config   ServerConfig
	auth     *Authenticator
	handler  http.Handler
	listener net.Listener
}

// New creates a new intake Server with the given configuration.
func New(cfg ServerConfig) *Server {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}

	s := &Server{
		config: cfg,
		auth:   NewAuthenticator(cfg.AuthToken),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/v1/messages", s.handleSendMessage)
	})

	return r
}

// ListenAndServe starts the intake server and blocks until the context is
// cancelled. On cancellation it stops accepting new connections and waits
// up to 30 seconds for in-flight requests to complete.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	if s.config.TLSConfig != nil {
		ln = tls.NewListener(ln, s.config.TLSConfig)
	}
	s.listener = ln

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("HTTP server listening",
		"addr", ln.Addr().String(),
		"transport", s.config.Transport.Name(),
		"auth_enabled", s.auth.Enabled(),
		"tls_enabled", s.config.TLSConfig != nil,
	)

	// Monitor context for shutdown
	go func() {
		<-ctx.Done()
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown timeout reached, forcing close", "error", err)
			srv.Close()
		}
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler exposes the routed handler, used for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listener address, or empty string if not listening.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// requestLogger logs one line per request through the global slog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
