package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mymmrac/telego"
)

// SecretHeader carries the secret token Telegram echoes back on every webhook delivery.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// HealthText is served on GET /.
const HealthText = "Telegram Info Bot running"

// DefaultBufferSize is the number of accepted updates that may wait for the update loop.
const DefaultBufferSize = 256

// Config holds webhook server configuration.
type Config struct {
	Port       int
	Path       string // callback path, e.g. "/webhook"
	Secret     string // expected secret token; empty disables the check
	BufferSize int
	Debug      bool // enables per-request access logs
}

// Server receives Telegram webhook deliveries and hands them to the update loop.
// It always acknowledges a well-formed delivery before any processing happens.
type Server struct {
	cfg        Config
	updates    chan telego.Update
	router     chi.Router
	httpServer *http.Server
}

// New creates a webhook server with its own buffered update channel.
func New(cfg Config) *Server {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Path == "" {
		cfg.Path = "/webhook"
	}
	s := &Server{
		cfg:     cfg,
		updates: make(chan telego.Update, cfg.BufferSize),
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.Debug {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(HealthText))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post(s.cfg.Path, s.handleUpdate)

	return r
}

// handleUpdate acknowledges the delivery and enqueues the update without blocking.
// Only a bad secret is refused. An undecodable body is logged and acknowledged so
// Telegram does not redeliver it.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Secret != "" {
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Secret)) != 1 {
			log.Printf("[Webhook %s] Rejected delivery with invalid secret token", middleware.GetReqID(r.Context()))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	var update telego.Update
	err := json.NewDecoder(r.Body).Decode(&update)
	w.WriteHeader(http.StatusOK)
	if err != nil {
		log.Printf("[Webhook %s] Dropping undecodable update: %v", middleware.GetReqID(r.Context()), err)
		return
	}

	select {
	case s.updates <- update:
	default:
		log.Printf("[Webhook] Update buffer full, dropping update %d", update.UpdateID)
	}
}

// Updates returns the channel the update loop consumes.
func (s *Server) Updates() <-chan telego.Update { return s.updates }

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening on the configured port. It blocks until the server stops.
func (s *Server) Start() error {
	log.Printf("Webhook server listening on %s (callback path %s)", s.httpServer.Addr, s.cfg.Path)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webhook server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server. Once no request is in flight the update
// channel is closed so the update loop can drain and return.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	close(s.updates)
	return nil
}
