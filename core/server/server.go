// Package server exposes the turn orchestrator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
	"golang.org/x/sync/errgroup"
)

// LivenessMessage is served on GET /.
const LivenessMessage = "Mandacaru.ai API is running 🌵"

// Turner runs one conversational turn.
type Turner interface {
	Turn(ctx context.Context, history conversation.History) ([]conversation.Message, error)
}

// Config configures the HTTP server
type Config struct {
	Addr            string        // Default: ":8000"
	AllowedOrigins  []string      // CORS allow-list
	ReadTimeout     time.Duration // Default: 30s
	WriteTimeout    time.Duration // Default: 5m, must cover two generation calls
	ShutdownTimeout time.Duration // Default: 10s
	MaxBodyBytes    int64         // Default: 1 MiB
	Logger          *slog.Logger  // Optional, uses slog.Default() if nil
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:            ":8000",
		AllowedOrigins:  []string{"http://localhost:3000"},
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages []conversation.Message `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type livenessResponse struct {
	Message string `json:"message"`
}

// Server serves POST /chat and GET /.
type Server struct {
	config Config
	turner Turner
	logger *slog.Logger
}

// New creates a server in front of turner.
func New(turner Turner, cfg Config) *Server {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Server{
		config: cfg,
		turner: turner,
		logger: cfg.Logger,
	}
}

// Handler returns the routed handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/chat", s.handleChat)

	return s.withRequestID(s.withCORS(mux))
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then drains in-flight requests for
// up to ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, livenessResponse{Message: LivenessMessage})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	history, err := s.decodeHistory(w, r)
	if err != nil {
		status := coreerrors.HTTPStatus(err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	msgs, err := s.turner.Turn(r.Context(), history)
	if err != nil {
		requestLogger(r.Context(), s.logger).Error("turn failed",
			"error", err,
			"tier", coreerrors.GetTier(err).String())
		writeJSON(w, coreerrors.HTTPStatus(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) decodeHistory(w http.ResponseWriter, r *http.Request) (conversation.History, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("payload exceeds %d bytes: %w", s.config.MaxBodyBytes, maxErr)
		}
		return nil, fmt.Errorf("%w: unable to read body: %v", coreerrors.ErrInvalidInput, err)
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", coreerrors.ErrInvalidInput, err)
	}

	history := conversation.History(req.Messages)
	if err := history.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", coreerrors.ErrInvalidInput, err)
	}
	return history, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
