// Package server exposes the answering service over HTTP. It speaks the same
// wire protocol the chat client uses: POST /chat with {query, topic,
// difficulty} returning {answer, sources}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/pigeonic/banglachat/internal/answer"
	"github.com/pigeonic/banglachat/internal/catalog"
	"github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/llm"
)

const maxBodyBytes = 64 << 10

// Answerer produces a reply for a validated request.
type Answerer interface {
	Answer(ctx context.Context, req chat.Request) (*chat.Response, error)
}

// Server routes HTTP requests to an Answerer.
type Server struct {
	answerer Answerer
	origins  []string
	timeout  time.Duration
	logger   zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithOrigins sets the origins allowed by CORS. "*" allows any.
func WithOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithTimeout bounds the time spent answering one request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithLogger sets the request logger. Defaults to the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server.
func New(a Answerer, opts ...Option) *Server {
	s := &Server{
		answerer: a,
		origins:  []string{"*"},
		timeout:  60 * time.Second,
		logger:   log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(cors(s.origins))

	r.Post("/chat", s.handleChat)
	r.Get("/topics", s.handleTopics)
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, answer.ErrEmptyQuery.Error())
		return
	}
	if _, _, err := answer.Normalize(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	resp, err := s.answerer.Answer(ctx, req)
	if err != nil {
		status := statusFor(err)
		hlog.FromRequest(r).Error().Err(err).Int("status", status).Msg("answer failed")
		writeError(w, status, http.StatusText(status))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type topicView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type difficultyView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type topicsResponse struct {
	Topics       []topicView      `json:"topics"`
	Difficulties []difficultyView `json:"difficulties"`
	Default      string           `json:"default_topic"`
}

func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	var out topicsResponse
	for _, t := range catalog.Topics() {
		out.Topics = append(out.Topics, topicView{ID: t.ID, Label: t.Label, Icon: t.Icon})
	}
	for _, d := range catalog.Difficulties() {
		out.Difficulties = append(out.Difficulties, difficultyView{ID: string(d), Label: d.Label()})
	}
	out.Default = catalog.DefaultTopicLabel
	writeJSON(w, http.StatusOK, out)
}

// statusFor maps answering errors to HTTP statuses.
func statusFor(err error) int {
	var (
		rl  *llm.RateLimitError
		bad *llm.RequestError
	)
	switch {
	case errors.Is(err, answer.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &rl):
		return http.StatusServiceUnavailable
	case errors.As(err, &bad):
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
