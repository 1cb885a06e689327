package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/selene-notes/selene/pkg/service/relay"
	"github.com/selene-notes/selene/pkg/usecase"
	"github.com/selene-notes/selene/pkg/utils/errutil"
	"github.com/selene-notes/selene/pkg/utils/logging"
	"github.com/selene-notes/selene/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	hub    *relay.Hub
}

type Options func(*Server)

// WithRelayHub enables the websocket endpoint backed by the given hub
func WithRelayHub(hub *relay.Hub) Options {
	return func(s *Server) {
		s.hub = hub
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/transcriptions", func(r chi.Router) {
			r.Post("/", s.handleCreateNote)
			r.Get("/", s.handleGetNote)
			r.Put("/", s.handleUpdateNote)
			r.Delete("/", s.handleDeleteNote)
		})
		r.Get("/library", s.handleLibrary)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/process-photo", s.handleProcessPhoto)
		r.Get("/business-cards", s.handleListCards)
	})

	if s.hub != nil {
		r.Get("/ws", s.handleWebSocket)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// respondJSON marshals v and writes it with the given status code
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// respondError maps use case sentinel errors to HTTP status codes
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, usecase.ErrNoteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrEmptyText),
		errors.Is(err, usecase.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoTextDetected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrTranscriberUnavailable),
		errors.Is(err, usecase.ErrAnalyzerUnavailable),
		errors.Is(err, usecase.ErrCardScannerUnavailable):
		status = http.StatusServiceUnavailable
	}

	errutil.HandleHTTP(r.Context(), w, err, status)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
