// Package api exposes the interview over HTTP. Handlers are thin: the
// store holds the transcript, the orchestrator runs the turn, and the
// profile is always recomputed from the stored utterances.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/allyhealth/previsit/internal/extract"
	"github.com/allyhealth/previsit/internal/orchestrator"
	"github.com/allyhealth/previsit/internal/store"
	"github.com/allyhealth/previsit/internal/transcript"
)

// Store is the persistence surface the handlers need.
type Store interface {
	CreateSession(ctx context.Context) (store.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (store.Session, error)
	CloseSession(ctx context.Context, id uuid.UUID) error
	AppendUtterance(ctx context.Context, sessionID uuid.UUID, u transcript.Utterance) error
	ListUtterances(ctx context.Context, sessionID uuid.UUID) ([]transcript.Utterance, error)
	SaveProfile(ctx context.Context, sessionID uuid.UUID, p extract.PatientProfile) error
}

// Publisher emits turn events. A nil Publisher disables publishing.
type Publisher interface {
	Publish(subject string, data any) error
}

type Server struct {
	router *chi.Mux
	port   int
	store  Store
	orch   *orchestrator.Orchestrator
	events Publisher
	logger *slog.Logger
}

func NewServer(port int, st Store, orch *orchestrator.Orchestrator, events Publisher, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		store:  st,
		orch:   orch,
		events: events,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/{id}", s.getSession)
		r.Post("/{id}/messages", s.postMessage)
		r.Get("/{id}/profile", s.getProfile)
		r.Get("/{id}/report.pdf", s.getReport)
	})

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
