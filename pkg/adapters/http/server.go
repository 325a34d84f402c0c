package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/history"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine defines the part of the Parley engine the server drives.
type Engine interface {
	Load(ctx context.Context, id string) (*domain.Dialogue, error)
	Dialogues(ctx context.Context) ([]string, error)
	StartWithDefaultParticipants(ctx context.Context, d *domain.Dialogue, pool ports.ParticipantPool) (*runtime.Context, error)
	DialogueHistory() map[uuid.UUID]domain.History
	ClearDialogueHistory()
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves the session API.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager

	syncer   *history.Syncer
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithManager shares a session manager, for example one using a distributed locker.
func WithManager(m *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = m
	}
}

// WithSyncer persists the global visitation memory after every move.
func WithSyncer(syncer *history.Syncer) Option {
	return func(s *Server) {
		s.syncer = syncer
	}
}

// WithGatherer sets what /metrics exposes. Defaults to the Prometheus default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a server for engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Streams:  NewStreamManager(),
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Sessions == nil {
		s.Sessions = session.NewManager(session.WithLogger(s.logger))
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Handler()
}

// Handler returns the router with CORS enabled.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/dialogues", s.ListDialogues)
	r.Get("/events", s.SubscribeReloads)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/choose", s.Choose)
			r.Post("/reevaluate", s.Reevaluate)
			r.Get("/events", s.SubscribeSession)
		})
	})
	r.Get("/history", s.GetHistory)
	r.Delete("/history", s.ClearHistory)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"app":     "parley-http",
		"version": strings.TrimSpace(s.version),
	})
}

// ListDialogues handles the GET /dialogues request.
func (s *Server) ListDialogues(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Dialogues(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("list dialogues: %w", err))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateRequest is the body of POST /sessions. Participants override the
// declared defaults of the dialogue by name.
type CreateRequest struct {
	Dialogue     string                   `json:"dialogue"`
	Participants []domain.ParticipantData `json:"participants,omitempty"`
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Dialogue == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("dialogue is required"))
		return
	}

	ctx := r.Context()
	d, err := s.Engine.Load(ctx, body.Dialogue)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	c, err := s.Engine.StartWithDefaultParticipants(ctx, d, poolFor(d, body.Participants))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	id := s.Sessions.Add(c)
	s.logger.InfoContext(ctx, "session started", "session_id", id, "dialogue", d.Name())
	s.flush(ctx)

	s.writeJSON(w, http.StatusCreated, snapshot(ctx, id, c))
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.List())
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view SessionView
	err := s.Sessions.WithSession(r.Context(), id, func(ctx context.Context, c *runtime.Context) error {
		view = snapshot(ctx, id, c)
		return nil
	})
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Get(id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChooseRequest is the body of POST /sessions/{id}/choose.
type ChooseRequest struct {
	Option  int  `json:"option"`
	FromAll bool `json:"from_all,omitempty"`
}

// Choose handles the POST /sessions/{id}/choose request.
// A rejected choice ends the session and answers 409 with its final snapshot.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	var body ChooseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.move(w, r, func(ctx context.Context, c *runtime.Context) bool {
		if body.FromAll {
			return c.ChooseOptionFromAll(ctx, body.Option)
		}
		return c.ChooseOption(ctx, body.Option)
	})
}

// Reevaluate handles the POST /sessions/{id}/reevaluate request.
func (s *Server) Reevaluate(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, func(ctx context.Context, c *runtime.Context) bool {
		if c.IsEnded() {
			return false
		}
		return c.ReevaluateChildren(ctx)
	})
}

func (s *Server) move(w http.ResponseWriter, r *http.Request, step func(context.Context, *runtime.Context) bool) {
	id := chi.URLParam(r, "id")
	var (
		view SessionView
		ok   bool
	)
	err := s.Sessions.WithSession(r.Context(), id, func(ctx context.Context, c *runtime.Context) error {
		ok = step(ctx, c)
		view = snapshot(ctx, id, c)
		return nil
	})
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.flush(r.Context())
	s.broadcast(id, view)

	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	s.writeJSON(w, status, view)
}

// GetHistory handles the GET /history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]domain.History)
	for id, h := range s.Engine.DialogueHistory() {
		out[id.String()] = h
	}
	s.writeJSON(w, http.StatusOK, out)
}

// ClearHistory handles the DELETE /history request.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	s.Engine.ClearDialogueHistory()
	if s.syncer != nil {
		if err := s.syncer.Clear(r.Context()); err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Errorf("clear stored history: %w", err))
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) flush(ctx context.Context) {
	if s.syncer == nil {
		return
	}
	if err := s.syncer.Flush(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist dialogue history", "err", err)
	}
}

func (s *Server) broadcast(id string, view SessionView) {
	data, err := json.Marshal(view)
	if err != nil {
		s.logger.Error("failed to encode session snapshot", "session_id", id, "err", err)
		return
	}
	s.Streams.Broadcast(id, string(data))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Warn("request rejected", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDialogueNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidParticipants), errors.Is(err, domain.ErrNoSatisfiedEntry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// poolFor fabricates participants from the dialogue declarations, replacing
// those the request overrides.
func poolFor(d *domain.Dialogue, overrides []domain.ParticipantData) *memory.Pool {
	if len(overrides) == 0 {
		return memory.PoolFromDialogue(d)
	}
	byName := make(map[string]domain.ParticipantData, len(overrides))
	for _, o := range overrides {
		byName[o.Name] = o
	}
	pool := memory.NewPool()
	for _, name := range d.ParticipantNames() {
		if o, ok := byName[name]; ok {
			pool.Add(memory.FromData(o))
			continue
		}
		data, _ := d.ParticipantData(name)
		pool.Add(memory.FromData(data))
	}
	return pool
}
