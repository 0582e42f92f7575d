package devtools

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reactor/pkg/reconciler"
	"github.com/vango-dev/reactor/pkg/snapshot"
)

// Source is the reconciler state the server exposes.
type Source interface {
	ID() string
	Snapshot() *reconciler.TreeSnapshot
}

// Server serves the devtools HTTP API:
//
//	GET  /healthz          liveness
//	GET  /tree             current tree snapshot as JSON
//	GET  /metrics          Prometheus metrics
//	GET  /events           websocket stream of reconciler events
//	GET  /snapshots        stored snapshots
//	POST /snapshots        store the current tree
//	GET  /snapshots/{id}   one stored snapshot
//
// The /events route needs a Hub and the /snapshots routes need a store.
type Server struct {
	source   Source
	hub      *Hub
	gatherer prometheus.Gatherer
	store    snapshot.Store
	logger   *slog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithHub streams the hub's events on /events. Register the same hub as
// the reconciler's observer.
func WithHub(h *Hub) Option {
	return func(s *Server) {
		s.hub = h
	}
}

// WithGatherer sets where /metrics reads from. Default:
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithSnapshotStore enables the /snapshots routes.
func WithSnapshotStore(store snapshot.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a devtools server for source.
func New(source Source, opts ...Option) *Server {
	s := &Server{
		source:   source,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "devtools")
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/tree", s.handleTree)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	if s.hub != nil {
		r.Method(http.MethodGet, "/events", s.hub)
	}
	if s.store != nil {
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", s.handleListSnapshots)
			r.Post("/", s.handleSaveSnapshot)
			r.Get("/{id}", s.handleLoadSnapshot)
			r.Delete("/{id}", s.handleDeleteSnapshot)
		})
	}
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.source.Snapshot())
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if infos == nil {
		infos = []snapshot.Info{}
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.Save(r.Context(), s.source.Snapshot())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("snapshot saved", "snapshot_id", id)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("snapshot deleted", "snapshot_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, snapshot.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		s.logger.Error("snapshot store error", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
