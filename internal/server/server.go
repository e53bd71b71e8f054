// Package server exposes the route engine over HTTP.
//
// Endpoints:
//
//	GET  /healthz                          readiness and graph hash
//	GET  /v1/floors                        floors present in the graph
//	GET  /v1/rooms[?floor=]                selectable rooms, sorted by name
//	GET  /v1/route?from=&to=               room-to-room route
//	GET  /v1/restroom?from=&category=M|F   nearest restroom of a category
//	GET  /v1/graph                         graph export (JSON)
//	GET  /v1/graph.dot[?floor=&from=&to=]  Graphviz export, optionally with a route
//	GET  /v1/history[?limit=]              recent queries, newest first
//	POST /v1/reload                        rebuild the graph from the floor documents
//	GET  /metrics                          Prometheus exposition
//
// Errors are returned as {"code": ..., "message": ...}. Every response
// carries an X-Request-ID header.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/floorwalk/internal/metrics"
	"github.com/matzehuels/floorwalk/pkg/history"
	"github.com/matzehuels/floorwalk/pkg/pipeline"
)

// Config wires a server to its dependencies. Only Runner is required.
type Config struct {
	Runner  *pipeline.Runner
	History history.Store
	Metrics *metrics.Metrics
	Logger  *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	history history.Store
	metrics *metrics.Metrics
	logger  *log.Logger
	router  chi.Router
}

// New creates a server and builds its routes.
func New(cfg Config) *Server {
	s := &Server{
		runner:  cfg.Runner,
		history: cfg.History,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
	if s.history == nil {
		s.history = history.NullStore{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/floors", s.handleFloors)
		r.Get("/rooms", s.handleRooms)
		r.Get("/route", s.handleRoute)
		r.Get("/restroom", s.handleRestroom)
		r.Get("/graph", s.handleGraph)
		r.Get("/graph.dot", s.handleGraphDOT)
		r.Get("/history", s.handleHistory)
		r.Post("/reload", s.handleReload)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
