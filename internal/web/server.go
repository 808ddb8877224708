package web

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/metrics"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/store"
	"github.com/stormlightlabs/docsift/internal/suggest"
)

// Backend is the query surface the API reads from.
type Backend interface {
	NewQuery(text string) search.Query
	Search(q search.Query) []search.Result
	Suggest(partial string, limit int) []suggest.Suggestion
	Alternatives(text string, limit int) []string
	Stats() store.Stats
	Documents() []*index.Document
	Document(path string) (*index.Document, bool)
}

// Server serves the JSON search API.
type Server struct {
	backend Backend
	metrics *metrics.Registry
	router  *http.ServeMux
	addr    string
}

// NewServer creates a new instance of the API server. reg may be nil, in
// which case /metrics is not mounted.
func NewServer(backend Backend, reg *metrics.Registry, addr string) *Server {
	s := &Server{
		backend: backend,
		metrics: reg,
		router:  http.NewServeMux(),
		addr:    addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /api/search", s.handleAPISearch)
	s.router.HandleFunc("GET /api/suggest", s.handleAPISuggest)
	s.router.HandleFunc("GET /api/stats", s.handleAPIStats)
	s.router.HandleFunc("GET /api/docs", s.handleAPIDocuments)
	s.router.HandleFunc("GET /api/docs/{path...}", s.handleAPIDocument)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Handler returns the router wrapped with request metrics.
func (s *Server) Handler() http.Handler {
	return withMetrics(s.metrics, s.router)
}

// Start runs the HTTP server until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("API listening", "url", "http://"+s.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
