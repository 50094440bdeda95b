package dev

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/approute/pkg/manifest"
	"github.com/vango-dev/approute/pkg/middleware"
	"github.com/vango-dev/approute/pkg/router"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultInterval is the rescan interval used when none is configured.
const DefaultInterval = time.Second

// ServerOptions configures the development server.
type ServerOptions struct {
	// Root is the app directory to scan.
	Root string

	// Extensions are the leaf file extensions (default: router.DefaultExtensions).
	Extensions []string

	// Addr is the address to listen on (e.g. "localhost:3100").
	Addr string

	// Interval is how often Root is rescanned.
	Interval time.Duration

	// Namespace prefixes the Prometheus metrics.
	Namespace string

	// Registry receives the scanner and server metrics. A new registry is
	// created when nil.
	Registry *prometheus.Registry

	// Logger is the server logger.
	Logger *slog.Logger

	// OnChange is called after a rescan produced a different manifest.
	OnChange func(m *manifest.Manifest)
}

// snapshot is the route state served between rescans.
type snapshot struct {
	manifest *manifest.Manifest
	matcher  *router.Matcher
}

// Server serves the current route tree of an app directory and pushes
// updates to WebSocket clients.
type Server struct {
	options     ServerOptions
	scanner     *router.Scanner
	hub         *Hub
	registry    *prometheus.Registry
	logger      *slog.Logger
	current     atomic.Pointer[snapshot]
	rescans     *prometheus.CounterVec
	httpMetrics *middleware.Metrics
	mu          sync.Mutex
	httpServer  *http.Server
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	if options.Interval <= 0 {
		options.Interval = DefaultInterval
	}
	if options.Logger == nil {
		options.Logger = slog.Default().With("component", "dev")
	}
	if options.Registry == nil {
		options.Registry = prometheus.NewRegistry()
	}
	namespace := options.Namespace
	if namespace == "" {
		namespace = router.DefaultMetricsNamespace
	}

	scannerOpts := []router.ScannerOption{
		router.WithLogger(options.Logger.With("component", "scanner")),
		router.WithMetrics(router.NewMetrics(options.Registry, namespace)),
	}
	if len(options.Extensions) > 0 {
		scannerOpts = append(scannerOpts, router.WithExtensions(options.Extensions...))
	}

	s := &Server{
		options:  options,
		scanner:  router.NewScanner(options.Root, scannerOpts...),
		hub:      NewHub(options.Logger.With("component", "hub")),
		registry: options.Registry,
		logger:   options.Logger,
	}

	factory := promauto.With(options.Registry)
	s.rescans = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dev",
		Name:      "rescans_total",
		Help:      "Dev server rescans by result (changed, unchanged, error)",
	}, []string{"result"})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dev",
		Name:      "clients",
		Help:      "Connected WebSocket clients",
	}, func() float64 { return float64(s.hub.ClientCount()) })
	s.httpMetrics = middleware.NewMetrics(
		middleware.WithRegistry(options.Registry),
		middleware.WithNamespace(namespace),
	)

	return s
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Manifest returns the manifest of the last successful scan, or nil.
func (s *Server) Manifest() *manifest.Manifest {
	if snap := s.current.Load(); snap != nil {
		return snap.manifest
	}
	return nil
}

// Rescan scans the app directory and swaps in the new routes if the
// manifest changed. On failure the previous routes stay in place and the
// error is broadcast.
func (s *Server) Rescan(ctx context.Context) (changed bool, err error) {
	routes, err := s.scanner.Scan(ctx)
	if err != nil {
		s.rescans.WithLabelValues("error").Inc()
		s.logger.Error("scan failed", "root", s.options.Root, "error", err)
		s.hub.NotifyError(err)
		return false, err
	}

	m := manifest.Build(routes, manifest.RelativeTo(s.options.Root))
	if prev := s.current.Load(); prev != nil && prev.manifest.Hash() == m.Hash() {
		s.rescans.WithLabelValues("unchanged").Inc()
		return false, nil
	}

	s.current.Store(&snapshot{manifest: m, matcher: router.NewMatcher(routes)})
	s.rescans.WithLabelValues("changed").Inc()
	s.logger.Info("routes updated", "routes", m.Len(), "hash", m.HashString())

	s.hub.NotifyManifest(m)
	if s.options.OnChange != nil {
		s.options.OnChange(m)
	}
	return true, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerName("approute/dev"),
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	))
	r.Use(s.httpMetrics.Handler)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/routes", s.handleRoutes)
	r.Get("/match", s.handleMatch)
	r.Get("/ws", s.hub.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// Run scans once, starts the HTTP server and rescans every interval until
// ctx is cancelled. A failing initial scan is reported but does not stop
// the server.
func (s *Server) Run(ctx context.Context) error {
	_, _ = s.Rescan(ctx) // logged and broadcast by Rescan

	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.options.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev server listening", "addr", s.options.Addr, "root", s.options.Root)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	ticker := time.NewTicker(s.options.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return nil
		case err := <-errCh:
			s.Stop()
			return err
		case <-ticker.C:
			_, _ = s.Rescan(ctx)
		}
	}
}

// Stop closes client connections and shuts the HTTP server down.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hub.Close()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn("dev server shutdown", "error", err)
		}
		s.httpServer = nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	m := s.Manifest()
	if m == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no successful scan yet"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", `"`+m.HashString()+`"`)
	if err := m.Encode(w); err != nil {
		s.logger.Error("writing manifest", "error", err)
	}
}

// matchResponse is the body of a successful /match request.
type matchResponse struct {
	Path     string            `json:"path"`
	Pathname string            `json:"pathname"`
	Page     string            `json:"page"`
	File     string            `json:"file"`
	Params   map[string]string `json:"params"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no successful scan yet"})
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing path parameter"})
		return
	}

	result, err := snap.matcher.Match(path)
	switch {
	case errors.Is(err, router.ErrNoMatch):
		s.httpMetrics.RecordMatch("no_match")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case err != nil:
		s.httpMetrics.RecordMatch("invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.httpMetrics.RecordMatch("matched")
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("approute.page", result.Route.Page.String()),
	)

	writeJSON(w, http.StatusOK, matchResponse{
		Path:     result.Path,
		Pathname: result.Route.Path.String(),
		Page:     result.Route.Page.String(),
		File:     s.relFile(result.Route.FilePath),
		Params:   result.Params,
	})
}

// relFile returns file relative to the app directory, like manifest entries.
func (s *Server) relFile(file string) string {
	rel, err := filepath.Rel(s.options.Root, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; a failed body write has no recovery.
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
