package router

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/vango-dev/approute/pkg/approute"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the default tracer for scans.
const tracerName = "github.com/vango-dev/approute/pkg/router"

// DefaultExtensions are the leaf file extensions recognised by default.
var DefaultExtensions = []string{".go"}

// Leaf file base names (without extension).
const (
	PageFileName  = "page"
	RouteFileName = "route"
)

// Scanner walks an app directory and builds a route for every page or
// route file it finds.
type Scanner struct {
	rootDir    string
	extensions []string
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *Metrics
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithExtensions sets the leaf file extensions (e.g. ".go", ".tsx").
func WithExtensions(exts ...string) ScannerOption {
	return func(s *Scanner) {
		s.extensions = slices.Clone(exts)
	}
}

// WithLogger sets the scanner logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for scan spans.
func WithTracer(tracer trace.Tracer) ScannerOption {
	return func(s *Scanner) {
		s.tracer = tracer
	}
}

// WithMetrics enables Prometheus metrics for scans.
func WithMetrics(m *Metrics) ScannerOption {
	return func(s *Scanner) {
		s.metrics = m
	}
}

// NewScanner creates a new route scanner rooted at rootDir.
func NewScanner(rootDir string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		rootDir:    rootDir,
		extensions: DefaultExtensions,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "scanner")
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// RootDir returns the directory the scanner walks.
func (s *Scanner) RootDir() string {
	return s.rootDir
}

// Scan walks the app directory and returns route definitions.
// Routes are validated and sorted by specificity.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedRoute, error) {
	return s.ScanWithOptions(ctx, ScanOptions{Validate: true, Sort: true})
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	// Validate enables route validation (duplicates, conflicting params, etc.)
	Validate bool

	// Sort enables specificity sorting (static > dynamic > catch-all)
	Sort bool
}

// ScanWithOptions walks the app directory with configurable validation and
// sorting.
func (s *Scanner) ScanWithOptions(ctx context.Context, opts ScanOptions) (routes []ScannedRoute, err error) {
	ctx, span := s.tracer.Start(ctx, "approute.scan", trace.WithAttributes(
		attribute.String("approute.root", s.rootDir),
		attribute.Bool("approute.validate", opts.Validate),
	))
	start := time.Now()
	defer func() {
		s.metrics.observe(routes, time.Since(start).Seconds(), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("approute.routes", len(routes)))
		}
		span.End()
	}()

	err = filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && isSkippedDir(d.Name()) {
				s.logger.Debug("skipping directory", "dir", path)
				return filepath.SkipDir
			}
			return nil
		}

		pageType, ok := s.leafType(d.Name())
		if !ok {
			return nil
		}

		route, err := s.scanLeaf(path, pageType)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		s.logger.Debug("route discovered", "page", route.Page.String(), "path", route.Path.String(), "file", path)
		routes = append(routes, route)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Validate {
		if err := NewValidator(routes).Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Sort {
		SortBySpecificity(routes)
	}

	s.logger.Info("scan complete", "root", s.rootDir, "routes", len(routes))
	return routes, nil
}

// scanLeaf builds the route for a leaf file: one AppendToken per directory
// below the root, then the page type marker.
func (s *Scanner) scanLeaf(path string, pageType approute.PageType) (ScannedRoute, error) {
	relDir, err := filepath.Rel(s.rootDir, filepath.Dir(path))
	if err != nil {
		return ScannedRoute{}, err
	}

	var page approute.AppPage
	if relDir != "." {
		for _, dir := range strings.Split(filepath.ToSlash(relDir), "/") {
			if err := page.AppendToken(dir); err != nil {
				return ScannedRoute{}, fmt.Errorf("directory %q: %w", dir, err)
			}
		}
	}
	if err := page.Append(approute.TypeMarker(pageType)); err != nil {
		return ScannedRoute{}, err
	}

	return NewRoute(page, path)
}

// leafType reports whether name is a page or route file.
func (s *Scanner) leafType(name string) (approute.PageType, bool) {
	if strings.HasSuffix(name, "_test.go") {
		return 0, false
	}
	ext := filepath.Ext(name)
	if !slices.Contains(s.extensions, ext) {
		return 0, false
	}
	switch strings.TrimSuffix(name, ext) {
	case PageFileName:
		return approute.PageTypePage, true
	case RouteFileName:
		return approute.PageTypeRoute, true
	}
	return 0, false
}

// isSkippedDir reports private (_name) and hidden (.name) directories.
func isSkippedDir(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
