// Package middleware provides net/http middleware that observes requests
// served by route-aware handlers.
//
// Both middlewares label requests by the route pattern the router matched
// (for chi, the registered pattern such as "/match") rather than by the raw
// URL, which keeps label cardinality bounded.
//
// # OpenTelemetry Middleware
//
// OpenTelemetry starts a server span for every request:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("approute-dev"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer comes from the global OpenTelemetry tracer provider. Handlers
// reach the span through trace.SpanFromContext(r.Context()).
//
// # Prometheus Metrics
//
// Metrics records request counts and latencies:
//
//	m := middleware.NewMetrics(
//	    middleware.WithNamespace("approute"),
//	    middleware.WithRegistry(reg),
//	)
//	r.Use(m.Handler)
//
// Metrics collected:
//   - <namespace>_http_requests_total{route, method, status}
//   - <namespace>_http_request_duration_seconds{route}
//   - <namespace>_http_matches_total{result}, via RecordMatch
package middleware
