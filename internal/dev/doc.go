// Package dev provides the approute development server.
//
// The server rescans an app directory on an interval and keeps the latest
// route tree in memory. Whenever the route manifest changes it is pushed to
// every connected WebSocket client, so editors and tools can follow the
// tree while files are added, renamed or removed.
//
// # Endpoints
//
//	GET /routes         current manifest (JSON, ETag is the manifest hash)
//	GET /match?path=... resolve a URL path against the current tree
//	GET /ws             WebSocket stream of hub messages
//	GET /metrics        Prometheus metrics
//	GET /healthz        liveness probe
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{
//	    Root:     "app",
//	    Addr:     "localhost:3100",
//	    Interval: time.Second,
//	})
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Hub Protocol
//
// Messages are JSON-encoded. A client receives the last message right after
// connecting.
//
//	{"type": "manifest", "hash": "...", "manifest": {...}} // route tree changed
//	{"type": "error", "error": "..."}                      // scan failed
package dev
