package dev

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/approute/pkg/manifest"
)

func writeFiles(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("package routes\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	return NewServer(ServerOptions{
		Root:     root,
		Interval: 20 * time.Millisecond,
		Registry: prometheus.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestServer_Rescan(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "page.go", "blog/[id]/page.go")

	var notified int
	srv := newTestServer(t, root)
	srv.options.OnChange = func(m *manifest.Manifest) { notified++ }

	changed, err := srv.Rescan(context.Background())
	if err != nil || !changed {
		t.Fatalf("first Rescan() = %v, %v, want changed", changed, err)
	}
	if srv.Manifest().Len() != 2 {
		t.Errorf("Manifest().Len() = %d, want 2", srv.Manifest().Len())
	}

	changed, err = srv.Rescan(context.Background())
	if err != nil || changed {
		t.Errorf("unchanged Rescan() = %v, %v, want unchanged", changed, err)
	}

	writeFiles(t, root, "about/page.go")
	changed, err = srv.Rescan(context.Background())
	if err != nil || !changed {
		t.Errorf("Rescan() after new page = %v, %v, want changed", changed, err)
	}
	if notified != 2 {
		t.Errorf("OnChange calls = %d, want 2", notified)
	}

	// A broken tree keeps the previous routes.
	writeFiles(t, root, "docs/[...slug]/edit/page.go")
	if _, err := srv.Rescan(context.Background()); err == nil {
		t.Error("Rescan() should fail for a segment after a catch-all")
	}
	if srv.Manifest().Len() != 3 {
		t.Errorf("Manifest().Len() after failed scan = %d, want 3", srv.Manifest().Len())
	}
}

func TestServer_Endpoints(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "page.go", "blog/[id]/page.go", "docs/[...slug]/page.go")

	srv := newTestServer(t, root)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// Before the first scan there is nothing to serve.
	resp, err := http.Get(ts.URL + "/routes")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("GET /routes before scan = %d, want 503", resp.StatusCode)
	}

	if _, err := srv.Rescan(context.Background()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", "/healthz", http.StatusOK, "ok"},
		{"routes", "/routes", http.StatusOK, `"pathname": "/blog/[id]"`},
		{"match", "/match?path=/blog/42", http.StatusOK, `"params":{"id":"42"}`},
		{"match file", "/match?path=/blog/42", http.StatusOK, `"file":"blog/[id]/page.go"`},
		{"match catch-all", "/match?path=/docs/a/b", http.StatusOK, `"slug":"a/b"`},
		{"no match", "/match?path=/missing", http.StatusNotFound, "no matching route"},
		{"bad path", "/match?path=/../x", http.StatusBadRequest, "escapes root"},
		{"missing param", "/match", http.StatusBadRequest, "missing path"},
		{"metrics", "/metrics", http.StatusOK, "approute_scan_total"},
		{"match metrics", "/metrics", http.StatusOK, `approute_http_matches_total{result="matched"} 3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("GET %s body missing %q:\n%s", tt.path, tt.wantBody, body)
			}
		})
	}
}

func TestHub_Broadcast(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "page.go")

	srv := newTestServer(t, root)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	if _, err := srv.Rescan(context.Background()); err != nil {
		t.Fatal(err)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()

	// The current manifest is replayed on connect.
	msg := readMessage(t, conn)
	if msg.Type != MessageManifest || msg.Manifest == nil || msg.Manifest.Len() != 1 {
		t.Fatalf("initial message = %+v", msg)
	}

	writeFiles(t, root, "about/page.go")
	if _, err := srv.Rescan(context.Background()); err != nil {
		t.Fatal(err)
	}
	msg = readMessage(t, conn)
	if msg.Type != MessageManifest || msg.Manifest.Len() != 2 {
		t.Errorf("update message = %+v", msg)
	}
	if msg.Hash != srv.Manifest().HashString() {
		t.Errorf("message hash = %q, want %q", msg.Hash, srv.Manifest().HashString())
	}

	writeFiles(t, root, "(a)/x/page.go", "(b)/x/page.go")
	srv.Rescan(context.Background())
	msg = readMessage(t, conn)
	if msg.Type != MessageError || !strings.Contains(msg.Error, "DUPLICATE_ROUTE") {
		t.Errorf("error message = %+v", msg)
	}

	if srv.Hub().ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", srv.Hub().ClientCount())
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage error: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	return msg
}

func TestServer_Run(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "page.go")

	srv := NewServer(ServerOptions{
		Root:     root,
		Addr:     "127.0.0.1:0",
		Interval: 10 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	writeFiles(t, root, "about/page.go")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m := srv.Manifest(); m != nil && m.Len() == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if m := srv.Manifest(); m == nil || m.Len() != 2 {
		t.Errorf("Run did not pick up the new page")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
