package manifest

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/approute/pkg/approute"
	"github.com/vango-dev/approute/pkg/router"
)

func route(t *testing.T, dir string, pageType approute.PageType) router.ScannedRoute {
	t.Helper()
	page, err := approute.ParsePage(dir)
	if err != nil {
		t.Fatalf("ParsePage(%q) error: %v", dir, err)
	}
	if err := page.Append(approute.TypeMarker(pageType)); err != nil {
		t.Fatalf("Append marker error: %v", err)
	}
	r, err := router.NewRoute(page, "/srv/app"+dir+"/"+pageType.String()+".go")
	if err != nil {
		t.Fatalf("NewRoute error: %v", err)
	}
	return r
}

func testRoutes(t *testing.T) []router.ScannedRoute {
	return []router.ScannedRoute{
		route(t, "/docs/[[...slug]]", approute.PageTypePage),
		route(t, "/blog/[id]", approute.PageTypePage),
		route(t, "/(marketing)/about", approute.PageTypePage),
		route(t, "/api/[...rest]", approute.PageTypeRoute),
		route(t, "/@modal/photos/[id]", approute.PageTypePage),
	}
}

func TestBuild(t *testing.T) {
	routes := testRoutes(t)
	m := Build(routes, RelativeTo("/srv/app"))

	if m.Version != Version {
		t.Errorf("Version = %d, want %d", m.Version, Version)
	}

	var pathnames []string
	for _, e := range m.Entries {
		pathnames = append(pathnames, e.Pathname)
	}
	want := []string{"/about", "/api/[...rest]", "/blog/[id]", "/docs/[[...slug]]", "/photos/[id]"}
	if !reflect.DeepEqual(pathnames, want) {
		t.Errorf("pathnames = %v, want %v", pathnames, want)
	}

	// Input order is untouched.
	if routes[0].Path.String() != "/docs/[[...slug]]" {
		t.Errorf("Build reordered its input: %s", routes[0].Path)
	}

	api := m.Entries[1]
	if api.Type != approute.PageTypeRoute {
		t.Errorf("api Type = %v, want route", api.Type)
	}
	if api.Pattern != "/api/*rest" {
		t.Errorf("api Pattern = %q", api.Pattern)
	}
	if api.File != "api/[...rest]/route.go" {
		t.Errorf("api File = %q", api.File)
	}
	if !reflect.DeepEqual(api.Params, []string{"rest"}) {
		t.Errorf("api Params = %v", api.Params)
	}
	if len(api.ID) != 16 {
		t.Errorf("api ID = %q, want 16 hex digits", api.ID)
	}

	photos := m.Entries[4]
	if !reflect.DeepEqual(photos.Slots, []string{"modal"}) {
		t.Errorf("photos Slots = %v", photos.Slots)
	}
}

func TestManifestHash(t *testing.T) {
	routes := testRoutes(t)
	a := Build(routes)
	b := Build(routes)
	if a.Hash() != b.Hash() {
		t.Error("Hash differs for the same routes")
	}

	c := Build(append(routes, route(t, "/contact", approute.PageTypePage)))
	if a.Hash() == c.Hash() {
		t.Error("Hash unchanged after adding a route")
	}

	moved := testRoutes(t)
	moved[0].FilePath = "/elsewhere/page.go"
	if a.Hash() == Build(moved).Hash() {
		t.Error("Hash unchanged after moving a file")
	}

	if got := a.HashString(); len(got) != 16 {
		t.Errorf("HashString() = %q, want 16 hex digits", got)
	}
}

func TestEncodeDecode(t *testing.T) {
	m := Build(testRoutes(t), RelativeTo("/srv/app"))

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"Dynamic": "id"`) {
		t.Errorf("encoded manifest missing tagged segments:\n%s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Hash() != m.Hash() {
		t.Error("decoded manifest hash differs")
	}
	for i := range m.Entries {
		if !got.Entries[i].Page.Equal(m.Entries[i].Page) {
			t.Errorf("entry %d page = %s, want %s", i, got.Entries[i].Page, m.Entries[i].Page)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "version",
			input:   `{"version": 2, "routes": []}`,
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "path mismatch",
			input:   `{"version": 1, "routes": [{"type": "Page", "page": [{"Static": "a"}, {"PageType": "Page"}], "path": [{"Static": "b"}]}]}`,
			wantErr: ErrInconsistentEntry,
		},
		{
			name:    "missing marker",
			input:   `{"version": 1, "routes": [{"type": "Page", "page": [{"Static": "a"}], "path": [{"Static": "a"}]}]}`,
			wantErr: ErrInconsistentEntry,
		},
		{
			name:    "segment after catch-all",
			input:   `{"version": 1, "routes": [{"type": "Page", "page": [{"CatchAll": "a"}, {"Static": "b"}], "path": []}]}`,
			wantErr: approute.ErrInvalidAppend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestManifestRoutes(t *testing.T) {
	m := Build(testRoutes(t), RelativeTo("/srv/app"))

	routes, err := m.Routes()
	if err != nil {
		t.Fatalf("Routes() error: %v", err)
	}
	if len(routes) != m.Len() {
		t.Fatalf("len(Routes()) = %d, want %d", len(routes), m.Len())
	}

	result, err := router.NewMatcher(routes).Match("/blog/7")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if result.Route.FilePath != "blog/[id]/page.go" || result.Params["id"] != "7" {
		t.Errorf("Match() = %+v", result)
	}
}
