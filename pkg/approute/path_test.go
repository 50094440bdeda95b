package approute

import (
	"reflect"
	"testing"
)

func TestNewAppPath(t *testing.T) {
	tests := []struct {
		page string
		want string
	}{
		{"/", "/"},
		{"/(group)", "/"},
		{"/(group)/[id]", "/[id]"},
		{"/@modal/(.)photos/[id]", "/(.)photos/[id]"},
		{"/(a)/(b)/blog/@slot/[...slug]", "/blog/[...slug]"},
		{"/docs/[[...path]]", "/docs/[[...path]]"},
		{"/a/(b)/c/@d/e", "/a/c/e"},
	}

	for _, tc := range tests {
		t.Run(tc.page, func(t *testing.T) {
			page, err := ParsePage(tc.page)
			if err != nil {
				t.Fatalf("ParsePage(%q) unexpected error = %v", tc.page, err)
			}
			path := NewAppPath(page)
			if got := path.String(); got != tc.want {
				t.Errorf("NewAppPath(%q) = %q, want %q", tc.page, got, tc.want)
			}
			// Derivation is repeatable and leaves the page untouched.
			if again := page.Path(); !again.Equal(path) {
				t.Errorf("second derivation %q differs from %q", again, path)
			}
			if got := page.String(); got != tc.page {
				t.Errorf("page changed by derivation: %q", got)
			}
		})
	}
}

func TestNewAppPathDropsTypeMarker(t *testing.T) {
	page, err := ParsePage("/(group)/[id]")
	if err != nil {
		t.Fatal(err)
	}
	if err := page.Append(TypeMarker(PageTypePage)); err != nil {
		t.Fatal(err)
	}

	if got := page.String(); got != "/(group)/[id]/page" {
		t.Errorf("page.String() = %q, want %q", got, "/(group)/[id]/page")
	}
	if got := NewAppPath(page).String(); got != "/[id]" {
		t.Errorf("NewAppPath().String() = %q, want %q", got, "/[id]")
	}

	// A literal "page" directory is a static segment, not a marker.
	literal, err := ParsePage("/(group)/[id]/page")
	if err != nil {
		t.Fatal(err)
	}
	if got := literal.Path().String(); got != "/[id]/page" {
		t.Errorf("literal page path = %q, want %q", got, "/[id]/page")
	}
}

func TestNewAppPathPreservesOrder(t *testing.T) {
	page, err := NewAppPage(
		Static("a"), Group("g"), Dynamic("b"), Parallel("p"), Static("c"), CatchAll("d"), TypeMarker(PageTypePage),
	)
	if err != nil {
		t.Fatal(err)
	}

	want := []PathSegment{
		{Kind: PathStatic, Name: "a"},
		{Kind: PathDynamic, Name: "b"},
		{Kind: PathStatic, Name: "c"},
		{Kind: PathCatchAll, Name: "d"},
	}
	if got := NewAppPath(page).Segments(); !reflect.DeepEqual(got, want) {
		t.Errorf("NewAppPath() = %v, want %v", got, want)
	}
}

func TestEmptyContainersRenderRoot(t *testing.T) {
	var page AppPage
	var path AppPath
	if page.String() != "/" {
		t.Errorf("empty page = %q, want /", page.String())
	}
	if path.String() != "/" {
		t.Errorf("empty path = %q, want /", path.String())
	}
	if path.Pattern() != "/" {
		t.Errorf("empty pattern = %q, want /", path.Pattern())
	}
}

func TestAppPathPatternAndParams(t *testing.T) {
	tests := []struct {
		page        string
		wantPattern string
		wantParams  []string
		wantDynamic bool
	}{
		{"/about", "/about", nil, false},
		{"/blog/[id]", "/blog/:id", []string{"id"}, true},
		{"/(g)/users/[uid]/posts/[pid]", "/users/:uid/posts/:pid", []string{"uid", "pid"}, true},
		{"/docs/[...slug]", "/docs/*slug", []string{"slug"}, true},
		{"/shop/[[...filters]]", "/shop/*filters?", []string{"filters"}, true},
	}

	for _, tc := range tests {
		page, err := ParsePage(tc.page)
		if err != nil {
			t.Fatalf("ParsePage(%q) unexpected error = %v", tc.page, err)
		}
		path := page.Path()
		if got := path.Pattern(); got != tc.wantPattern {
			t.Errorf("Pattern(%q) = %q, want %q", tc.page, got, tc.wantPattern)
		}
		if got := path.Params(); !reflect.DeepEqual(got, tc.wantParams) {
			t.Errorf("Params(%q) = %v, want %v", tc.page, got, tc.wantParams)
		}
		if got := path.IsDynamic(); got != tc.wantDynamic {
			t.Errorf("IsDynamic(%q) = %v, want %v", tc.page, got, tc.wantDynamic)
		}
	}
}

func TestAppPathEqualAndHash(t *testing.T) {
	a := mustPath(t, "/(x)/blog/[id]")
	b := mustPath(t, "/@slot/blog/[id]")
	c := mustPath(t, "/blog/[...id]")

	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Error("paths differing only in modifiers should be equal")
	}
	if a.Equal(c) || a.Hash() == c.Hash() {
		t.Error("different paths should not be equal")
	}

	page, _ := ParsePage("/blog/[id]")
	if page.Hash() == a.Hash() {
		t.Error("page and path hashes should be distinct")
	}
}

func TestComparePaths(t *testing.T) {
	paths := []AppPath{
		mustPath(t, "/[[...all]]"),
		mustPath(t, "/blog/[...slug]"),
		mustPath(t, "/blog/[id]"),
		mustPath(t, "/"),
		mustPath(t, "/blog/new"),
		mustPath(t, "/about"),
		mustPath(t, "/blog"),
		mustPath(t, "/[lang]"),
		mustPath(t, "/blog/[id]/edit"),
	}

	SortPaths(paths)

	var got []string
	for _, p := range paths {
		got = append(got, p.String())
	}
	want := []string{
		"/about",
		"/blog/new",
		"/blog/[id]/edit",
		"/blog/[id]",
		"/blog/[...slug]",
		"/blog",
		"/[lang]",
		"/",
		"/[[...all]]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortPaths() =\n  %v\nwant\n  %v", got, want)
	}

	if ComparePaths(mustPath(t, "/a"), mustPath(t, "/a")) != 0 {
		t.Error("ComparePaths of equal paths should be 0")
	}
}

func mustPath(t *testing.T, page string) AppPath {
	t.Helper()
	p, err := ParsePage(page)
	if err != nil {
		t.Fatalf("ParsePage(%q) unexpected error = %v", page, err)
	}
	return p.Path()
}
