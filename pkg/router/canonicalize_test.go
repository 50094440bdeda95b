package router

import (
	"errors"
	"testing"
)

func TestCanonicalSegments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantErr  error
	}{
		// Basic paths
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty", input: "", wantPath: "/"},
		{name: "simple path", input: "/about", wantPath: "/about"},
		{name: "nested path", input: "/projects/123", wantPath: "/projects/123"},

		// Normalization
		{name: "trailing slash", input: "/about/", wantPath: "/about"},
		{name: "double slash", input: "/blog//post", wantPath: "/blog/post"},
		{name: "dot segment", input: "/a/./b", wantPath: "/a/b"},
		{name: "dot dot", input: "/a/b/../c", wantPath: "/a/c"},
		{name: "query ignored", input: "/search?q=x/y", wantPath: "/search"},
		{name: "encoded kept raw", input: "/files/a%20b", wantPath: "/files/a%20b"},

		// Rejected
		{name: "backslash", input: `/a\b`, wantErr: ErrBackslashInPath},
		{name: "null byte", input: "/a\x00b", wantErr: ErrNullByteInPath},
		{name: "encoded null", input: "/a%00b", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/a%zz", wantErr: ErrInvalidPercentEscape},
		{name: "escape root", input: "/../etc", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := canonicalSegments(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("canonicalSegments(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("canonicalSegments(%q) error: %v", tt.input, err)
			}
			if got := canonicalPath(segments); got != tt.wantPath {
				t.Errorf("canonicalPath(%q) = %q, want %q", tt.input, got, tt.wantPath)
			}
		})
	}
}

func TestCanonicalSegmentsDecoding(t *testing.T) {
	segments, err := canonicalSegments("/a%20b/c%2Fd")
	if err != nil {
		t.Fatalf("canonicalSegments error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(segments))
	}
	if segments[0].decoded != "a b" || segments[0].hasEncodedSlash() {
		t.Errorf("segments[0] = %+v", segments[0])
	}
	if segments[1].decoded != "c/d" || !segments[1].hasEncodedSlash() {
		t.Errorf("segments[1] = %+v, want encoded slash", segments[1])
	}
}
