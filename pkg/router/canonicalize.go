package router

import (
	"errors"
	"net/url"
	"strings"
)

// URL path errors returned by Matcher.Match.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// urlSegment is one segment of a request path, raw and decoded.
type urlSegment struct {
	raw     string
	decoded string
}

// hasEncodedSlash reports whether the segment contained %2F, which may only
// be consumed by a catch-all.
func (s urlSegment) hasEncodedSlash() bool {
	return strings.Contains(s.decoded, "/")
}

// canonicalSegments normalizes a request path and splits it into decoded
// segments. The query string, if any, is ignored.
//
// Empty and "." segments are dropped, ".." removes the previous segment.
// Backslashes, NUL bytes, malformed percent escapes and ".." above the root
// are rejected.
func canonicalSegments(input string) ([]urlSegment, error) {
	path, _, _ := strings.Cut(input, "?")

	if strings.ContainsRune(path, '\\') {
		return nil, ErrBackslashInPath
	}
	if strings.ContainsRune(path, 0) || strings.Contains(strings.ToUpper(path), "%00") {
		return nil, ErrNullByteInPath
	}

	var out []urlSegment
	for _, raw := range strings.Split(path, "/") {
		switch raw {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return nil, ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
			continue
		}

		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return nil, ErrInvalidPercentEscape
		}
		out = append(out, urlSegment{raw: raw, decoded: decoded})
	}
	return out, nil
}

// canonicalPath renders segments as "/a/b", or "/" for none.
func canonicalPath(segments []urlSegment) string {
	if len(segments) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(seg.raw)
	}
	return sb.String()
}
