package approute

import (
	"slices"
	"strings"
)

// AppPath is the URL pathname of a route, including dynamic placeholders
// but none of the page's internal modifiers.
type AppPath struct {
	segments []PathSegment
}

// NewAppPath derives the path of page. Static, dynamic and catch-all
// segments are kept in order; groups, parallel slots and page type markers
// are dropped.
func NewAppPath(page AppPage) AppPath {
	var segments []PathSegment
	for _, seg := range page.segments {
		if ps, ok := seg.PathSegment(); ok {
			segments = append(segments, ps)
		}
	}
	return AppPath{segments: segments}
}

// Len returns the number of segments.
func (p AppPath) Len() int { return len(p.segments) }

// IsEmpty reports whether p is the root path.
func (p AppPath) IsEmpty() bool { return len(p.segments) == 0 }

// At returns the i-th segment. It panics if i is out of range.
func (p AppPath) At(i int) PathSegment { return p.segments[i] }

// Segments returns a copy of the segments.
func (p AppPath) Segments() []PathSegment {
	return slices.Clone(p.segments)
}

// Equal reports whether p and other hold the same segments.
func (p AppPath) Equal(other AppPath) bool {
	return slices.Equal(p.segments, other.segments)
}

// IsDynamic reports whether p contains any placeholder.
func (p AppPath) IsDynamic() bool {
	return slices.ContainsFunc(p.segments, PathSegment.IsParam)
}

// Params returns the placeholder names in order.
func (p AppPath) Params() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.IsParam() {
			names = append(names, seg.Name)
		}
	}
	return names
}

// String renders the path as "/" followed by each segment, or "/" when
// empty.
func (p AppPath) String() string {
	if len(p.segments) == 0 {
		return string(Separator)
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte(Separator)
		b.WriteString(seg.String())
	}
	return b.String()
}

// Pattern renders p in router notation:
//
//	/blog/[id]          → /blog/:id
//	/docs/[...slug]     → /docs/*slug
//	/docs/[[...slug]]   → /docs/*slug?
func (p AppPath) Pattern() string {
	if len(p.segments) == 0 {
		return string(Separator)
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte(Separator)
		switch seg.Kind {
		case PathStatic:
			b.WriteString(seg.Name)
		case PathDynamic:
			b.WriteString(":" + seg.Name)
		case PathCatchAll:
			b.WriteString("*" + seg.Name)
		case PathOptionalCatchAll:
			b.WriteString("*" + seg.Name + "?")
		}
	}
	return b.String()
}
