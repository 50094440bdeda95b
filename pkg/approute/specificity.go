package approute

import (
	"slices"
	"strings"
)

// specificity ranks a path segment; lower is more specific.
func (s PathSegment) specificity() int {
	switch s.Kind {
	case PathStatic:
		return 0
	case PathDynamic:
		return 1
	case PathCatchAll:
		return 2
	case PathOptionalCatchAll:
		return 3
	}
	return 4
}

// ComparePaths orders paths from most to least specific. It returns a
// negative number when a should be matched before b.
//
// Segments are compared position by position: static before dynamic before
// catch-all before optional catch-all. When one path is a prefix of the
// other the longer path comes first, unless its next segment is an optional
// catch-all, which also matches the shorter path's URL. Remaining ties are
// broken by the rendered form so that the order is total.
func ComparePaths(a, b AppPath) int {
	n := min(len(a.segments), len(b.segments))
	for i := 0; i < n; i++ {
		sa, sb := a.segments[i].specificity(), b.segments[i].specificity()
		if sa != sb {
			return sa - sb
		}
		if a.segments[i].Kind == PathStatic && a.segments[i].Name != b.segments[i].Name {
			return strings.Compare(a.segments[i].Name, b.segments[i].Name)
		}
	}

	switch {
	case len(a.segments) > n:
		if a.segments[n].Kind == PathOptionalCatchAll {
			return 1
		}
		return -1
	case len(b.segments) > n:
		if b.segments[n].Kind == PathOptionalCatchAll {
			return -1
		}
		return 1
	}
	return strings.Compare(a.String(), b.String())
}

// SortPaths sorts paths in place from most to least specific.
func SortPaths(paths []AppPath) {
	slices.SortStableFunc(paths, ComparePaths)
}
