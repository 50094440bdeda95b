package approute

import (
	"fmt"
	"strings"
)

// Separator is the character between segments.
const Separator = '/'

// SegmentKind identifies the shape of a PageSegment.
type SegmentKind uint8

const (
	KindStatic SegmentKind = iota
	KindDynamic
	KindCatchAll
	KindOptionalCatchAll
	KindGroup
	KindParallel
	KindPageType
)

var segmentKindNames = [...]string{
	KindStatic:           "Static",
	KindDynamic:          "Dynamic",
	KindCatchAll:         "CatchAll",
	KindOptionalCatchAll: "OptionalCatchAll",
	KindGroup:            "Group",
	KindParallel:         "Parallel",
	KindPageType:         "PageType",
}

func (k SegmentKind) String() string {
	if int(k) < len(segmentKindNames) {
		return segmentKindNames[k]
	}
	return fmt.Sprintf("SegmentKind(%d)", uint8(k))
}

// PageType is the terminal marker of a page: what kind of leaf the route
// resolves to.
type PageType uint8

const (
	// PageTypePage is a rendered page.
	PageTypePage PageType = iota
	// PageTypeRoute is a route handler endpoint.
	PageTypeRoute
)

func (t PageType) String() string {
	switch t {
	case PageTypePage:
		return "page"
	case PageTypeRoute:
		return "route"
	}
	return fmt.Sprintf("PageType(%d)", uint8(t))
}

// PageSegment is one segment of an AppPage.
//
// Name is unused for KindPageType and Type is unused for every other kind.
// The zero value is an empty static segment.
type PageSegment struct {
	Kind SegmentKind
	Name string
	Type PageType
}

// Static returns a static segment.
func Static(name string) PageSegment { return PageSegment{Kind: KindStatic, Name: name} }

// Dynamic returns a [name] segment.
func Dynamic(name string) PageSegment { return PageSegment{Kind: KindDynamic, Name: name} }

// CatchAll returns a [...name] segment.
func CatchAll(name string) PageSegment { return PageSegment{Kind: KindCatchAll, Name: name} }

// OptionalCatchAll returns a [[...name]] segment.
func OptionalCatchAll(name string) PageSegment {
	return PageSegment{Kind: KindOptionalCatchAll, Name: name}
}

// Group returns a (name) segment.
func Group(name string) PageSegment { return PageSegment{Kind: KindGroup, Name: name} }

// Parallel returns an @name segment.
func Parallel(name string) PageSegment { return PageSegment{Kind: KindParallel, Name: name} }

// TypeMarker returns the terminal page type segment.
func TypeMarker(t PageType) PageSegment { return PageSegment{Kind: KindPageType, Type: t} }

// ParseSegment parses a single token (no separators) into a PageSegment.
//
// The bracket forms share prefixes, so they are tried from the most
// specific to the least specific. A token that matches none of the forms
// is a static segment. ParseSegment never returns a page type marker.
func ParseSegment(token string) (PageSegment, error) {
	if token == "" {
		return PageSegment{}, ErrEmptySegment
	}
	if strings.IndexByte(token, Separator) >= 0 {
		return PageSegment{}, ErrIllegalSlash
	}

	if name, ok := between(token, "(", ")"); ok {
		return Group(name), nil
	}
	if name, ok := strings.CutPrefix(token, "@"); ok {
		return Parallel(name), nil
	}
	if name, ok := between(token, "[[...", "]]"); ok {
		return OptionalCatchAll(name), nil
	}
	if name, ok := between(token, "[...", "]"); ok {
		return CatchAll(name), nil
	}
	if name, ok := between(token, "[", "]"); ok {
		return Dynamic(name), nil
	}

	return Static(token), nil
}

// between strips prefix and then suffix from s. Both must be present and
// must not overlap.
func between(s, prefix, suffix string) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, suffix)
}

// String renders the segment in the syntax it is parsed from.
func (s PageSegment) String() string {
	switch s.Kind {
	case KindStatic:
		return s.Name
	case KindDynamic:
		return "[" + s.Name + "]"
	case KindCatchAll:
		return "[..." + s.Name + "]"
	case KindOptionalCatchAll:
		return "[[..." + s.Name + "]]"
	case KindGroup:
		return "(" + s.Name + ")"
	case KindParallel:
		return "@" + s.Name
	case KindPageType:
		return s.Type.String()
	}
	return s.Name
}

// IsCatchAll reports whether s is a catch-all or optional catch-all segment.
func (s PageSegment) IsCatchAll() bool {
	return s.Kind == KindCatchAll || s.Kind == KindOptionalCatchAll
}

// IsRoutable reports whether s is part of the URL path.
func (s PageSegment) IsRoutable() bool {
	_, ok := s.PathSegment()
	return ok
}

// PathSegment converts s to its URL path counterpart. Groups, parallel
// slots and page type markers have none.
func (s PageSegment) PathSegment() (PathSegment, bool) {
	switch s.Kind {
	case KindStatic:
		return PathSegment{Kind: PathStatic, Name: s.Name}, true
	case KindDynamic:
		return PathSegment{Kind: PathDynamic, Name: s.Name}, true
	case KindCatchAll:
		return PathSegment{Kind: PathCatchAll, Name: s.Name}, true
	case KindOptionalCatchAll:
		return PathSegment{Kind: PathOptionalCatchAll, Name: s.Name}, true
	case KindGroup, KindParallel, KindPageType:
		return PathSegment{}, false
	}
	return PathSegment{}, false
}

// PathKind identifies the shape of a PathSegment.
type PathKind uint8

const (
	PathStatic PathKind = iota
	PathDynamic
	PathCatchAll
	PathOptionalCatchAll
)

var pathKindNames = [...]string{
	PathStatic:           "Static",
	PathDynamic:          "Dynamic",
	PathCatchAll:         "CatchAll",
	PathOptionalCatchAll: "OptionalCatchAll",
}

func (k PathKind) String() string {
	if int(k) < len(pathKindNames) {
		return pathKindNames[k]
	}
	return fmt.Sprintf("PathKind(%d)", uint8(k))
}

// PathSegment is one URL-routable segment of an AppPath.
type PathSegment struct {
	Kind PathKind
	Name string
}

// String renders the segment like the matching PageSegment.
func (s PathSegment) String() string {
	switch s.Kind {
	case PathStatic:
		return s.Name
	case PathDynamic:
		return "[" + s.Name + "]"
	case PathCatchAll:
		return "[..." + s.Name + "]"
	case PathOptionalCatchAll:
		return "[[..." + s.Name + "]]"
	}
	return s.Name
}

// IsCatchAll reports whether s is a catch-all or optional catch-all segment.
func (s PathSegment) IsCatchAll() bool {
	return s.Kind == PathCatchAll || s.Kind == PathOptionalCatchAll
}

// IsParam reports whether s is a placeholder rather than a literal.
func (s PathSegment) IsParam() bool {
	return s.Kind != PathStatic
}
