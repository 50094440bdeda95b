package approute

import (
	"slices"
	"strings"
)

// AppPage describes a route including its internal modifiers: route groups,
// parallel slots and the trailing page/route marker.
//
// The zero value is an empty page. AppPage is a value type: a copy made by
// assignment, WithSegment or WithToken never observes appends to the
// original. A page being built with Append must not be appended to
// concurrently.
type AppPage struct {
	segments []PageSegment
}

// NewAppPage builds a page from segments, enforcing the same rules as
// Append.
func NewAppPage(segments ...PageSegment) (AppPage, error) {
	var p AppPage
	for _, seg := range segments {
		if err := p.Append(seg); err != nil {
			return AppPage{}, err
		}
	}
	return p, nil
}

// ParsePage parses a slash separated page string. Empty pieces from
// leading, trailing or repeated separators are ignored.
func ParsePage(page string) (AppPage, error) {
	var p AppPage
	for _, token := range strings.Split(page, string(Separator)) {
		if err := p.AppendToken(token); err != nil {
			return AppPage{}, err
		}
	}
	return p, nil
}

// Append adds seg to the end of the page.
//
// Once a catch-all segment has been appended only a page type marker may
// follow it; anything else fails with an *AppendError and leaves p as it
// was.
func (p *AppPage) Append(seg PageSegment) error {
	if last, ok := p.Last(); ok && last.IsCatchAll() && seg.Kind != KindPageType {
		return &AppendError{Segment: seg, After: last}
	}
	// Clip so a copy sharing the backing array is never overwritten.
	p.segments = append(slices.Clip(p.segments), seg)
	return nil
}

// AppendToken parses token and appends the result. An empty token is a
// no-op.
func (p *AppPage) AppendToken(token string) error {
	if token == "" {
		return nil
	}
	seg, err := ParseSegment(token)
	if err != nil {
		return err
	}
	return p.Append(seg)
}

// WithSegment returns a copy of p with seg appended. p is not modified.
func (p AppPage) WithSegment(seg PageSegment) (AppPage, error) {
	c := p.Clone()
	if err := c.Append(seg); err != nil {
		return AppPage{}, err
	}
	return c, nil
}

// WithToken returns a copy of p with token parsed and appended. p is not
// modified.
func (p AppPage) WithToken(token string) (AppPage, error) {
	c := p.Clone()
	if err := c.AppendToken(token); err != nil {
		return AppPage{}, err
	}
	return c, nil
}

// Clone returns a deep copy of p.
func (p AppPage) Clone() AppPage {
	return AppPage{segments: slices.Clone(p.segments)}
}

// Len returns the number of segments.
func (p AppPage) Len() int { return len(p.segments) }

// IsEmpty reports whether p has no segments.
func (p AppPage) IsEmpty() bool { return len(p.segments) == 0 }

// At returns the i-th segment. It panics if i is out of range.
func (p AppPage) At(i int) PageSegment { return p.segments[i] }

// Segments returns a copy of the segments.
func (p AppPage) Segments() []PageSegment {
	return slices.Clone(p.segments)
}

// Last returns the final segment, if any.
func (p AppPage) Last() (PageSegment, bool) {
	if len(p.segments) == 0 {
		return PageSegment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

// PageType returns the trailing page type marker, if the page has one.
func (p AppPage) PageType() (PageType, bool) {
	last, ok := p.Last()
	if !ok || last.Kind != KindPageType {
		return 0, false
	}
	return last.Type, true
}

// Slots returns the names of the parallel route slots in order.
func (p AppPage) Slots() []string {
	var slots []string
	for _, seg := range p.segments {
		if seg.Kind == KindParallel {
			slots = append(slots, seg.Name)
		}
	}
	return slots
}

// Equal reports whether p and other hold the same segments.
func (p AppPage) Equal(other AppPage) bool {
	return slices.Equal(p.segments, other.segments)
}

// Path derives the URL path of p.
func (p AppPage) Path() AppPath {
	return NewAppPath(p)
}

// String renders the page as "/" followed by each segment, or "/" when
// empty.
func (p AppPage) String() string {
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
