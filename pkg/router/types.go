package router

import (
	"errors"

	"github.com/vango-dev/approute/pkg/approute"
)

// ErrMissingPageType is returned by NewRoute for a page without a trailing
// page type marker.
var ErrMissingPageType = errors.New("page has no page type marker")

// ScannedRoute represents a route leaf discovered by the scanner.
type ScannedRoute struct {
	// Page is the full route descriptor, ending in a page type marker
	// (e.g. /(shop)/products/[id]/page)
	Page approute.AppPage

	// Path is the URL path derived from Page (e.g. /products/[id])
	Path approute.AppPath

	// Type is the kind of leaf: a rendered page or a route handler
	Type approute.PageType

	// FilePath is the source file path
	FilePath string

	// Params are the route parameters in URL order
	Params []ParamDef

	// IsCatchAll indicates the path ends in [...x] or [[...x]]
	IsCatchAll bool
}

// Slots returns the parallel route slots the leaf lives under.
func (r *ScannedRoute) Slots() []string {
	return r.Page.Slots()
}

// NewRoute builds the route for page, which must end in a page type marker.
func NewRoute(page approute.AppPage, file string) (ScannedRoute, error) {
	pageType, ok := page.PageType()
	if !ok {
		return ScannedRoute{}, ErrMissingPageType
	}
	path := page.Path()
	route := ScannedRoute{
		Page:     page,
		Path:     path,
		Type:     pageType,
		FilePath: file,
		Params:   paramsOf(path),
	}
	if n := path.Len(); n > 0 {
		route.IsCatchAll = path.At(n - 1).IsCatchAll()
	}
	return route, nil
}

// ParamDef defines a route parameter.
type ParamDef struct {
	// Name is the parameter name (e.g., "id")
	Name string

	// Type is the Go type the parameter decodes to ("string" or "[]string")
	Type string

	// Segment is the original segment (e.g., "[id]", "[...slug]")
	Segment string

	// Optional is set for [[...x]], which also matches zero segments
	Optional bool
}

// paramsOf lists the placeholders of path.
func paramsOf(path approute.AppPath) []ParamDef {
	var params []ParamDef
	for _, seg := range path.Segments() {
		if !seg.IsParam() {
			continue
		}
		p := ParamDef{Name: seg.Name, Type: "string", Segment: seg.String()}
		if seg.IsCatchAll() {
			p.Type = "[]string"
			p.Optional = seg.Kind == approute.PathOptionalCatchAll
		}
		params = append(params, p)
	}
	return params
}

// MatchResult contains the result of matching a URL against a Matcher.
type MatchResult struct {
	// Route is the matched route definition
	Route *ScannedRoute

	// Params are the extracted route parameters. Catch-all values are the
	// matched segments joined with "/". An optional catch-all that matched
	// nothing is absent.
	Params map[string]string

	// Path is the canonical form of the matched URL path
	Path string
}
