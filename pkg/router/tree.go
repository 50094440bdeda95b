package router

import (
	"errors"
	"slices"
	"strings"

	"github.com/vango-dev/approute/pkg/approute"
)

// ErrNoMatch is returned by Matcher.Match when no route matches.
var ErrNoMatch = errors.New("no matching route")

// routeNode is a node in the segment tree.
type routeNode struct {
	// segment is the static segment this node matches
	segment string

	// route is the leaf stored at this node, if any
	route *ScannedRoute

	// children are static segment children
	children []*routeNode

	// paramChild matches any single segment ([id])
	paramChild *routeNode

	// catchAllChild matches one or more segments ([...slug])
	catchAllChild *routeNode

	// optionalChild matches zero or more segments ([[...slug]])
	optionalChild *routeNode
}

// findChild finds a child node with an exact segment match.
func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a static child node.
func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &routeNode{segment: segment}
	n.children = append(n.children, child)
	return child
}

// placeholder adds or retrieves the placeholder child stored in *slot.
// Placeholder nodes are unnamed; each leaf names its own parameters.
func placeholder(slot **routeNode) *routeNode {
	if *slot == nil {
		*slot = &routeNode{}
	}
	return *slot
}

// insert adds route under its path. It returns false if the node already
// holds a route.
func (n *routeNode) insert(route *ScannedRoute) bool {
	current := n
	for _, seg := range route.Path.Segments() {
		switch seg.Kind {
		case approute.PathStatic:
			current = current.addChild(seg.Name)
		case approute.PathDynamic:
			current = placeholder(&current.paramChild)
		case approute.PathCatchAll:
			current = placeholder(&current.catchAllChild)
		case approute.PathOptionalCatchAll:
			current = placeholder(&current.optionalChild)
		}
	}
	if current.route != nil {
		return false
	}
	current.route = route
	return true
}

// match finds the node for segments. values collects the captured
// placeholder values in path order.
// Static children are tried first, then the dynamic child, then catch-alls.
func (n *routeNode) match(segments []urlSegment, values []string) (*routeNode, []string) {
	if len(segments) == 0 {
		if n.route != nil {
			return n, values
		}
		// An optional catch-all also matches nothing.
		if n.optionalChild != nil && n.optionalChild.route != nil {
			return n.optionalChild, values
		}
		return nil, nil
	}

	segment := segments[0]
	remaining := segments[1:]

	if !segment.hasEncodedSlash() {
		if child := n.findChild(segment.decoded); child != nil {
			if node, vals := child.match(remaining, values); node != nil {
				return node, vals
			}
		}

		if n.paramChild != nil {
			if node, vals := n.paramChild.match(remaining, append(slices.Clip(values), segment.decoded)); node != nil {
				return node, vals
			}
		}
	}

	for _, child := range []*routeNode{n.catchAllChild, n.optionalChild} {
		if child == nil || child.route == nil {
			continue
		}
		rest := make([]string, len(segments))
		for i, s := range segments {
			rest[i] = s.decoded
		}
		return child, append(slices.Clip(values), strings.Join(rest, "/"))
	}

	return nil, nil
}

// Matcher resolves URL paths to scanned routes.
type Matcher struct {
	root   *routeNode
	routes []ScannedRoute
}

// NewMatcher builds a matcher from routes. Leaves under a parallel slot
// render alongside the main route and are not matched directly. When two
// leaves share a path the first one wins; Validator reports such
// duplicates.
func NewMatcher(routes []ScannedRoute) *Matcher {
	m := &Matcher{
		root:   &routeNode{},
		routes: make([]ScannedRoute, 0, len(routes)),
	}
	for _, r := range routes {
		if len(r.Slots()) > 0 {
			continue
		}
		m.routes = append(m.routes, r)
	}
	for i := range m.routes {
		m.root.insert(&m.routes[i])
	}
	return m
}

// Routes returns the routes the matcher resolves to.
func (m *Matcher) Routes() []ScannedRoute {
	return m.routes
}

// Match resolves urlPath to a route.
//
// The path is canonicalized first (see canonicalSegments). Segments are
// percent-decoded before matching. A segment containing an encoded slash
// (%2F) can only be consumed by a catch-all.
func (m *Matcher) Match(urlPath string) (MatchResult, error) {
	segments, err := canonicalSegments(urlPath)
	if err != nil {
		return MatchResult{}, err
	}

	node, values := m.root.match(segments, nil)
	if node == nil {
		return MatchResult{}, ErrNoMatch
	}

	// An optional catch-all matching nothing leaves its name unset.
	names := node.route.Path.Params()
	params := make(map[string]string, len(values))
	for i, v := range values {
		params[names[i]] = v
	}

	return MatchResult{
		Route:  node.route,
		Params: params,
		Path:   canonicalPath(segments),
	}, nil
}
