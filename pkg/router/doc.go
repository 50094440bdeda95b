// Package router discovers and matches routes of a directory-based app.
//
// The router provides:
//   - Route discovery from an app directory (Scanner)
//   - Conflict detection between discovered routes (Validator)
//   - Specificity ordering (SortBySpecificity)
//   - URL matching with parameter extraction (Matcher)
//
// # Directory Convention
//
// Every directory is one route segment. A directory becomes routable when it
// contains a page or route file:
//
//	app/
//	├── page.go                    → page  /
//	├── (marketing)/
//	│   └── about/
//	│       └── page.go            → page  /about
//	├── blog/
//	│   ├── [id]/
//	│   │   └── page.go            → page  /blog/[id]
//	│   └── [...slug]/
//	│       └── route.go           → route /blog/[...slug]
//	├── @modal/
//	│   └── page.go                → page  / (slot "modal")
//	└── _components/               → private, skipped
//
// Directory names are parsed with approute.ParseSegment, so route groups,
// parallel slots and catch-alls follow the same grammar everywhere.
//
// # Usage
//
//	scanner := router.NewScanner("app", router.WithLogger(logger))
//	routes, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//
//	m := router.NewMatcher(routes)
//	result, err := m.Match("/blog/hello-world")
//	if err == nil {
//	    // result.Route.Page.String() == "/blog/[id]/page"
//	    // result.Params["id"] == "hello-world"
//	}
package router
