// Package approute models the route segments of a directory-based app router.
//
// A route directory tree such as
//
//	app/
//	├── (shop)/
//	│   └── products/
//	│       └── [id]/
//	│           └── page.go
//	├── @modal/
//	│   └── page.go
//	└── docs/
//	    └── [[...slug]]/
//	        └── route.go
//
// is described by two containers:
//
//   - AppPage is the internal descriptor of a route. It keeps every segment,
//     including route groups, parallel slots and the trailing page/route
//     marker: /(shop)/products/[id]/page
//   - AppPath is the URL-facing part only: /products/[id]
//
// # Segment Grammar
//
//	(name)       → route group, not part of the URL
//	@name        → parallel route slot, not part of the URL
//	[[...name]]  → optional catch-all
//	[...name]    → catch-all
//	[name]       → dynamic segment
//	anything     → static segment, verbatim
//
// Tokens that do not match one of the bracket forms exactly (e.g. "[id")
// are static segments, not errors.
//
// # Usage
//
//	page, err := approute.ParsePage("/(shop)/products/[id]")
//	if err != nil {
//	    return err
//	}
//	if err := page.Append(approute.TypeMarker(approute.PageTypePage)); err != nil {
//	    return err
//	}
//
//	page.String()        // "/(shop)/products/[id]/page"
//	page.Path().String() // "/products/[id]"
//
// A catch-all must be the last routable segment: once a catch-all has been
// appended only a page type marker may follow.
package approute
