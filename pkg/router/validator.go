package router

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vango-dev/approute/pkg/approute"
)

// =============================================================================
// Route Validation
// =============================================================================

// Validator validates scanned routes for conflicts.
type Validator struct {
	routes []ScannedRoute
	errors []ValidationError
}

// ValidationError represents a route validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Files are the source files involved
	Files []string

	// Path is the conflicting URL path
	Path string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateRoute indicates two leaves of the same type resolve to
	// the same path in the same slot.
	// Example: (a)/about/page.go and (b)/about/page.go both resolve to /about
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorPageRouteConflict indicates a page and a route handler resolve to
	// the same path.
	// Example: api/page.go and (x)/api/route.go
	ErrorPageRouteConflict ValidationErrorType = "PAGE_ROUTE_CONFLICT"

	// ErrorParamNameConflict indicates different placeholder names at the
	// same position.
	// Example: blog/[id]/page.go and blog/[slug]/edit/page.go
	ErrorParamNameConflict ValidationErrorType = "PARAM_NAME_CONFLICT"

	// ErrorOptionalCatchAllConflict indicates an optional catch-all shadows
	// a route at its parent path.
	// Example: docs/page.go and docs/[[...slug]]/page.go both match /docs
	ErrorOptionalCatchAllConflict ValidationErrorType = "OPTIONAL_CATCH_ALL_CONFLICT"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// NewValidator creates a new route validator.
func NewValidator(routes []ScannedRoute) *Validator {
	return &Validator{
		routes: routes,
	}
}

// Validate checks all routes for conflicts.
// Returns nil if all routes are valid, or a *MultiValidationError with all errors.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validateDuplicateRoutes()
	v.validateParamNames()
	v.validateOptionalCatchAll()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// slotKey identifies where a leaf renders: its parallel slots plus its URL.
type slotKey struct {
	slots string
	path  string
}

func keyOf(r *ScannedRoute) slotKey {
	return slotKey{slots: strings.Join(r.Slots(), "/"), path: r.Path.String()}
}

// validateDuplicateRoutes reports leaves that render at the same path in
// the same slot.
func (v *Validator) validateDuplicateRoutes() {
	byKey := make(map[slotKey][]*ScannedRoute)
	for i := range v.routes {
		r := &v.routes[i]
		k := keyOf(r)
		byKey[k] = append(byKey[k], r)
	}

	for _, k := range sortedSlotKeys(byKey) {
		routes := byKey[k]
		if len(routes) <= 1 {
			continue
		}

		files := make([]string, len(routes))
		types := make(map[approute.PageType]bool)
		for i, r := range routes {
			files[i] = r.FilePath
			types[r.Type] = true
		}

		if len(types) > 1 {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorPageRouteConflict,
				Message: fmt.Sprintf("Conflicting page and route at %s", k.path),
				Path:    k.path,
				Files:   files,
				Details: fmt.Sprintf("Files: %s", strings.Join(files, ", ")),
			})
			continue
		}

		v.errors = append(v.errors, ValidationError{
			Type:    ErrorDuplicateRoute,
			Message: fmt.Sprintf("Duplicate route detected at %s", k.path),
			Path:    k.path,
			Files:   files,
			Details: fmt.Sprintf("Files: %s", strings.Join(files, ", ")),
		})
	}
}

// validateParamNames reports placeholders of the same kind with different
// names under the same parent path, e.g. /blog/[id] and /blog/[slug]. A
// dynamic segment next to a catch-all is fine: the matcher keeps them in
// separate children.
func (v *Validator) validateParamNames() {
	type position struct {
		parent string
		kind   approute.PathKind
	}
	type entry struct {
		name string
		file string
	}
	seen := make(map[position][]entry)

	for _, route := range v.routes {
		segments := route.Path.Segments()
		for i, seg := range segments {
			if !seg.IsParam() {
				continue
			}
			pos := position{parent: renderPrefix(segments[:i]), kind: seg.Kind}
			entries := seen[pos]
			if !slices.ContainsFunc(entries, func(e entry) bool { return e.name == seg.Name && e.file == route.FilePath }) {
				seen[pos] = append(entries, entry{name: seg.Name, file: route.FilePath})
			}
		}
	}

	positions := slices.Collect(maps.Keys(seen))
	slices.SortFunc(positions, func(a, b position) int {
		if c := strings.Compare(a.parent, b.parent); c != 0 {
			return c
		}
		return int(a.kind) - int(b.kind)
	})

	for _, pos := range positions {
		entries := seen[pos]
		var names, files []string
		for _, e := range entries {
			if !slices.Contains(names, e.name) {
				names = append(names, e.name)
			}
			files = append(files, e.file)
		}
		if len(names) <= 1 {
			continue
		}

		v.errors = append(v.errors, ValidationError{
			Type:    ErrorParamNameConflict,
			Message: fmt.Sprintf("Different parameter names for the same dynamic path at %s", pos.parent),
			Path:    pos.parent,
			Files:   files,
			Details: fmt.Sprintf("Names: %s", strings.Join(names, " vs ")),
		})
	}
}

// validateOptionalCatchAll reports /x/[[...a]] defined next to /x, since
// both match the URL /x.
func (v *Validator) validateOptionalCatchAll() {
	byKey := make(map[slotKey]*ScannedRoute, len(v.routes))
	for i := range v.routes {
		r := &v.routes[i]
		if _, ok := byKey[keyOf(r)]; !ok {
			byKey[keyOf(r)] = r
		}
	}

	for i := range v.routes {
		r := &v.routes[i]
		n := r.Path.Len()
		if n == 0 || r.Path.At(n-1).Kind != approute.PathOptionalCatchAll {
			continue
		}

		parent := slotKey{
			slots: strings.Join(r.Slots(), "/"),
			path:  renderPrefix(r.Path.Segments()[:n-1]),
		}
		other, ok := byKey[parent]
		if !ok {
			continue
		}

		v.errors = append(v.errors, ValidationError{
			Type:    ErrorOptionalCatchAllConflict,
			Message: fmt.Sprintf("Optional catch-all %s shadows %s", r.Path, parent.path),
			Path:    parent.path,
			Files:   []string{other.FilePath, r.FilePath},
			Details: "an optional catch-all also matches its parent path",
		})
	}
}

// renderPrefix renders leading path segments like AppPath.String.
func renderPrefix(segments []approute.PathSegment) string {
	if len(segments) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(seg.String())
	}
	return sb.String()
}

// sortedSlotKeys returns the keys of m ordered by path, then slots.
func sortedSlotKeys(m map[slotKey][]*ScannedRoute) []slotKey {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b slotKey) int {
		if c := strings.Compare(a.path, b.path); c != 0 {
			return c
		}
		return strings.Compare(a.slots, b.slots)
	})
	return keys
}

// =============================================================================
// Route Specificity Sorting
// =============================================================================

// SortBySpecificity sorts routes by specificity for proper matching order.
//
// Order (most specific first), compared segment by segment:
//  1. Static segments (/users/profile)
//  2. Dynamic segments (/users/[id])
//  3. Catch-all segments (/users/[...path])
//  4. Optional catch-all segments (/users/[[...path]])
//
// Routes with equal paths keep a stable order by page descriptor.
func SortBySpecificity(routes []ScannedRoute) {
	slices.SortStableFunc(routes, func(a, b ScannedRoute) int {
		if c := approute.ComparePaths(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Page.String(), b.Page.String())
	})
}

// =============================================================================
// Helper Functions
// =============================================================================

// ValidateAndSort validates routes and sorts them by specificity.
func ValidateAndSort(routes []ScannedRoute) ([]ScannedRoute, error) {
	if err := NewValidator(routes).Validate(); err != nil {
		return nil, err
	}
	SortBySpecificity(routes)
	return routes, nil
}

// FormatValidationError formats a validation error for display:
//
//	ERROR: Duplicate route detected at /about
//	  app/(a)/about/page.go → /about
//	  app/(b)/about/page.go → /about
func FormatValidationError(err ValidationError) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "ERROR: %s\n", err.Message)
	for _, file := range err.Files {
		fmt.Fprintf(&sb, "  %s → %s\n", file, err.Path)
	}
	if err.Details != "" {
		fmt.Fprintf(&sb, "  Details: %s\n", err.Details)
	}

	return sb.String()
}
