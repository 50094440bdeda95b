package errors

import "slices"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Grammar Errors (R001-R009)
	// ============================================

	"R001": {
		Category:   CategoryGrammar,
		Message:    "Empty route segment",
		Detail:     "A route segment must contain at least one character.",
		Suggestion: "Remove the doubled separator or give the directory a name",
	},
	"R002": {
		Category:   CategoryGrammar,
		Message:    "Route segment contains a slash",
		Detail:     "A single segment cannot contain '/'. Split the segment into nested directories instead.",
		Suggestion: "Parse the full path with ParsePage, which splits on '/'",
	},
	"R003": {
		Category:   CategoryGrammar,
		Message:    "Segment after catch-all",
		Detail:     "A catch-all segment ([...x] or [[...x]]) consumes the rest of the URL, so only a page or route file may follow it.",
		Suggestion: "Move the nested directory next to the catch-all instead of inside it",
	},

	// ============================================
	// Validation Errors (R010-R019)
	// ============================================

	"R010": {
		Category:   CategoryValidation,
		Message:    "Duplicate route",
		Detail:     "Two leaves resolve to the same URL path. Route groups do not add a URL segment, so (a)/about and (b)/about collide.",
		Suggestion: "Rename or remove one of the conflicting directories",
	},
	"R011": {
		Category:   CategoryValidation,
		Message:    "Page and route handler conflict",
		Detail:     "A page and a route handler resolve to the same URL path.",
		Suggestion: "Move the route handler under a separate path such as /api",
	},
	"R012": {
		Category:   CategoryValidation,
		Message:    "Conflicting parameter names",
		Detail:     "Dynamic segments at the same position must use the same parameter name.",
		Suggestion: "Use one name for the dynamic directory, e.g. [id] everywhere",
	},
	"R013": {
		Category:   CategoryValidation,
		Message:    "Optional catch-all shadows its parent",
		Detail:     "An optional catch-all also matches its parent path, which already has a route.",
		Suggestion: "Remove the parent route or use a required catch-all [...x]",
	},

	// ============================================
	// Match Errors (R020-R029)
	// ============================================

	"R020": {
		Category: CategoryMatch,
		Message:  "No matching route",
		Detail:   "No route in the tree matches the URL path.",
	},
	"R021": {
		Category: CategoryMatch,
		Message:  "Invalid URL path",
		Detail:   "The URL path could not be canonicalized.",
	},

	// ============================================
	// Config Errors (C001-C009)
	// ============================================

	"C001": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "No approute.json was found.",
		Suggestion: "Run 'approute init' or create approute.json manually",
	},
	"C002": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "The configuration file could not be read or parsed.",
		Suggestion: "Check that approute.json is valid JSON",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// Publish Errors (P001-P009)
	// ============================================

	"P001": {
		Category: CategoryPublish,
		Message:  "Publishing the manifest failed",
		Detail:   "The object store rejected the upload.",
	},
	"P002": {
		Category:   CategoryPublish,
		Message:    "No bucket configured",
		Detail:     "Publishing requires a destination bucket.",
		Suggestion: "Set publish.bucket in approute.json or pass --bucket",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
