// Package errors provides structured, actionable error messages for the
// approute CLI and configuration loader.
//
// Library packages (pkg/approute, pkg/router, pkg/manifest) return plain
// sentinel and typed errors. This package turns them into coded errors that
// carry a category, a detail paragraph, an optional source location and a
// suggestion, and renders them for a terminal.
//
// # Error Codes
//
//   - R001-R003: segment grammar and append errors
//   - R010-R013: route tree validation errors
//   - R020-R021: URL matching errors
//   - C001-C003: configuration errors
//   - P001-P002: manifest publishing errors
//
// # Usage
//
//	err := errors.New("C002").
//	    WithLocation("approute.json", 4, 12).
//	    WithSuggestion("Check that approute.json is valid JSON")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR C002: Invalid configuration file
//	//
//	//   approute.json:4:12
//	//
//	//      3 │   "app": {
//	//   →  4 │     "dir": app,
//	//        │            ^
//	//      5 │   },
//	//
//	//   Hint: Check that approute.json is valid JSON
//
// Classify maps errors returned by the library packages onto these codes.
package errors
