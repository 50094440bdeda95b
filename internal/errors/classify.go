package errors

import (
	stderrors "errors"

	"github.com/vango-dev/approute/pkg/approute"
	"github.com/vango-dev/approute/pkg/manifest"
	"github.com/vango-dev/approute/pkg/router"
)

// validationCodes maps validator error types to codes.
var validationCodes = map[router.ValidationErrorType]string{
	router.ErrorDuplicateRoute:           "R010",
	router.ErrorPageRouteConflict:        "R011",
	router.ErrorParamNameConflict:        "R012",
	router.ErrorOptionalCatchAllConflict: "R013",
}

// sentinelCodes maps library sentinel errors to codes, checked in order.
var sentinelCodes = []struct {
	err  error
	code string
}{
	{approute.ErrEmptySegment, "R001"},
	{approute.ErrIllegalSlash, "R002"},
	{approute.ErrInvalidAppend, "R003"},
	{router.ErrNoMatch, "R020"},
	{router.ErrBackslashInPath, "R021"},
	{router.ErrNullByteInPath, "R021"},
	{router.ErrInvalidPercentEscape, "R021"},
	{router.ErrPathEscapesRoot, "R021"},
	{manifest.ErrNoBucket, "P002"},
}

// Classify maps err onto a coded *Error. An *Error anywhere in the chain is
// returned as is. Unknown errors become an uncoded CLI error wrapping err.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var coded *Error
	if stderrors.As(err, &coded) {
		return coded
	}

	var multi *router.MultiValidationError
	if stderrors.As(err, &multi) && len(multi.Errors) > 0 {
		first := multi.Errors[0]
		e := New(validationCodes[first.Type]).WithDetail(first.Message).Wrap(err)
		if len(first.Files) > 0 {
			e.WithFile(first.Files[0])
		}
		return e
	}

	for _, s := range sentinelCodes {
		if stderrors.Is(err, s.err) {
			return New(s.code).Wrap(err)
		}
	}

	var publishErr *manifest.PublishError
	if stderrors.As(err, &publishErr) {
		return New("P001").WithFile(publishErr.Key).Wrap(err)
	}

	return Newf(CategoryCLI, "%s", err.Error()).Wrap(err)
}
