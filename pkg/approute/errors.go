package approute

import (
	"errors"
	"fmt"
)

// Segment and page construction errors.
var (
	ErrEmptySegment  = errors.New("empty segments are not allowed")
	ErrIllegalSlash  = errors.New("slashes are not allowed in segments")
	ErrInvalidAppend = errors.New("catch all segment must be the last segment")
)

// AppendError reports a segment that was rejected because it followed a
// catch-all segment.
type AppendError struct {
	// Segment is the rejected segment.
	Segment PageSegment

	// After is the catch-all segment that ends the page.
	After PageSegment
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("invalid segment %s after %s: %v", e.Segment, e.After, ErrInvalidAppend)
}

// Unwrap returns ErrInvalidAppend for errors.Is support.
func (e *AppendError) Unwrap() error {
	return ErrInvalidAppend
}
