package metadata

import "errors"

var (
	// ErrNestingTooDeep indicates a named field nested below the second level.
	ErrNestingTooDeep = errors.New("metadata nested deeper than two levels")
	// ErrUnexpectedShape indicates a value that is not a scalar, a list of
	// named fields, or a mapping.
	ErrUnexpectedShape = errors.New("unexpected metadata shape")
)
