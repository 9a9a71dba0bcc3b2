package extract

import (
	"errors"
	"fmt"
)

// ErrNoMatch is matched by every MismatchError.
var ErrNoMatch = errors.New("markup pattern did not match")

// MismatchError reports that a field's markup did not have the expected shape.
type MismatchError struct {
	Field   string
	Pattern string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Field, ErrNoMatch.Error(), e.Pattern)
}

func (e *MismatchError) Is(target error) bool { return target == ErrNoMatch }
