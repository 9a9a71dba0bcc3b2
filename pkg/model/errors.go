package model

import (
	"errors"
	"fmt"
)

// ErrMissingField indicates an expected key was absent from an API response.
var ErrMissingField = errors.New("missing field")

// MissingFieldError names the absent field and the page it was expected on.
type MissingFieldError struct {
	Field string
	Title string
}

func (e *MissingFieldError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("missing field %q", e.Field)
	}
	return fmt.Sprintf("missing field %q for %s", e.Field, e.Title)
}

// Is makes errors.Is(err, ErrMissingField) match.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// MissingField is a shorthand constructor.
func MissingField(field, title string) error {
	return &MissingFieldError{Field: field, Title: title}
}
