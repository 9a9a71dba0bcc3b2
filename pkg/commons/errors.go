package commons

import (
	"errors"
	"fmt"
)

var (
	// ErrAPI is matched by every APIError.
	ErrAPI = errors.New("mediawiki api error")
	// ErrEntityNotFound indicates an entity or its label is absent.
	ErrEntityNotFound = errors.New("entity not found")
)

// APIError is the "error" envelope of a MediaWiki API response.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki api error %s: %s", e.Code, e.Info)
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }
