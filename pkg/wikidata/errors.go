package wikidata

import "errors"

var (
	// ErrParse indicates a failure to parse the response.
	ErrParse = errors.New("wikidata parse error")
	// ErrInvalidQuery indicates the SPARQL query could not be built from its input.
	ErrInvalidQuery = errors.New("wikidata invalid query")
)
