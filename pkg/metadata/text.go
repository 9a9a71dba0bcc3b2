package metadata

import "commonsmeta/pkg/extract"

// Optional is a field that may legitimately be absent.
// Reason records why it is absent, for diagnostics.
type Optional[T any] struct {
	Value   T
	Present bool
	Reason  error
}

func some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func none[T any](reason error) Optional[T] {
	return Optional[T]{Reason: reason}
}

// Text is a field whose markup extraction may fall back to the raw value.
type Text struct {
	Value    string // what gets printed
	Raw      string // the value as returned by the API
	Fallback bool   // true if Value == Raw because extraction failed
	Reason   error  // extraction error behind a fallback
}

func extracted(raw, value string) Text {
	return Text{Value: value, Raw: raw}
}

func fallback(raw string, reason error) Text {
	return Text{Value: raw, Raw: raw, Fallback: true, Reason: reason}
}

// creditText applies the Credit rule: span text, else the raw value.
func creditText(raw string) Text {
	s, err := extract.Credit(raw)
	if err != nil {
		return fallback(raw, err)
	}
	return extracted(raw, s)
}

// descriptionText applies the ImageDescription rule: "prefix link", else the raw value.
func descriptionText(raw string) Text {
	d, err := extract.ImageDescription(raw)
	if err != nil {
		return fallback(raw, err)
	}
	return extracted(raw, d.String())
}

// artistText applies the Artist rule: anchor text, else span text, else error.
func artistText(raw string) (string, error) {
	return extract.Artist(raw)
}
