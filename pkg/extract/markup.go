// Package extract pulls visible text out of the small HTML fragments the
// Commons API embeds in extended metadata (Artist, Credit, ImageDescription).
//
// The patterns are deliberately narrow regular expressions; a value that does
// not fit is reported as a MismatchError so callers can apply their own
// fallback.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Field names that receive markup extraction.
const (
	FieldArtist      = "Artist"
	FieldCredit      = "Credit"
	FieldDescription = "ImageDescription"
)

var (
	reAnchor      = regexp.MustCompile(`<a\b[^>]*>([^<]+)</a>`)
	reSpan        = regexp.MustCompile(`<span\b[^>]*>([^<]+)</span>`)
	reDescription = regexp.MustCompile(`(.*?)<a\b[^>]*>([^<]+)</a>`)
)

// AnchorText returns the text of the first <a> element.
func AnchorText(field, value string) (string, error) {
	return firstGroup(reAnchor, field, value)
}

// SpanText returns the text of the first <span> element.
func SpanText(field, value string) (string, error) {
	return firstGroup(reSpan, field, value)
}

// Artist returns the anchor text of an Artist value, or its span text when
// there is no anchor. Neither matching is an error.
func Artist(value string) (string, error) {
	if s, err := AnchorText(FieldArtist, value); err == nil {
		return s, nil
	}
	return SpanText(FieldArtist, value)
}

// Credit returns the span text of a Credit value.
func Credit(value string) (string, error) {
	return SpanText(FieldCredit, value)
}

// Description splits an ImageDescription into the text before the first
// link and that link's text.
type Description struct {
	Prefix   string
	LinkText string
}

// String joins the non-empty parts with a single space.
func (d Description) String() string {
	var parts []string
	if p := strings.TrimSpace(d.Prefix); p != "" {
		parts = append(parts, p)
	}
	if l := strings.TrimSpace(d.LinkText); l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, " ")
}

// ImageDescription extracts the prefix and link text of a description value.
// Only a single line is considered, as with the other patterns.
func ImageDescription(value string) (Description, error) {
	m := reDescription.FindStringSubmatch(value)
	if m == nil {
		return Description{}, &MismatchError{Field: FieldDescription, Pattern: reDescription.String()}
	}
	return Description{Prefix: clean(m[1]), LinkText: clean(m[2])}, nil
}

func firstGroup(re *regexp.Regexp, field, value string) (string, error) {
	m := re.FindStringSubmatch(value)
	if m == nil {
		return "", &MismatchError{Field: field, Pattern: re.String()}
	}
	return clean(m[1]), nil
}

// clean decodes character references such as &amp; in captured text.
func clean(s string) string {
	return html.UnescapeString(s)
}
