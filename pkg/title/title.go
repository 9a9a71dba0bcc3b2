// Package title normalizes page titles the way MediaWiki stores them.
package title

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Namespace prefixes.
const (
	File     = "File"
	Category = "Category"
)

// Normalize converts underscores to spaces, collapses surrounding
// whitespace and applies Unicode NFC, matching MediaWiki's canonical form.
func Normalize(t string) string {
	t = strings.ReplaceAll(t, "_", " ")
	t = strings.Join(strings.Fields(t), " ")
	return norm.NFC.String(t)
}

// WithNamespace normalizes t and prefixes it with ns unless it already has it.
// The prefix comparison is case-insensitive; an existing prefix is rewritten
// to the canonical spelling.
func WithNamespace(t, ns string) string {
	t = Normalize(t)
	if t == "" {
		return t
	}
	prefix := ns + ":"
	if HasNamespace(t, ns) {
		return prefix + strings.TrimSpace(t[len(prefix):])
	}
	return prefix + t
}

// HasNamespace reports whether t carries the ns prefix.
func HasNamespace(t, ns string) bool {
	prefix := ns + ":"
	return len(t) >= len(prefix) && strings.EqualFold(t[:len(prefix)], prefix)
}
