package metadata

import "strings"

// Separator joins the parts of a printed line.
const Separator = " -> "

// Line is one printable result: a path of names and the leaf value.
type Line struct {
	Path  []string
	Value string
}

func newLine(value string, path ...string) Line {
	return Line{Path: path, Value: value}
}

// String renders the line as "name -> child -> value".
func (l Line) String() string {
	parts := make([]string, 0, len(l.Path)+1)
	parts = append(parts, l.Path...)
	parts = append(parts, l.Value)
	return strings.Join(parts, Separator)
}
