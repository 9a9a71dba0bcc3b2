package metadata

import (
	"encoding/json"
	"fmt"

	"commonsmeta/pkg/model"
	"commonsmeta/pkg/ordered"
)

// FlattenEmbedded turns the "metadata" facet of imageinfo entries (EXIF and
// similar) into lines. A list-valued field yields one "field -> child -> value"
// line per child; a scalar field yields "field -> value". Children must be
// scalars: anything deeper fails with ErrNestingTooDeep.
func FlattenEmbedded(entries []json.RawMessage) ([]Line, error) {
	var lines []Line
	for i, raw := range entries {
		var entry ordered.Object
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("imageinfo entry %d: %w", i, err)
		}

		metaRaw, ok := entry.Get("metadata")
		if !ok {
			return nil, model.MissingField("metadata", "")
		}
		if string(metaRaw) == "null" {
			// files without embedded metadata
			continue
		}

		meta, err := Decode(metaRaw)
		if err != nil {
			return nil, err
		}
		if meta.Kind != KindList {
			return nil, fmt.Errorf("%w: metadata is a %s", ErrUnexpectedShape, meta.Kind)
		}

		for _, field := range meta.Items {
			fieldLines, err := flattenEmbeddedField(field)
			if err != nil {
				return nil, err
			}
			lines = append(lines, fieldLines...)
		}
	}
	return lines, nil
}

func flattenEmbeddedField(field Field) ([]Line, error) {
	switch field.Value.Kind {
	case KindScalar:
		return []Line{newLine(field.Value.Text, field.Name)}, nil
	case KindList:
		lines := make([]Line, 0, len(field.Value.Items))
		for _, child := range field.Value.Items {
			if child.Value.Kind != KindScalar {
				return nil, fmt.Errorf("%w: %s -> %s holds a %s", ErrNestingTooDeep, field.Name, child.Name, child.Value.Kind)
			}
			lines = append(lines, newLine(child.Value.Text, field.Name, child.Name))
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("%w: %s holds a %s", ErrUnexpectedShape, field.Name, field.Value.Kind)
	}
}
