package metadata

import (
	"encoding/json"
	"fmt"

	"commonsmeta/pkg/extract"
	"commonsmeta/pkg/model"
	"commonsmeta/pkg/ordered"
)

// FlattenAll renders every property of imageinfo entries requested with
// extmetadata, commonmetadata, size, dimensions, mime and mediatype.
//
// Keys are visited in document order and dispatched on the shape of their
// value:
//   - scalar: "key -> value"
//   - list of named fields: "name -> value", or "name -> sub -> value" per
//     sub-field when the field holds a list itself
//   - mapping: one line per member using its "value"; ImageDescription,
//     Artist and Credit get the same markup extraction as Summarize.
func FlattenAll(entries []json.RawMessage) ([]Line, error) {
	var lines []Line
	for i, raw := range entries {
		var entry ordered.Object
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("imageinfo entry %d: %w", i, err)
		}

		for _, m := range entry {
			v, err := Decode(m.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", m.Key, err)
			}

			var out []Line
			switch v.Kind {
			case KindScalar:
				out = []Line{newLine(v.Text, m.Key)}
			case KindList:
				out = flattenNamedList(v)
			case KindMap:
				out, err = flattenExtended(v)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", m.Key, err)
				}
			}
			lines = append(lines, out...)
		}
	}
	return lines, nil
}

func flattenNamedList(v Value) []Line {
	var lines []Line
	for _, item := range v.Items {
		if item.Value.Kind != KindList {
			lines = append(lines, newLine(item.Value.String(), item.Name))
			continue
		}
		for _, sub := range item.Value.Items {
			lines = append(lines, newLine(sub.Value.String(), item.Name, sub.Name))
		}
	}
	return lines
}

func flattenExtended(v Value) ([]Line, error) {
	lines := make([]Line, 0, len(v.Entries))
	for _, e := range v.Entries {
		val, ok := e.Value.Member("value")
		if !ok {
			return nil, model.MissingField(e.Key+".value", "")
		}
		text := val.String()

		switch e.Key {
		case extract.FieldDescription:
			text = descriptionText(text).Value
		case extract.FieldCredit:
			text = creditText(text).Value
		case extract.FieldArtist:
			artist, err := artistText(text)
			if err != nil {
				return nil, err
			}
			text = artist
		}
		lines = append(lines, newLine(text, e.Key))
	}
	return lines, nil
}
