package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"commonsmeta/pkg/model"
	"commonsmeta/pkg/ordered"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindScalar is a string, number, bool or null.
	KindScalar Kind = iota
	// KindList is a list of named fields ({"name": ..., "value": ...}).
	KindList
	// KindMap is an object whose members are read by key.
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is one element of a list value.
type Field struct {
	Name  string
	Value Value
}

// Entry is one member of a map value, in document order.
type Entry struct {
	Key   string
	Value Value
}

// Value is a decoded metadata value. Exactly one of Text, Items or Entries
// is meaningful, selected by Kind.
type Value struct {
	Kind    Kind
	Text    string
	Items   []Field
	Entries []Entry

	raw json.RawMessage
}

// Decode parses raw JSON into a Value.
func Decode(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("%w: empty value", ErrUnexpectedShape)
	}

	switch trimmed[0] {
	case '[':
		return decodeList(trimmed)
	case '{':
		return decodeMap(trimmed)
	default:
		return decodeScalar(trimmed)
	}
}

func decodeScalar(raw json.RawMessage) (Value, error) {
	v := Value{Kind: KindScalar, raw: raw}
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &v.Text); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return v, nil
	}
	if !json.Valid(raw) {
		return Value{}, fmt.Errorf("%w: invalid literal %s", ErrUnexpectedShape, raw)
	}
	// numbers, bools and null keep their literal spelling
	v.Text = string(raw)
	return v, nil
}

func decodeList(raw json.RawMessage) (Value, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	v := Value{Kind: KindList, raw: raw, Items: make([]Field, 0, len(elems))}
	for i, elem := range elems {
		var obj ordered.Object
		if err := json.Unmarshal(elem, &obj); err != nil {
			return Value{}, fmt.Errorf("%w: list element %d is not a named field", ErrUnexpectedShape, i)
		}

		nameRaw, ok := obj.Get("name")
		if !ok {
			return Value{}, model.MissingField("name", "")
		}
		name, err := decodeScalar(bytes.TrimSpace(nameRaw))
		if err != nil {
			return Value{}, fmt.Errorf("list element %d name: %w", i, err)
		}

		valueRaw, ok := obj.Get("value")
		if !ok {
			return Value{}, model.MissingField("value", name.Text)
		}
		val, err := Decode(valueRaw)
		if err != nil {
			return Value{}, fmt.Errorf("field %s: %w", name.Text, err)
		}
		v.Items = append(v.Items, Field{Name: name.Text, Value: val})
	}
	return v, nil
}

func decodeMap(raw json.RawMessage) (Value, error) {
	var obj ordered.Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	v := Value{Kind: KindMap, raw: raw, Entries: make([]Entry, 0, len(obj))}
	for _, m := range obj {
		val, err := Decode(m.Value)
		if err != nil {
			return Value{}, fmt.Errorf("key %s: %w", m.Key, err)
		}
		v.Entries = append(v.Entries, Entry{Key: m.Key, Value: val})
	}
	return v, nil
}

// Member returns the value stored under key of a map value.
func (v Value) Member(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// String renders a scalar as its text and lists or maps as compact JSON.
func (v Value) String() string {
	if v.Kind == KindScalar {
		return v.Text
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v.raw); err != nil {
		return string(v.raw)
	}
	return buf.String()
}
