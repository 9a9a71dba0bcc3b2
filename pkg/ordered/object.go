// Package ordered decodes JSON objects while keeping their members in
// document order. The Commons API keys pages by page id and the order of
// those keys is the order results are reported in.
package ordered

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned when the input is not a JSON object.
var ErrNotObject = errors.New("not a json object")

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object whose members keep their document order.
// A JSON null decodes to an empty Object.
type Object []Member

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: got %v", ErrNotObject, tok)
	}

	var members Object
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		members = append(members, Member{Key: key, Value: raw})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = members
	return nil
}

// Get returns the value of the first member with the given key.
func (o Object) Get(key string) (json.RawMessage, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}
