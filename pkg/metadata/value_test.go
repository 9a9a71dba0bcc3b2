package metadata

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonsmeta/pkg/model"
)

func TestDecode_Kinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
		text string
	}{
		{"string", `"Canon"`, KindScalar, "Canon"},
		{"number", `4000`, KindScalar, "4000"},
		{"float keeps spelling", `-22.90`, KindScalar, "-22.90"},
		{"bool", `true`, KindScalar, "true"},
		{"null", `null`, KindScalar, "null"},
		{"list", `[{"name":"a","value":1}]`, KindList, `[{"name":"a","value":1}]`},
		{"map", `{ "b": 2, "a": 1 }`, KindMap, `{"b":2,"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.text, v.String())
		})
	}
}

func TestDecode_MapKeepsOrder(t *testing.T) {
	v, err := Decode(json.RawMessage(`{"z":"1","a":"2","m":"3"}`))
	require.NoError(t, err)

	var keys []string
	for _, e := range v.Entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	m, ok := v.Member("a")
	require.True(t, ok)
	assert.Equal(t, "2", m.Text)

	_, ok = v.Member("missing")
	assert.False(t, ok)
}

func TestDecode_ListErrors(t *testing.T) {
	_, err := Decode(json.RawMessage(`[{"value":1}]`))
	assert.True(t, errors.Is(err, model.ErrMissingField))

	_, err = Decode(json.RawMessage(`[{"name":"Make"}]`))
	var mf *model.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "value", mf.Field)
	assert.Equal(t, "Make", mf.Title)

	_, err = Decode(json.RawMessage(`["plain"]`))
	assert.True(t, errors.Is(err, ErrUnexpectedShape))

	_, err = Decode(json.RawMessage(``))
	assert.True(t, errors.Is(err, ErrUnexpectedShape))
}

func TestLineString(t *testing.T) {
	assert.Equal(t, "Make -> Canon", newLine("Canon", "Make").String())
	assert.Equal(t, "a -> b -> c", newLine("c", "a", "b").String())
	assert.Equal(t, "Model -> ", newLine("", "Model").String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "scalar", KindScalar.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "map", KindMap.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
