package metadata

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonsmeta/pkg/model"
)

func raws(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}

func lineStrings(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func TestFlattenEmbedded(t *testing.T) {
	doc := `{"metadata":[
		{"name":"Make","value":"Canon"},
		{"name":"Model","value":"EOS 80D"},
		{"name":"ImageWidth","value":6000},
		{"name":"MEDIAWIKI_EXIF_VERSION","value":2},
		{"name":"GPS","value":[
			{"name":"Lat","value":"-22.9"},
			{"name":"Lon","value":"-43.2"},
			{"name":"Alt","value":"11"}
		]}
	]}`

	lines, err := FlattenEmbedded(raws(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Make -> Canon",
		"Model -> EOS 80D",
		"ImageWidth -> 6000",
		"MEDIAWIKI_EXIF_VERSION -> 2",
		"GPS -> Lat -> -22.9",
		"GPS -> Lon -> -43.2",
		"GPS -> Alt -> 11",
	}, lineStrings(lines))
}

func TestFlattenEmbedded_EveryChildEmitted(t *testing.T) {
	doc := `{"metadata":[{"name":"Only","value":[{"name":"a","value":"1"}]}]}`
	lines, err := FlattenEmbedded(raws(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Only -> a -> 1"}, lineStrings(lines))
}

func TestFlattenEmbedded_MultipleEntries(t *testing.T) {
	lines, err := FlattenEmbedded(raws(
		`{"metadata":[{"name":"Make","value":"Canon"}]}`,
		`{"metadata":[{"name":"Make","value":"Nikon"}]}`,
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"Make -> Canon", "Make -> Nikon"}, lineStrings(lines))
}

func TestFlattenEmbedded_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "nesting below two levels",
			doc:  `{"metadata":[{"name":"A","value":[{"name":"B","value":[{"name":"C","value":"x"}]}]}]}`,
			want: ErrNestingTooDeep,
		},
		{
			name: "mapping child",
			doc:  `{"metadata":[{"name":"A","value":[{"name":"B","value":{"k":"v"}}]}]}`,
			want: ErrNestingTooDeep,
		},
		{
			name: "mapping field",
			doc:  `{"metadata":[{"name":"A","value":{"k":"v"}}]}`,
			want: ErrUnexpectedShape,
		},
		{
			name: "metadata key absent",
			doc:  `{"size":10}`,
			want: model.ErrMissingField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FlattenEmbedded(raws(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFlattenEmbedded_NullMetadata(t *testing.T) {
	lines, err := FlattenEmbedded(raws(`{"metadata":null}`))
	require.NoError(t, err)
	assert.Empty(t, lines)
}
