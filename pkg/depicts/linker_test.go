package depicts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonsmeta/pkg/commons"
	"commonsmeta/pkg/model"
)

func ids(ds []model.Depiction) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}

type fakeSource struct {
	files      map[string][]model.Page
	media      map[string]string // media id -> statements JSON
	labels     map[string]string
	mediaErr   error
	labelCalls []string
}

func (f *fakeSource) CategoryFiles(_ context.Context, category, _ string) ([]model.Page, error) {
	files, ok := f.files[category]
	if !ok {
		return nil, errors.New("unknown category")
	}
	return files, nil
}

func (f *fakeSource) MediaInfo(_ context.Context, mediaID, _ string) (*commons.MediaInfo, error) {
	if f.mediaErr != nil {
		return nil, f.mediaErr
	}
	var m commons.MediaInfo
	doc := fmt.Sprintf(`{"id":%q,"statements":%s}`, mediaID, f.media[mediaID])
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (f *fakeSource) EntityLabel(_ context.Context, id, _, _ string) (string, error) {
	f.labelCalls = append(f.labelCalls, id)
	label, ok := f.labels[id]
	if !ok {
		return "", commons.ErrEntityNotFound
	}
	return label, nil
}

func depictsStmt(ids ...string) string {
	s := `{"P180":[`
	for i, id := range ids {
		if i > 0 {
			s += ","
		}
		if id == "" {
			s += `{"mainsnak":{"snaktype":"somevalue","property":"P180"}}`
			continue
		}
		s += fmt.Sprintf(`{"mainsnak":{"snaktype":"value","property":"P180","datavalue":{"value":{"id":%q},"type":"wikibase-entityid"}}}`, id)
	}
	return s + `]}`
}

func TestFileEntities(t *testing.T) {
	src := &fakeSource{
		media:  map[string]string{"M1": depictsStmt("Q1", "", "Q2", "Q404", "Q1")},
		labels: map[string]string{"Q1": "Candelária Church", "Q2": "Rio de Janeiro"},
	}
	l := NewLinker(src, nil)

	got, err := l.FileEntities(context.Background(), model.Page{ID: 1, Title: "File:A.jpg"}, "")
	require.NoError(t, err)
	assert.Equal(t, []model.Depiction{
		{ID: "Q1", Label: "Candelária Church"},
		{ID: "Q2", Label: "Rio de Janeiro"},
	}, got)
	assert.Equal(t, []string{"Q1", "Q2", "Q404", "Q1"}, src.labelCalls)
}

func TestFileEntities_NoStatements(t *testing.T) {
	src := &fakeSource{media: map[string]string{
		"M1": `[]`,
		"M2": `{"P170":[]}`,
	}}
	l := NewLinker(src, nil)

	for _, p := range []model.Page{{ID: 1}, {ID: 2}} {
		got, err := l.FileEntities(context.Background(), p, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Empty(t, src.labelCalls)
}

func TestFileEntities_CustomProperty(t *testing.T) {
	src := &fakeSource{
		media:  map[string]string{"M1": `{"P170":[{"mainsnak":{"datavalue":{"value":{"id":"Q7"}}}}]}`},
		labels: map[string]string{"Q7": "Author"},
	}
	l := NewLinker(src, nil)
	l.Property = "P170"

	got, err := l.FileEntities(context.Background(), model.Page{ID: 1}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q7"}, ids(got))
}

func TestFileEntities_MediaInfoErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	l := NewLinker(&fakeSource{mediaErr: boom}, nil)
	_, err := l.FileEntities(context.Background(), model.Page{ID: 1, Title: "File:A.jpg"}, "")
	assert.ErrorIs(t, err, boom)
}

func TestCategoryEntities(t *testing.T) {
	src := &fakeSource{
		files: map[string][]model.Page{
			"Category:Churches": {{ID: 1, Title: "File:A.jpg"}, {ID: 2, Title: "File:B.jpg"}, {ID: 3, Title: "File:C.jpg"}},
		},
		media: map[string]string{
			"M1": depictsStmt("Q2", "Q1"),
			"M2": `[]`,
			"M3": depictsStmt("Q1", "Q3"),
		},
		labels: map[string]string{"Q1": "one", "Q2": "two", "Q3": "three"},
	}
	l := NewLinker(src, nil)

	got, err := l.CategoryEntities(context.Background(), "Category:Churches", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q2", "Q1", "Q3"}, ids(got))

	again, err := l.CategoryEntities(context.Background(), "Category:Churches", "")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestCategoryEntities_ListingErrorPropagates(t *testing.T) {
	l := NewLinker(&fakeSource{}, nil)
	_, err := l.CategoryEntities(context.Background(), "Category:Nope", "")
	assert.Error(t, err)
}

func TestCategoryEntities_Cancelled(t *testing.T) {
	src := &fakeSource{
		files:  map[string][]model.Page{"Category:X": {{ID: 1}}},
		media:  map[string]string{"M1": depictsStmt("Q1")},
		labels: map[string]string{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLinker(src, nil).CategoryEntities(ctx, "Category:X", "")
	assert.ErrorIs(t, err, context.Canceled)
}
