package commons

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonsmeta/pkg/model"
	"commonsmeta/pkg/request"
	"commonsmeta/pkg/tracker"
)

// newTestClient serves body for every request and records the last query.
func newTestClient(t *testing.T, body string) (*Client, *url.Values) {
	t.Helper()
	var last url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	c := NewClient(request.New(tracker.New(), request.ClientConfig{}), nil)
	c.APIEndpoint = ts.URL
	return c, &last
}

func TestEndpoint(t *testing.T) {
	c := NewClient(nil, nil)
	assert.Equal(t, "https://commons.wikimedia.org/w/api.php", c.endpoint(""))
	assert.Equal(t, "https://meta.wikimedia.org/w/api.php", c.endpoint("meta"))

	c.APIEndpoint = "http://mirror/api.php"
	assert.Equal(t, "http://mirror/api.php", c.endpoint("meta"))
}

func TestPageLimit(t *testing.T) {
	c := NewClient(nil, nil)
	assert.Equal(t, 500, c.pageLimit())
	c.PageLimit = 20
	assert.Equal(t, 20, c.pageLimit())
	c.PageLimit = 5000
	assert.Equal(t, 500, c.pageLimit())
}

func TestCategoryFiles_DocumentOrder(t *testing.T) {
	body := `{"batchcomplete":"","continue":{"gcmcontinue":"file|x","continue":"gcmcontinue||"},"query":{"pages":{
		"900":{"pageid":900,"ns":6,"title":"File:Z.jpg"},
		"12":{"pageid":12,"ns":6,"title":"File:A.jpg"},
		"455":{"pageid":455,"ns":6,"title":"File:M.jpg"}
	}}}`
	c, q := newTestClient(t, body)
	c.PageLimit = 3

	pages, err := c.CategoryFiles(context.Background(), "Category:Churches", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"File:Z.jpg", "File:A.jpg", "File:M.jpg"}, model.Titles(pages))
	assert.Equal(t, 900, pages[0].ID)
	assert.Equal(t, "M900", pages[0].MediaID())

	assert.Equal(t, "categorymembers", q.Get("generator"))
	assert.Equal(t, "Category:Churches", q.Get("gcmtitle"))
	assert.Equal(t, "6", q.Get("gcmnamespace"))
	assert.Equal(t, "3", q.Get("gcmlimit"))
	assert.Equal(t, "json", q.Get("format"))
}

func TestCategoryFiles_Empty(t *testing.T) {
	c, _ := newTestClient(t, `{"batchcomplete":""}`)
	pages, err := c.CategoryFiles(context.Background(), "Category:Empty", "")
	require.NoError(t, err)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestSubcategories(t *testing.T) {
	body := `{"query":{"categorymembers":[
		{"pageid":2,"ns":14,"title":"Category:B"},
		{"pageid":1,"ns":14,"title":"Category:A"}
	]}}`
	c, q := newTestClient(t, body)

	subs, err := c.Subcategories(context.Background(), "Category:Root", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Category:B", "Category:A"}, model.Titles(subs))
	assert.Equal(t, "subcat", q.Get("cmtype"))
	assert.Equal(t, "Category:Root", q.Get("cmtitle"))
}

func TestFileCategories(t *testing.T) {
	t.Run("visible", func(t *testing.T) {
		c, q := newTestClient(t, `{"query":{"pages":{"5":{"pageid":5,"ns":6,"title":"File:X.jpg","categories":[
			{"ns":14,"title":"Category:Churches"},{"ns":14,"title":"Category:Rio"}]}}}}`)
		got, err := c.VisibleCategories(context.Background(), "File:X.jpg", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Category:Churches", "Category:Rio"}, got)
		assert.Equal(t, "!hidden", q.Get("clshow"))
		assert.Equal(t, "max", q.Get("cllimit"))
	})

	t.Run("no hidden categories", func(t *testing.T) {
		c, q := newTestClient(t, `{"query":{"pages":{"5":{"pageid":5,"ns":6,"title":"File:X.jpg"}}}}`)
		got, err := c.HiddenCategories(context.Background(), "File:X.jpg", "")
		require.NoError(t, err)
		assert.Equal(t, []string{}, got)
		assert.Equal(t, "hidden", q.Get("clshow"))
	})

	t.Run("missing file", func(t *testing.T) {
		c, _ := newTestClient(t, `{"query":{"pages":{"-1":{"ns":6,"title":"File:Gone.jpg","missing":""}}}}`)
		_, err := c.VisibleCategories(context.Background(), "File:Gone.jpg", "")

		var mf *model.MissingFieldError
		require.True(t, errors.As(err, &mf))
		assert.Equal(t, "categories", mf.Field)
		assert.Equal(t, "File:Gone.jpg", mf.Title)
	})
}

func TestAllCategories_Dedupes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("clshow") == "hidden" {
			_, _ = w.Write([]byte(`{"query":{"pages":{"5":{"title":"File:X.jpg","categories":[{"title":"Category:Hidden"},{"title":"Category:B"}]}}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"query":{"pages":{"5":{"title":"File:X.jpg","categories":[{"title":"Category:A"},{"title":"Category:B"}]}}}}`))
	}))
	defer ts.Close()

	c := NewClient(request.New(nil, request.ClientConfig{}), nil)
	c.APIEndpoint = ts.URL

	got, err := c.AllCategories(context.Background(), "File:X.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Category:A", "Category:B", "Category:Hidden"}, got)
}

func TestImageInfo(t *testing.T) {
	c, q := newTestClient(t, `{"query":{"pages":{"5":{"title":"File:X.jpg","imagerepository":"local","imageinfo":[
		{"size":10,"mime":"image/jpeg"}]}}}}`)

	entries, err := c.ImageInfo(context.Background(), "File:X.jpg", "", FullProps...)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"size":10,"mime":"image/jpeg"}`, string(entries[0]))
	assert.Equal(t, "extmetadata|commonmetadata|size|dimensions|mime|mediatype", q.Get("iiprop"))
	assert.Equal(t, "latest", q.Get("iimetadataversion"))
}

func TestImageInfo_Missing(t *testing.T) {
	c, _ := newTestClient(t, `{"query":{"pages":{"-1":{"title":"File:Gone.jpg","missing":""}}}}`)
	_, err := c.ImageInfo(context.Background(), "File:Gone.jpg", "", PropMetadata)
	assert.True(t, errors.Is(err, model.ErrMissingField))
}

func TestAPIErrorEnvelope(t *testing.T) {
	c, _ := newTestClient(t, `{"error":{"code":"badvalue","info":"Unrecognized value for parameter \"clshow\"."}}`)
	_, err := c.VisibleCategories(context.Background(), "File:X.jpg", "")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "badvalue", apiErr.Code)
	assert.True(t, errors.Is(err, ErrAPI))
}

func TestHTTPStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(request.New(nil, request.ClientConfig{}), nil)
	c.APIEndpoint = ts.URL
	_, err := c.CategoryFiles(context.Background(), "Category:X", "")
	assert.True(t, errors.Is(err, request.ErrStatus))
}
