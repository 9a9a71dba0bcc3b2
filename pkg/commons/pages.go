package commons

import (
	"encoding/json"
	"fmt"

	"commonsmeta/pkg/model"
	"commonsmeta/pkg/ordered"
)

// queryResponse is the subset of an action=query response the client reads.
type queryResponse struct {
	Continue json.RawMessage `json:"continue"`
	Query    *struct {
		Pages           ordered.Object `json:"pages"`
		CategoryMembers []model.Page   `json:"categorymembers"`
	} `json:"query"`
}

// page is one entry of query.pages.
type page struct {
	model.Page
	Missing    json.RawMessage   `json:"missing"`
	Invalid    json.RawMessage   `json:"invalid"`
	Categories *[]model.Page     `json:"categories"`
	ImageInfo  []json.RawMessage `json:"imageinfo"`
}

func (p *page) absent() bool {
	return p.Missing != nil || p.Invalid != nil
}

// pages decodes query.pages in document order.
func (r *queryResponse) pages() ([]page, error) {
	if r.Query == nil {
		return nil, nil
	}
	out := make([]page, 0, len(r.Query.Pages))
	for _, m := range r.Query.Pages {
		var p page
		if err := json.Unmarshal(m.Value, &p); err != nil {
			return nil, fmt.Errorf("page %s: %w", m.Key, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// firstPage returns the first page of a titles= query.
func (r *queryResponse) firstPage(title string) (*page, error) {
	pages, err := r.pages()
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, model.MissingField("pages", title)
	}
	return &pages[0], nil
}
