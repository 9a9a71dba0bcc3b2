package commons

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"commonsmeta/pkg/dedupe"
	"commonsmeta/pkg/model"
)

// CategoryFilter selects hidden or visible categories.
type CategoryFilter string

const (
	Visible CategoryFilter = "!hidden"
	Hidden  CategoryFilter = "hidden"
)

// CategoryFiles lists the file pages that are direct members of a category,
// in response order. Only one page of PageLimit results is fetched.
func (c *Client) CategoryFiles(ctx context.Context, category, lang string) ([]model.Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("generator", "categorymembers")
	params.Set("gcmtitle", category)
	params.Set("gcmnamespace", strconv.Itoa(model.NamespaceFile))
	params.Set("gcmlimit", strconv.Itoa(c.pageLimit()))

	var resp queryResponse
	if err := c.get(ctx, lang, params, &resp); err != nil {
		return nil, fmt.Errorf("list files of %s: %w", category, err)
	}
	c.logTruncation(&resp, category)

	pages, err := resp.pages()
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", category, err)
	}
	if len(pages) == 0 {
		c.trackZero(lang)
		return []model.Page{}, nil
	}

	out := make([]model.Page, 0, len(pages))
	for i := range pages {
		out = append(out, pages[i].Page)
	}
	return out, nil
}

// Subcategories lists the direct subcategories of a category, in response order.
func (c *Client) Subcategories(ctx context.Context, category, lang string) ([]model.Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "categorymembers")
	params.Set("cmtitle", category)
	params.Set("cmtype", "subcat")
	params.Set("cmlimit", strconv.Itoa(c.pageLimit()))

	var resp queryResponse
	if err := c.get(ctx, lang, params, &resp); err != nil {
		return nil, fmt.Errorf("list subcategories of %s: %w", category, err)
	}
	c.logTruncation(&resp, category)

	if resp.Query == nil || len(resp.Query.CategoryMembers) == 0 {
		c.trackZero(lang)
		return []model.Page{}, nil
	}
	return resp.Query.CategoryMembers, nil
}

// FileCategories returns the titles of the categories a file belongs to,
// restricted by filter. A deleted or invalid title fails with
// model.ErrMissingField; an existing file without such categories yields
// an empty list.
func (c *Client) FileCategories(ctx context.Context, file, lang string, filter CategoryFilter) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "categories")
	params.Set("titles", file)
	params.Set("clshow", string(filter))
	params.Set("cllimit", "max")

	var resp queryResponse
	if err := c.get(ctx, lang, params, &resp); err != nil {
		return nil, fmt.Errorf("categories of %s: %w", file, err)
	}

	p, err := resp.firstPage(file)
	if err != nil {
		return nil, err
	}
	if p.absent() {
		return nil, model.MissingField("categories", file)
	}
	if p.Categories == nil {
		return []string{}, nil
	}
	return model.Titles(*p.Categories), nil
}

// VisibleCategories returns the non-hidden categories of a file.
func (c *Client) VisibleCategories(ctx context.Context, file, lang string) ([]string, error) {
	return c.FileCategories(ctx, file, lang, Visible)
}

// HiddenCategories returns the hidden (maintenance) categories of a file.
func (c *Client) HiddenCategories(ctx context.Context, file, lang string) ([]string, error) {
	return c.FileCategories(ctx, file, lang, Hidden)
}

// AllCategories returns visible followed by hidden categories, without duplicates.
func (c *Client) AllCategories(ctx context.Context, file, lang string) ([]string, error) {
	visible, err := c.VisibleCategories(ctx, file, lang)
	if err != nil {
		return nil, err
	}
	hidden, err := c.HiddenCategories(ctx, file, lang)
	if err != nil {
		return nil, err
	}
	return dedupe.Ordered(append(visible, hidden...)), nil
}

func (c *Client) logTruncation(resp *queryResponse, category string) {
	if resp.Continue != nil {
		c.Logger.Debug("Listing truncated at page limit", "category", category, "limit", c.pageLimit())
	}
}
