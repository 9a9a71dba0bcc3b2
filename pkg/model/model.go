package model

import "strconv"

// Namespace numbers used by the Commons API.
const (
	NamespaceFile     = 6
	NamespaceCategory = 14
)

// Page is a page as returned in a query response.
// The ID is only meaningful within the response it came from.
type Page struct {
	ID        int    `json:"pageid"`
	Namespace int    `json:"ns"`
	Title     string `json:"title"`
}

// MediaID returns the structured-data entity id of a file page ("M" + page id).
func (p Page) MediaID() string {
	return "M" + strconv.Itoa(p.ID)
}

// Depiction is a knowledge-base entity depicted by a file.
type Depiction struct {
	ID    string `json:"id"`    // e.g. "Q42"
	Label string `json:"label"` // label in the requested language
}

// Titles returns the titles of the given pages, in order.
func Titles(pages []Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.Title)
	}
	return out
}
