package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"commonsmeta/pkg/ordered"
	"commonsmeta/pkg/request"
)

// DefaultSPARQLEndpoint is the Wikidata Query Service.
const DefaultSPARQLEndpoint = "https://query.wikidata.org/sparql"

// Client handles SPARQL queries.
type Client struct {
	request        *request.Client
	SPARQLEndpoint string
	LabelLanguage  string
	Logger         *slog.Logger
}

// NewClient creates a new Wikidata client.
func NewClient(r *request.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		request:        r,
		SPARQLEndpoint: DefaultSPARQLEndpoint,
		LabelLanguage:  "en",
		Logger:         logger,
	}
}

// Term is one bound variable of a result row.
type Term struct {
	Name  string
	Type  string // uri, literal, bnode
	Value string
	Lang  string
}

// Binding is one result row; terms keep the order of the response.
type Binding []Term

type sparqlResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []ordered.Object `json:"bindings"`
	} `json:"results"`
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Lang  string `json:"xml:lang"`
}

// QuerySPARQL executes a SPARQL SELECT query and returns its rows.
func (c *Client) QuerySPARQL(ctx context.Context, query string) ([]Binding, error) {
	u, err := url.Parse(c.SPARQLEndpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Add("query", query)
	q.Add("format", "json")
	u.RawQuery = q.Encode()

	headers := map[string]string{
		"Accept": "application/sparql-results+json",
	}

	body, err := c.request.GetWithHeaders(ctx, u.String(), headers)
	if err != nil {
		return nil, err
	}

	var result sparqlResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	rows, err := parseBindings(result)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		c.request.TrackZero(u.String())
	}
	return rows, nil
}

func parseBindings(resp sparqlResponse) ([]Binding, error) {
	rows := make([]Binding, 0, len(resp.Results.Bindings))
	for i, obj := range resp.Results.Bindings {
		row := make(Binding, 0, len(obj))
		for _, m := range obj {
			var v sparqlValue
			if err := json.Unmarshal(m.Value, &v); err != nil {
				return nil, fmt.Errorf("%w: row %d %s: %v", ErrParse, i, m.Key, err)
			}
			row = append(row, Term{Name: m.Key, Type: v.Type, Value: v.Value, Lang: v.Lang})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
