package commons

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"commonsmeta/pkg/model"
)

// Statement is one structured-data statement. Only the main snak is read.
type Statement struct {
	Mainsnak struct {
		SnakType  string `json:"snaktype"`
		Property  string `json:"property"`
		DataValue *struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

// TargetID returns the entity id the statement points to ("Q42").
// "somevalue"/"novalue" snaks and non-entity values have none.
func (s *Statement) TargetID() (string, error) {
	dv := s.Mainsnak.DataValue
	if dv == nil {
		return "", model.MissingField("mainsnak.datavalue", s.Mainsnak.Property)
	}
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(dv.Value, &v); err != nil || v.ID == "" {
		return "", model.MissingField("mainsnak.datavalue.value.id", s.Mainsnak.Property)
	}
	return v.ID, nil
}

// Statements maps property ids to statements. The API encodes an empty
// set as [] rather than {}.
type Statements map[string][]Statement

func (s *Statements) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("[]")) || bytes.Equal(trimmed, []byte("null")) {
		*s = Statements{}
		return nil
	}
	m := map[string][]Statement{}
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

// MediaInfo is the structured-data entity of a file page.
type MediaInfo struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Missing    json.RawMessage `json:"missing"`
	Statements Statements      `json:"statements"`
}

// Exists reports whether the file has a structured-data entity at all.
func (m *MediaInfo) Exists() bool {
	return m.Missing == nil
}

type entitiesResponse struct {
	Entities map[string]json.RawMessage `json:"entities"`
}

func (c *Client) entity(ctx context.Context, lang string, params url.Values, id string, v any) error {
	params.Set("action", "wbgetentities")
	params.Set("ids", id)

	var resp entitiesResponse
	if err := c.get(ctx, lang, params, &resp); err != nil {
		return fmt.Errorf("entity %s: %w", id, err)
	}
	raw, ok := resp.Entities[id]
	if !ok {
		c.trackZero(lang)
		return fmt.Errorf("%w: %s not in response", ErrEntityNotFound, id)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("entity %s: %w", id, err)
	}
	return nil
}

// MediaInfo fetches the structured-data entity with the given media id ("M123").
// A file without structured data yields a MediaInfo that does not Exist.
func (c *Client) MediaInfo(ctx context.Context, mediaID, lang string) (*MediaInfo, error) {
	var m MediaInfo
	if err := c.entity(ctx, lang, url.Values{}, mediaID, &m); err != nil {
		return nil, err
	}
	if m.Statements == nil {
		m.Statements = Statements{}
	}
	return &m, nil
}

// EntityLabel returns the label of an entity in labelLang.
// A missing entity or label fails with ErrEntityNotFound.
func (c *Client) EntityLabel(ctx context.Context, id, labelLang, lang string) (string, error) {
	params := url.Values{}
	params.Set("props", "labels")
	params.Set("languages", labelLang)

	var ent struct {
		Missing json.RawMessage `json:"missing"`
		Labels  map[string]struct {
			Value string `json:"value"`
		} `json:"labels"`
	}
	if err := c.entity(ctx, lang, params, id, &ent); err != nil {
		return "", err
	}
	if ent.Missing != nil {
		c.trackZero(lang)
		return "", fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	lbl, ok := ent.Labels[labelLang]
	if !ok || lbl.Value == "" {
		return "", fmt.Errorf("%w: %s has no %s label", ErrEntityNotFound, id, labelLang)
	}
	return lbl.Value, nil
}
