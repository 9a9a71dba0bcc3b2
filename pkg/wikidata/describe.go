package wikidata

import (
	"context"
	"fmt"
	"regexp"
)

var (
	reItemID   = regexp.MustCompile(`^Q[1-9][0-9]*$`)
	reLanguage = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

// describeTemplate asks for the location, heritage designation and, when
// recorded, street address and described-at URL of a heritage item.
const describeTemplate = `SELECT
  ?item ?itemLabel ?itemDescription
  ?locationLabel ?locationDescription
  ?streetLabel
  ?descriptionLabel
  ?heritageLabel
WHERE {
  VALUES ?item { wd:%s }
  ?item wdt:P131 ?location ;
        wdt:P1435 ?heritage .
  SERVICE wikibase:label { bd:serviceParam wikibase:language "%s". }
  OPTIONAL { ?item wdt:P6375 ?street ;
                   wdt:P973 ?description . }
}`

// ValidItemID reports whether id is a well-formed item id ("Q42").
func ValidItemID(id string) bool {
	return reItemID.MatchString(id)
}

// DescribeQuery builds the describe query for an item.
func DescribeQuery(id, lang string) (string, error) {
	if !ValidItemID(id) {
		return "", fmt.Errorf("%w: item id %q", ErrInvalidQuery, id)
	}
	if lang == "" {
		lang = "en"
	}
	if !reLanguage.MatchString(lang) {
		return "", fmt.Errorf("%w: language %q", ErrInvalidQuery, lang)
	}
	return fmt.Sprintf(describeTemplate, id, lang), nil
}

// Describe runs the describe query for an item. Items lacking a location or
// heritage designation yield no rows.
func (c *Client) Describe(ctx context.Context, id string) ([]Binding, error) {
	query, err := DescribeQuery(id, c.LabelLanguage)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Describing item", "qid", id)
	rows, err := c.QuerySPARQL(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", id, err)
	}
	return rows, nil
}
