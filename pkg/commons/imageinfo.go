package commons

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"commonsmeta/pkg/model"
)

// imageinfo properties.
const (
	PropMetadata       = "metadata"
	PropExtMetadata    = "extmetadata"
	PropCommonMetadata = "commonmetadata"
	PropSize           = "size"
	PropDimensions     = "dimensions"
	PropMIME           = "mime"
	PropMediaType      = "mediatype"
)

// FullProps is the property set used for a complete dump of a file.
var FullProps = []string{PropExtMetadata, PropCommonMetadata, PropSize, PropDimensions, PropMIME, PropMediaType}

// ImageInfo returns the raw imageinfo entries of a file for the given
// properties. Each entry is a JSON object whose key order is preserved.
func (c *Client) ImageInfo(ctx context.Context, file, lang string, props ...string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "imageinfo")
	params.Set("titles", file)
	params.Set("iiprop", strings.Join(props, "|"))
	params.Set("iimetadataversion", "latest")

	var resp queryResponse
	if err := c.get(ctx, lang, params, &resp); err != nil {
		return nil, fmt.Errorf("imageinfo of %s: %w", file, err)
	}

	p, err := resp.firstPage(file)
	if err != nil {
		return nil, err
	}
	if p.ImageInfo == nil {
		return nil, model.MissingField("imageinfo", file)
	}
	return p.ImageInfo, nil
}
