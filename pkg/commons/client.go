package commons

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"commonsmeta/pkg/logging"
	"commonsmeta/pkg/request"
)

const (
	// DefaultLang selects commons.wikimedia.org.
	DefaultLang = "commons"
	// DefaultPageLimit is the largest page size the API grants anonymous clients.
	DefaultPageLimit = 500

	endpointFormat = "https://%s.wikimedia.org/w/api.php"
)

// Client handles MediaWiki API interactions with Wikimedia Commons.
type Client struct {
	request     *request.Client
	APIEndpoint string // Optional override for testing or mirrors; ignores lang
	PageLimit   int
	Logger      *slog.Logger
}

// NewClient creates a new Commons client.
func NewClient(r *request.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		request:   r,
		PageLimit: DefaultPageLimit,
		Logger:    logger,
	}
}

func (c *Client) endpoint(lang string) string {
	if c.APIEndpoint != "" {
		return c.APIEndpoint
	}
	if lang == "" {
		lang = DefaultLang
	}
	return fmt.Sprintf(endpointFormat, lang)
}

func (c *Client) pageLimit() int {
	if c.PageLimit <= 0 || c.PageLimit > DefaultPageLimit {
		return DefaultPageLimit
	}
	return c.PageLimit
}

// get performs one API call and decodes the body into v.
// An "error" envelope is returned as *APIError.
func (c *Client) get(ctx context.Context, lang string, params url.Values, v any) error {
	u, err := url.Parse(c.endpoint(lang))
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	params.Set("format", "json")
	u.RawQuery = params.Encode()

	body, err := c.request.Get(ctx, u.String())
	if err != nil {
		return err
	}
	logging.Trace(c.Logger, "API response", "action", params.Get("action"), "body", string(body))

	var env struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode json: %w", err)
	}
	if env.Error != nil {
		return env.Error
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode json: %w", err)
	}
	return nil
}

// trackZero reports an empty lookup against the endpoint's provider.
func (c *Client) trackZero(lang string) {
	c.request.TrackZero(c.endpoint(lang))
}
