package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"commonsmeta/pkg/tracker"
	"commonsmeta/pkg/version"
)

var (
	defaultUserAgent = fmt.Sprintf("commonsmeta/%s (Wikimedia Commons metadata harvester)", version.Version)
)

// ErrStatus is matched by every StatusError.
var ErrStatus = errors.New("api error")

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error: status %d", e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// ClientConfig holds request settings.
type ClientConfig struct {
	UserAgent string
	Timeout   time.Duration // 0 disables the client-side timeout
	Logger    *slog.Logger  // request log; slog.Default() if nil
}

// Client performs GET requests one at a time and tracks outcomes per provider.
// A single http.Client is shared so connections to a host are reused.
type Client struct {
	httpClient *http.Client
	tracker    *tracker.Tracker
	userAgent  string
	logger     *slog.Logger
}

// New creates a new Client.
func New(t *tracker.Tracker, cfg ClientConfig) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if t == nil {
		t = tracker.New()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracker:    t,
		userAgent:  ua,
		logger:     logger,
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil)
}

// GetWithHeaders performs a GET request with custom headers.
// A User-Agent header in headers replaces the configured one.
func (c *Client) GetWithHeaders(ctx context.Context, u string, headers map[string]string) ([]byte, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	provider := normalizeProvider(parsedURL.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Apply User-Agent (Default if not provided)
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	body, err := c.execute(req)
	if err != nil {
		c.tracker.TrackAPIFailure(provider)
		return nil, err
	}
	c.tracker.TrackAPISuccess(provider, len(body))
	return body, nil
}

// TrackZero lets API clients report a lookup that matched nothing.
func (c *Client) TrackZero(u string) {
	if parsed, err := url.Parse(u); err == nil {
		c.tracker.TrackAPIZero(normalizeProvider(parsed.Host))
	}
}

func (c *Client) execute(req *http.Request) ([]byte, error) {
	start := time.Now()
	c.logger.Debug("Network Request", "host", req.URL.Host, "query", req.URL.RawQuery)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Prefer the caller's cancellation over the wrapped transport error
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
		c.logger.Warn("Request failed", "host", req.URL.Host, "error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Warn("API error", "status", resp.StatusCode, "url", req.URL.String())
		return nil, &StatusError{Code: resp.StatusCode, URL: req.URL.String()}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	c.logger.Debug("Network Response", "host", req.URL.Host, "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

func normalizeProvider(host string) string {
	// Strip port so test servers and mirrors group by name
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	// Group all wikidata subdomains (www, query, etc.) into one "wikidata" provider
	if strings.HasSuffix(host, ".wikidata.org") || host == "wikidata.org" {
		return "wikidata"
	}
	if host == "commons.wikimedia.org" {
		return "commons"
	}
	if strings.HasSuffix(host, ".wikimedia.org") {
		return "wikimedia"
	}
	if strings.HasSuffix(host, ".wikipedia.org") || host == "wikipedia.org" {
		return "wikipedia"
	}
	return host
}
