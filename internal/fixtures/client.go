package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/reels"
)

// Source provides the four fixture sets. *Client and *Local implement it.
type Source interface {
	FetchCatalog(ctx context.Context) ([]catalog.Entry, error)
	FetchVideos(ctx context.Context) ([]reels.VideoSource, error)
	FetchAds(ctx context.Context) ([]reels.AdSource, error)
	FetchTrending(ctx context.Context) ([]string, error)
}

var _ Source = (*Client)(nil)

// Client fetches fixtures over HTTP from <base>/<name>.json.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "nearby/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the given base URL. A bare host:port is
// treated as http.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchCatalog retrieves catalog.json.
func (c *Client) FetchCatalog(ctx context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	if err := c.fetch(ctx, "catalog", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchVideos retrieves reels.json.
func (c *Client) FetchVideos(ctx context.Context) ([]reels.VideoSource, error) {
	var videos []reels.VideoSource
	if err := c.fetch(ctx, "reels", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// FetchAds retrieves ads.json.
func (c *Client) FetchAds(ctx context.Context) ([]reels.AdSource, error) {
	var ads []reels.AdSource
	if err := c.fetch(ctx, "ads", &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// FetchTrending retrieves trending.json.
func (c *Client) FetchTrending(ctx context.Context) ([]string, error) {
	var terms []string
	if err := c.fetch(ctx, "trending", &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

func (c *Client) fetch(ctx context.Context, name string, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.JoinPath(name + ".json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("fixture %s returned status %d", name, resp.StatusCode)
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return decodeList(raw, name, dest)
}

// decodeList accepts either a bare array or an object wrapping the array
// under the fixture name, e.g. {"reels": [...]}.
func decodeList(raw []byte, name string, dest any) error {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		inner, ok := wrapped[name]
		if !ok {
			return fmt.Errorf("decode %s: object has no %q field", name, name)
		}
		raw = inner
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("fixtures url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse fixtures_url %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
