package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Pinger is implemented by *Client and faked in tests.
type Pinger interface {
	Ping(ctx context.Context) (Health, error)
}

var _ Pinger = (*Client)(nil)

// Client talks to the attendance backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "127.0.0.1:8080"
	defaultUserAgent = "beacon/0.1"
	requestTimeout   = 5 * time.Second
)

// Health is the outcome of one reachability check.
type Health struct {
	Reachable  bool
	StatusCode int
	Latency    time.Duration
}

// NewClient builds a Client for the backend at baseURL.
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

// BaseURL returns the normalized backend URL, as advertised in payloads.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// Ping issues GET / and treats any status below 500 as reachable. The
// backend may require auth on its root, so 401 and 404 still mean it is up.
func (c *Client) Ping(ctx context.Context) (Health, error) {
	if c == nil {
		return Health{}, fmt.Errorf("client is nil")
	}
	started := time.Now()
	status, err := c.do(ctx, http.MethodGet, "/")
	h := Health{StatusCode: status, Latency: time.Since(started)}
	if err != nil {
		return h, err
	}
	if status >= 500 {
		return h, fmt.Errorf("backend returned status %d", status)
	}
	h.Reachable = true
	return h, nil
}

func (c *Client) do(ctx context.Context, method, path string) (int, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
