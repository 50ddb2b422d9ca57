package fetch

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/sha3"
)

// Default client settings.
const (
	// defaultMaxBodySize limits response bodies to 5MB. HTML documents are
	// far smaller in practice; the cap prevents memory exhaustion from
	// misbehaving servers.
	defaultMaxBodySize = 5 * 1024 * 1024

	// defaultTimeout is the per-request timeout.
	defaultTimeout = 30 * time.Second

	// maxRedirects bounds redirect chains.
	maxRedirects = 10
)

// ErrTooManyRedirects is returned when a redirect chain exceeds the limit.
var ErrTooManyRedirects = errors.New("too many redirects")

// Client fetches pages over HTTP(S).
//
// Design decision: We use a struct holding the http.Client rather than
// passing a client on each call because:
//  1. Client configuration (timeouts, redirect policy) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with a custom transport
type Client struct {
	// client is the underlying HTTP client.
	client *http.Client

	// userAgent is the User-Agent header sent with requests.
	userAgent string

	// maxBodySize limits the response body size in bytes.
	maxBodySize int64

	// headers are extra headers sent with every request, typically
	// authentication for pages behind a login.
	headers map[string]string

	// cookie is an optional Cookie header value.
	cookie string

	// timeout is the per-request timeout.
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeaders sets extra headers sent with every request.
// Used for site-specific authentication configured in the config file.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithCookie sets the Cookie header sent with every request.
// Format: "name=value" or "name1=value1; name2=value2".
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// Tests use this to install a custom transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// New creates a Client with the given options applied over the defaults.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent:   "adascan/1.0 (+https://github.com/ADACompany01/adascan)",
		maxBodySize: defaultMaxBodySize,
		timeout:     defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		}
	}

	return c
}

// Result holds a fetched page.
type Result struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP response status.
	StatusCode int

	// ContentType is the Content-Type response header.
	ContentType string

	// Body is the response body, truncated to the configured limit.
	Body []byte

	// Hash is the SHA3-256 hex digest of Body.
	// Used to detect whether a page changed between evaluations.
	Hash string
}

// Fetch retrieves the page at the given URL.
// The body is read up to the configured size limit; anything beyond is
// discarded. Non-2xx responses are returned as errors because a page that
// cannot be retrieved cannot be evaluated.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}

	hash := sha3.Sum256(body)

	return &Result{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Hash:        hex.EncodeToString(hash[:]),
	}, nil
}
