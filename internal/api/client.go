package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrcrawfo/contxt-go/internal/logging"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Client talks to one Contxt service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource sets the bearer token source. Without one, requests are
// sent unauthenticated.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient returns a client rooted at baseURL. Request paths are resolved
// relative to it.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "contxt-go",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// resolve joins an escaped request path onto the base URL. Escaped
// separators such as %2F stay inside their segment.
func (c *Client) resolve(path string, params url.Values) (string, error) {
	rel := strings.TrimPrefix(path, "/")
	unescaped, err := url.PathUnescape(rel)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	u := c.baseURL.ResolveReference(&url.URL{Path: unescaped, RawPath: rel})
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String(), nil
}

// Get issues a GET for path and decodes the JSON body. Path segments built
// from caller input must be escaped with url.PathEscape.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (any, error) {
	log := logging.FromContext(ctx)
	target, err := c.resolve(path, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if id := logging.TraceIDFromContext(ctx); id != "" {
		req.Header.Set(logging.TraceHeader, id)
	}
	if c.tokens != nil {
		token, tokenErr := c.tokens.Token(ctx)
		if tokenErr != nil {
			return nil, fmt.Errorf("getting access token: %w", tokenErr)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Ctx(ctx).
		Str("component", "api").
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     http.MethodGet,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	v, err := mapping.DecodeValue(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", target, err)
	}
	return v, nil
}

// FetchSingle fetches a single JSON object.
func (c *Client) FetchSingle(ctx context.Context, path string, params url.Values) (mapping.Record, error) {
	v, err := c.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected object, got %T", ErrUnexpectedShape, path, v)
	}
	return rec, nil
}

// FetchList fetches a JSON array of objects. With keys, the array is read
// from nested objects of the body, one key per level; a missing key is an
// ErrUnexpectedShape.
func (c *Client) FetchList(ctx context.Context, path string, params url.Values, keys ...string) ([]mapping.Record, error) {
	v, err := c.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: expected object above %q, got %T", ErrUnexpectedShape, path, key, v)
		}
		if v, ok = obj[key]; !ok {
			return nil, fmt.Errorf("%w: %s: missing %q", ErrUnexpectedShape, path, key)
		}
	}
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected array, got %T", ErrUnexpectedShape, path, v)
	}
	return toRecords(path, items)
}

func toRecords(path string, items []any) ([]mapping.Record, error) {
	out := make([]mapping.Record, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: record %d is %T, not an object", ErrUnexpectedShape, path, i, item)
		}
		out = append(out, rec)
	}
	return out, nil
}

func cloneParams(params url.Values) url.Values {
	out := make(url.Values, len(params)+2)
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	return out
}
