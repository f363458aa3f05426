package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/spread/pkg/observability"
)

// Client provides shared HTTP functionality for registry and artifact requests.
// It applies default headers and memoises documents for the lifetime of the
// client. Requests are attempted once; there is no retry.
type Client struct {
	http    *http.Client
	memo    *lru.Cache[string, []byte]
	headers map[string]string
}

// NewClient creates a Client with the given request timeout, memo capacity
// and default headers. A memoSize of zero or less disables memoisation.
// Pass nil for headers if no default headers are needed.
func NewClient(timeout time.Duration, memoSize int, headers map[string]string) *Client {
	c := &Client{
		http:    NewHTTPClient(timeout),
		headers: headers,
	}
	if memoSize > 0 {
		// lru.New only fails for a non-positive size.
		c.memo, _ = lru.New[string, []byte](memoSize)
	}
	return c
}

// Cached returns the memoised payload for key, or calls fetch and memoises
// its result. Failed fetches are not memoised.
func (c *Client) Cached(ctx context.Context, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if c.memo != nil {
		if data, ok := c.memo.Get(key); ok {
			observability.Memo().OnMemoHit(ctx, key)
			return data, nil
		}
		observability.Memo().OnMemoMiss(ctx, key)
	}
	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if c.memo != nil {
		c.memo.Add(key, data)
	}
	return data, nil
}

// GetCached performs a memoised GET and JSON-decodes the body into v.
func (c *Client) GetCached(ctx context.Context, rawURL string, v any) error {
	data, err := c.Cached(ctx, rawURL, func() ([]byte, error) {
		return c.GetBytes(ctx, rawURL)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	data, err := c.GetBytes(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, rawURL string) (string, error) {
	data, err := c.GetBytes(ctx, rawURL)
	return string(data), err
}

// GetBytes performs an HTTP GET request and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrNetwork, rawURL, err)
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := requestTarget(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func requestTarget(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
