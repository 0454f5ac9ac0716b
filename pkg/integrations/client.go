package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/relengkit/attributor/pkg/cache"
	apperrors "github.com/relengkit/attributor/pkg/errors"
)

// Client provides shared HTTP functionality for the registry and
// license-data clients. It handles response caching and common request
// headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client backed by the given cache. Keys passed to
// [Client.Cached] and [Client.CachedBytes] are namespaced with prefix so
// multiple clients can share one backend. Pass nil for headers if no
// default headers are needed.
func NewClient(backend cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(),
		cache:   backend,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
	}
}

// Cached retrieves a JSON value from cache or executes fetch and caches
// the result. If refresh is true, the cache is bypassed and fetch is
// always called. The fetch function should populate v; on success, v is
// stored under the namespaced key. Fetch runs at most once; callers
// that want retries wrap fetch in [cache.RetryWithBackoff].
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	cacheKey := c.prefix + key
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, cacheKey); ok {
			if err := json.Unmarshal(data, v); err == nil {
				return nil
			}
		}
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, cacheKey, data, c.ttl)
	}
	return nil
}

// CachedBytes is the raw-payload variant of [Client.Cached] for
// endpoints that serve plain text rather than JSON.
func (c *Client) CachedBytes(ctx context.Context, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	cacheKey := c.prefix + key
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, cacheKey); ok {
			return data, nil
		}
	}
	data, err := fetch()
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, cacheKey, data, c.ttl)
	return data, nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a string.
// Useful for non-JSON endpoints like license texts.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return cache.Retryable(&apperrors.RateLimitedError{RetryAfter: retryAfterSeconds(resp)})
	case resp.StatusCode >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
}

// retryAfterSeconds parses the Retry-After header as a delay in seconds.
// HTTP-date values are ignored; registries send plain seconds.
func retryAfterSeconds(resp *http.Response) int {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return secs
		}
	}
	return 0
}
