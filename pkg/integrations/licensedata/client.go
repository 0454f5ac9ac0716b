// Package licensedata fetches canonical license texts from the SPDX
// license-list-data repository.
//
// Texts are addressed by SPDX identifier and served as plain text from
// https://github.com/spdx/license-list-data. Responses are cached with
// a long TTL because license texts change essentially never.
package licensedata

import (
	"context"
	"fmt"
	"time"

	"github.com/relengkit/attributor/pkg/cache"
	apperrors "github.com/relengkit/attributor/pkg/errors"
	"github.com/relengkit/attributor/pkg/integrations"
)

const baseURL = "https://raw.githubusercontent.com/spdx/license-list-data/refs/heads/main/text"

// Client fetches canonical license texts by SPDX identifier.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a license-data client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"User-Agent": "attributor/1.0 (https://github.com/relengkit/attributor)",
	}
	return &Client{
		Client:  integrations.NewClient(backend, "licensetext:", cacheTTL, headers),
		baseURL: baseURL,
	}
}

// FetchText retrieves the canonical text for one SPDX license identifier.
//
// If refresh is true, the cache is bypassed and a fresh download is made.
// Any response other than 200 means the attribution run cannot produce a
// complete license set, so every failure maps to a NETWORK_ERROR and
// nothing is retried.
func (c *Client) FetchText(ctx context.Context, id string, refresh bool) ([]byte, error) {
	if err := apperrors.ValidateLicenseID(id); err != nil {
		return nil, err
	}
	return c.CachedBytes(ctx, id, refresh, func() ([]byte, error) {
		text, err := c.GetText(ctx, fmt.Sprintf("%s/%s.txt", c.baseURL, id))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "download license text for %s", id)
		}
		return []byte(text), nil
	})
}
