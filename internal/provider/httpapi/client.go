// Package httpapi is the caching HTTP layer shared by the Bitbucket
// dialects. It classifies response statuses into the model error taxonomy
// and stores successful bodies in the response cache.
package httpapi

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/avolkov/locstat/internal/cache"
	"github.com/avolkov/locstat/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client wraps an HTTP client with response caching and error
// classification. It is safe for concurrent use.
type Client struct {
	http  *cliex.HTTP
	cache *cache.Cache
	log   logze.Logger
}

// New creates a client for the given hosting server.
func New(cfg model.ProviderConfig, respCache *cache.Cache, log logze.Logger) (*Client, error) {
	cli, err := cliex.NewWithConfig(cliex.Config{
		BaseURL:        cfg.BaseURL,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to create HTTP client")
	}
	cli.C().SetAuthToken(cfg.Token)

	return &Client{
		http:  cli,
		cache: respCache,
		log:   log,
	}, nil
}

// GetJSON performs a GET request and unmarshals the JSON body into out.
// Warm-cache hits issue no network call. The returned error is one of the
// model sentinel errors for classifiable failures, or a wrapped transport
// error otherwise.
func (c *Client) GetJSON(ctx context.Context, url string, params map[string]string, out any) error {
	if body, ok := c.cache.Get(url, params); ok {
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
		// A corrupted cache entry is a miss, refetch below.
		c.log.Debug("ignoring corrupted cache entry", "url", url)
	}

	resp, err := c.http.C().R().SetContext(ctx).SetQueryParams(params).Get(url)
	if err != nil {
		return errm.Wrap(err, "request failed")
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		c.log.Warn("hosting server rejected credentials", "url", url, "status", code)
		return model.ErrAuth
	case code == http.StatusNotFound:
		c.log.Warn("resource not found, check the repository reference", "url", url)
		return model.ErrNotFound
	case code < 200 || code >= 300:
		return errm.New("unexpected status %d", code)
	}

	body := resp.Body()
	if err := json.Unmarshal(body, out); err != nil {
		c.log.Warn("response is not the expected JSON", "url", url, "error", err)
		return model.ErrMalformedResponse
	}

	c.cache.Set(url, params, body)
	return nil
}
