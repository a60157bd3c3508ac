package provider

import (
	"slices"
	"strings"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

type ProviderType string

// Supported hosting dialects.
const (
	BitbucketServer ProviderType = "bitbucket-server"
	BitbucketCloud  ProviderType = "bitbucket-cloud"
	GitHub          ProviderType = "github"
)

var supportedProviderTypes = []ProviderType{BitbucketServer, BitbucketCloud, GitHub}

const (
	defaultRequestTimeout = 30 * time.Second
	bitbucketCloudHost    = "api.bitbucket.org"
)

// Config represents hosting provider configuration.
type Config struct {
	Type           ProviderType  `yaml:"type" env:"PROVIDER_TYPE"`
	BaseURL        string        `yaml:"base_url" env:"PROVIDER_BASE_URL"`
	Token          string        `yaml:"token" env:"PROVIDER_TOKEN"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"PROVIDER_REQUEST_TIMEOUT"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"PROVIDER_CACHE_TTL"`
	PageSize       int           `yaml:"page_size" env:"PROVIDER_PAGE_SIZE"`
}

func (c *Config) PrepareAndValidate() error {
	if c.Token == "" {
		return errm.New("token is required")
	}

	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Type == "" {
		c.Type = detectType(c.BaseURL)
	}
	if !slices.Contains(supportedProviderTypes, c.Type) {
		return errm.New("unsupported provider type: %s", c.Type)
	}

	c.RequestTimeout = lang.Check(c.RequestTimeout, defaultRequestTimeout)
	c.PageSize = lang.Check(c.PageSize, 100)

	return nil
}

// detectType guesses the dialect from the base URL: anything that is not
// Bitbucket Cloud is assumed to be a self-hosted Bitbucket Server.
func detectType(baseURL string) ProviderType {
	if baseURL == "" || strings.Contains(baseURL, bitbucketCloudHost) {
		return BitbucketCloud
	}
	return BitbucketServer
}
