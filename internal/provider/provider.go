// Package provider selects and constructs a hosting dialect. The dialect
// is chosen once here; nothing downstream branches on the hosting type.
package provider

import (
	"github.com/maxbolgarin/erro"

	"github.com/avolkov/locstat/internal/cache"
	"github.com/avolkov/locstat/internal/model"
	"github.com/avolkov/locstat/internal/model/interfaces"
	"github.com/avolkov/locstat/internal/provider/bitbucket"
	"github.com/avolkov/locstat/internal/provider/cloud"
	"github.com/avolkov/locstat/internal/provider/github"
)

// New creates a commit provider based on the configuration.
func New(cfg Config, respCache *cache.Cache) (interfaces.CommitProvider, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	cfgForProvider := model.ProviderConfig{
		BaseURL:        cfg.BaseURL,
		Token:          cfg.Token,
		RequestTimeout: cfg.RequestTimeout,
		PageSize:       cfg.PageSize,
	}

	var prov interfaces.CommitProvider
	var err error

	switch cfg.Type {
	case BitbucketServer:
		prov, err = bitbucket.New(cfgForProvider, respCache)
	case BitbucketCloud:
		prov, err = cloud.New(cfgForProvider, respCache)
	case GitHub:
		prov, err = github.New(cfgForProvider)
	default:
		return nil, erro.New("unsupported provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, erro.Wrap(err, "failed to create provider")
	}

	return prov, nil
}
