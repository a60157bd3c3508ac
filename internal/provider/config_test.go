package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPrepareAndValidate(t *testing.T) {
	cfg := Config{Token: "secret", BaseURL: "https://stash.example.com/"}
	require.NoError(t, cfg.PrepareAndValidate())

	assert.Equal(t, BitbucketServer, cfg.Type, "self-hosted URL detects the server dialect")
	assert.Equal(t, "https://stash.example.com", cfg.BaseURL, "trailing slash is stripped")
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 100, cfg.PageSize)
}

func TestConfigDetectsCloud(t *testing.T) {
	cfg := Config{Token: "secret"}
	require.NoError(t, cfg.PrepareAndValidate())
	assert.Equal(t, BitbucketCloud, cfg.Type, "no base URL means the public cloud")

	cfg = Config{Token: "secret", BaseURL: "https://api.bitbucket.org/2.0"}
	require.NoError(t, cfg.PrepareAndValidate())
	assert.Equal(t, BitbucketCloud, cfg.Type)
}

func TestConfigExplicitTypeWins(t *testing.T) {
	cfg := Config{Token: "secret", Type: GitHub}
	require.NoError(t, cfg.PrepareAndValidate())
	assert.Equal(t, GitHub, cfg.Type)
}

func TestConfigRejectsBadInput(t *testing.T) {
	cfg := Config{BaseURL: "https://stash.example.com"}
	assert.Error(t, cfg.PrepareAndValidate(), "token is mandatory")

	cfg = Config{Token: "secret", Type: "gitea"}
	assert.Error(t, cfg.PrepareAndValidate())
}
