package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelet/internal/config"
)

func TestBuildAnthropicFromAPIKey(t *testing.T) {
	cfg := &config.Config{Providers: config.ProvidersConfig{
		Anthropic: config.AnthropicConfig{APIKey: "sk-ant-test"},
	}}
	p, err := Build(cfg, "", nil)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestBuildExplicitProviderMissingCredentialFails(t *testing.T) {
	cfg := &config.Config{}
	_, err := Build(cfg, "openai", nil)
	assert.Error(t, err)
}

func TestBuildNoCredentialsFails(t *testing.T) {
	cfg := &config.Config{}
	_, err := Build(cfg, "", nil)
	assert.Error(t, err)
}

func TestBuildUnsupportedProvider(t *testing.T) {
	cfg := &config.Config{}
	_, err := Build(cfg, "carrier-pigeon", nil)
	assert.Error(t, err)
}
