package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProviderExplicitWins(t *testing.T) {
	cfg := &Config{Providers: ProvidersConfig{Provider: "openai", Anthropic: AnthropicConfig{APIKey: "x"}}}
	assert.Equal(t, "openai", DetectProvider(cfg))
}

func TestDetectProviderPrecedenceOrder(t *testing.T) {
	cfg := &Config{Providers: ProvidersConfig{
		Anthropic: AnthropicConfig{APIKey: "sk-ant"},
		Google:    GoogleConfig{APIKey: "g-key"},
		OpenAI:    OpenAIConfig{APIKey: "o-key"},
	}}
	assert.Equal(t, "anthropic", DetectProvider(cfg))
}

func TestDetectProviderFallsThroughToOpenAI(t *testing.T) {
	cfg := &Config{Providers: ProvidersConfig{OpenAI: OpenAIConfig{APIKey: "o-key"}}}
	assert.Equal(t, "openai", DetectProvider(cfg))
}

func TestDetectProviderNoneConfigured(t *testing.T) {
	assert.Equal(t, "", DetectProvider(&Config{}))
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/codelet-test\nmax_depth: 42\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/codelet-test", cfg.DataDir)
	assert.Equal(t, 42, cfg.MaxDepth)
}
