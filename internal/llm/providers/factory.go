// Package providers builds an llm.Provider from configuration, either via
// an explicit name or by auto-detecting whichever credentials are present.
package providers

import (
	"fmt"
	"net/http"
	"strings"

	"codelet/internal/config"
	"codelet/internal/llm"
	"codelet/internal/llm/anthropic"
	"codelet/internal/llm/google"
	openaillm "codelet/internal/llm/openai"
)

// Build constructs an llm.Provider for the given name. An empty name
// auto-detects via config.DetectProvider and fails if nothing is
// configured; an explicit name that lacks credentials fails loudly rather
// than silently falling back to another provider.
func Build(cfg *config.Config, name string, httpClient *http.Client) (llm.Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(name))
	if provider == "" {
		provider = config.DetectProvider(cfg)
	}
	if provider == "" {
		return nil, fmt.Errorf("providers: no provider specified and no credentials detected")
	}

	switch provider {
	case "anthropic", "claude":
		if strings.TrimSpace(cfg.Providers.Anthropic.APIKey) == "" && strings.TrimSpace(cfg.Providers.Anthropic.OAuthToken) == "" {
			return nil, fmt.Errorf("providers: anthropic selected but no api key or oauth token configured")
		}
		return anthropic.New(cfg.Providers.Anthropic, httpClient), nil

	case "google", "gemini":
		if strings.TrimSpace(cfg.Providers.Google.APIKey) == "" {
			return nil, fmt.Errorf("providers: google selected but no api key configured")
		}
		return google.New(cfg.Providers.Google, httpClient)

	case "openai":
		if strings.TrimSpace(cfg.Providers.OpenAI.APIKey) == "" {
			return nil, fmt.Errorf("providers: openai selected but no api key configured")
		}
		return openaillm.New(cfg.Providers.OpenAI, httpClient), nil

	case "codex":
		oc, err := codexOpenAIConfig(cfg)
		if err != nil {
			return nil, err
		}
		return openaillm.New(oc, httpClient), nil

	case "zai", "z.ai", "glm":
		if strings.TrimSpace(cfg.Providers.ZAI.APIKey) == "" {
			return nil, fmt.Errorf("providers: zai selected but no api key configured")
		}
		oc := config.OpenAIConfig{
			APIKey:  cfg.Providers.ZAI.APIKey,
			Model:   cfg.Providers.ZAI.Model,
			BaseURL: zaiBaseURL(cfg.Providers.ZAI.BaseURL),
			API:     "completions",
		}
		return openaillm.New(oc, httpClient), nil

	default:
		return nil, fmt.Errorf("providers: unsupported provider %q", provider)
	}
}

func zaiBaseURL(configured string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return "https://open.bigmodel.cn/api/paas/v4"
}
