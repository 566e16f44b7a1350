package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"codelet/internal/config"
)

// codexOAuthClientID is the Codex CLI's public OAuth client, the same one
// `codex login` registers auth.json against.
const codexOAuthClientID = "app_EMoamEEZ73f0CkXaXp7hrann"

var codexOAuthEndpoint = oauth2.Endpoint{
	TokenURL: "https://auth.openai.com/oauth/token",
}

type codexAuthFile struct {
	OpenAIAPIKey string `json:"OPENAI_API_KEY"`
	Tokens       struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
	} `json:"tokens"`
	LastRefresh string `json:"last_refresh"`
}

// codexOpenAIConfig reads the Codex CLI's auth.json, refreshes its access
// token when a refresh token is present, and projects the result onto
// config.OpenAIConfig, since Codex speaks the OpenAI Responses API.
func codexOpenAIConfig(cfg *config.Config) (config.OpenAIConfig, error) {
	path := cfg.Providers.Codex.AuthFilePath
	data, err := os.ReadFile(path)
	if err != nil {
		return config.OpenAIConfig{}, fmt.Errorf("providers: codex auth file %s unreadable: %w", path, err)
	}

	var auth codexAuthFile
	if err := json.Unmarshal(data, &auth); err != nil {
		return config.OpenAIConfig{}, fmt.Errorf("providers: parse codex auth file: %w", err)
	}

	key := strings.TrimSpace(auth.OpenAIAPIKey)
	if key == "" {
		key = strings.TrimSpace(auth.Tokens.AccessToken)
	}
	if refreshToken := strings.TrimSpace(auth.Tokens.RefreshToken); refreshToken != "" {
		if refreshed, err := refreshCodexAccessToken(context.Background(), refreshToken); err == nil {
			key = refreshed.AccessToken
			auth.Tokens.AccessToken = refreshed.AccessToken
			if refreshed.RefreshToken != "" {
				auth.Tokens.RefreshToken = refreshed.RefreshToken
			}
			auth.LastRefresh = time.Now().UTC().Format(time.RFC3339)
			if updated, err := json.MarshalIndent(auth, "", "  "); err == nil {
				_ = os.WriteFile(path, updated, 0o600)
			}
		}
	}
	if key == "" {
		return config.OpenAIConfig{}, fmt.Errorf("providers: codex auth file %s has no usable credential", path)
	}

	model := strings.TrimSpace(cfg.Providers.OpenAI.Model)
	if model == "" {
		model = "gpt-5-codex"
	}

	return config.OpenAIConfig{
		APIKey:  key,
		Model:   model,
		BaseURL: "https://chatgpt.com/backend-api/codex",
		API:     "responses",
	}, nil
}

// refreshCodexAccessToken exchanges refreshToken for a fresh access token
// against the same OAuth endpoint `codex login` uses, so a session started
// from a stale auth.json doesn't fail on its first request.
func refreshCodexAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	conf := &oauth2.Config{
		ClientID: codexOAuthClientID,
		Endpoint: codexOAuthEndpoint,
	}
	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return src.Token()
}
