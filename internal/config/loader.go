package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Load loads a .env file from the current working directory into the
// process environment, reads path (if it exists) as YAML, then overlays environment variables on top of the
// file, returning a fully defaulted Config.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CODELET_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CODELET_MAX_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CODELET_TOOL_CONCURRENCY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ToolConcurrency = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CODELET_PROVIDER")); v != "" {
		cfg.Providers.Provider = v
	}

	if v := strings.TrimSpace(os.Getenv("CODELET_REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := strings.TrimSpace(os.Getenv("CODELET_REDIS_PASSWORD")); v != "" {
		cfg.Redis.Password = v
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		cfg.Providers.Anthropic.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_OAUTH_TOKEN")); v != "" {
		cfg.Providers.Anthropic.OAuthToken = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_MODEL")); v != "" {
		cfg.Providers.Anthropic.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL")); v != "" {
		cfg.Providers.Anthropic.BaseURL = v
	}

	if v := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); v != "" {
		cfg.Providers.Google.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_MODEL")); v != "" {
		cfg.Providers.Google.Model = v
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.Providers.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		cfg.Providers.OpenAI.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.Providers.OpenAI.BaseURL = v
	}

	if v := strings.TrimSpace(os.Getenv("CODEX_AUTH_FILE")); v != "" {
		cfg.Providers.Codex.AuthFilePath = v
	}

	if v := strings.TrimSpace(os.Getenv("ZAI_API_KEY")); v != "" {
		cfg.Providers.ZAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("ZAI_MODEL")); v != "" {
		cfg.Providers.ZAI.Model = v
	}

	if v := strings.TrimSpace(os.Getenv("CODELET_DEBUG")); v != "" {
		cfg.Debug.Enabled = v == "1" || strings.EqualFold(v, "true")
	}

	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		cfg.Obs.OTLP = v
		cfg.OTel.Enabled = true
	}
	if v := strings.TrimSpace(os.Getenv("CODELET_S3_BUCKET")); v != "" {
		if cfg.S3 == nil {
			cfg.S3 = &S3Config{}
		}
		cfg.S3.Bucket = v
	}

	if v := strings.TrimSpace(os.Getenv("SEARXNG_URL")); v != "" {
		cfg.WebFetch.SearXNGURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CODELET_CHROME_WS_URL")); v != "" {
		cfg.WebFetch.BrowserMode = "connect"
		cfg.WebFetch.BrowserWSURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CODELET_CHROME_PATH")); v != "" {
		if cfg.WebFetch.BrowserMode == "" {
			cfg.WebFetch.BrowserMode = "launch"
		}
		cfg.WebFetch.BrowserExecPath = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.DataDir = filepath.Join(home, ".codelet")
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Providers.Codex.AuthFilePath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Providers.Codex.AuthFilePath = filepath.Join(home, ".codex", "auth.json")
		}
	}
	if cfg.Debug.Dir == "" {
		cfg.Debug.Dir = filepath.Join(cfg.DataDir, "debug")
	}
	if cfg.OTel.ServiceName == "" {
		cfg.OTel.ServiceName = "codelet"
	}
	if cfg.Obs.ServiceName == "" {
		cfg.Obs.ServiceName = cfg.OTel.ServiceName
	}
	if cfg.Obs.ServiceVersion == "" {
		cfg.Obs.ServiceVersion = "dev"
	}
	if cfg.Compaction.KeepRecent <= 0 {
		cfg.Compaction.KeepRecent = 3
	}
	if cfg.WebFetch.SearXNGURL == "" {
		cfg.WebFetch.SearXNGURL = "https://searx.be"
	}
	if cfg.WebFetch.BrowserMode == "" {
		cfg.WebFetch.BrowserMode = "auto"
	}
	if cfg.WebFetch.IdleTimeoutSeconds <= 0 {
		cfg.WebFetch.IdleTimeoutSeconds = 300
	}

	pterm.Success.Println("configuration loaded")
}

// DetectProvider implements the credential-detection order: an explicit
// override always wins; otherwise Claude API key, Claude OAuth token,
// Gemini API key, Codex auth file, OpenAI API key, then Z.AI keys are
// checked in that order. Returns "" if nothing is configured.
func DetectProvider(cfg *Config) string {
	if p := strings.ToLower(strings.TrimSpace(cfg.Providers.Provider)); p != "" {
		return p
	}
	switch {
	case strings.TrimSpace(cfg.Providers.Anthropic.APIKey) != "":
		return "anthropic"
	case strings.TrimSpace(cfg.Providers.Anthropic.OAuthToken) != "":
		return "anthropic"
	case strings.TrimSpace(cfg.Providers.Google.APIKey) != "":
		return "google"
	case codexAuthFileExists(cfg.Providers.Codex.AuthFilePath):
		return "codex"
	case strings.TrimSpace(cfg.Providers.OpenAI.APIKey) != "":
		return "openai"
	case strings.TrimSpace(cfg.Providers.ZAI.APIKey) != "":
		return "zai"
	default:
		return ""
	}
}

func codexAuthFileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
