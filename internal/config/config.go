// Package config loads Codelet's runtime configuration from an optional
// YAML file overlaid with environment variables, following the credential
// precedence a provider registry uses to auto-select an LLM backend.
package config

// AnthropicPromptCacheConfig controls which message regions receive
// cache_control markers on the Messages API.
type AnthropicPromptCacheConfig struct {
	Enabled       bool `yaml:"enabled"`
	CacheSystem   bool `yaml:"cache_system"`
	CacheTools    bool `yaml:"cache_tools"`
	CacheMessages bool `yaml:"cache_messages"`
}

// AnthropicConfig configures the Claude provider, reachable via an API key
// or an OAuth token obtained from `claude setup-token`.
type AnthropicConfig struct {
	APIKey      string                     `yaml:"api_key"`
	OAuthToken  string                     `yaml:"oauth_token"`
	Model       string                     `yaml:"model"`
	BaseURL     string                     `yaml:"base_url"`
	PromptCache AnthropicPromptCacheConfig `yaml:"prompt_cache"`
	ExtraParams map[string]any             `yaml:"extra_params,omitempty"`
}

// GoogleConfig configures the Gemini provider.
type GoogleConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout_seconds"`
}

// OpenAIConfig configures an OpenAI-compatible chat backend. Codex and Z.AI
// GLM both reuse this shape, pointed at their own BaseURL.
type OpenAIConfig struct {
	APIKey      string         `yaml:"api_key"`
	Model       string         `yaml:"model"`
	BaseURL     string         `yaml:"base_url"`
	API         string         `yaml:"api"` // "completions" or "responses"
	LogPayloads bool           `yaml:"log_payloads"`
	ExtraParams map[string]any `yaml:"extra_params,omitempty"`
}

// CodexAuthConfig locates the Codex CLI's persisted OAuth credentials, used
// to auto-detect the Codex provider without an explicit API key.
type CodexAuthConfig struct {
	AuthFilePath string `yaml:"auth_file_path"`
}

// ZAIConfig configures the Z.AI GLM provider (OpenAI-compatible, snake_case
// tool schemas).
type ZAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// ProvidersConfig groups every provider's settings under one key.
type ProvidersConfig struct {
	Provider  string          `yaml:"provider"` // explicit override; empty means auto-detect
	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Google    GoogleConfig    `yaml:"google"`
	Codex     CodexAuthConfig `yaml:"codex"`
	ZAI       ZAIConfig       `yaml:"zai"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// ObsConfig is the shape observability.InitOTel consumes.
type ObsConfig struct {
	OTLP           string `yaml:"otlp"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`
}

// S3SSEConfig configures server-side encryption for S3-backed blob storage.
type S3SSEConfig struct {
	Mode     string `yaml:"mode"` // "", "AES256", or "aws:kms"
	KMSKeyID string `yaml:"kms_key_id,omitempty"`
}

// S3Config configures an S3-compatible object store used as an optional
// remote mirror for the content-addressed blob store.
type S3Config struct {
	Bucket                string      `yaml:"bucket"`
	Region                string      `yaml:"region"`
	Endpoint              string      `yaml:"endpoint,omitempty"`
	Prefix                string      `yaml:"prefix,omitempty"`
	AccessKey             string      `yaml:"access_key,omitempty"`
	SecretKey             string      `yaml:"secret_key,omitempty"`
	UsePathStyle          bool        `yaml:"use_path_style,omitempty"`
	TLSInsecureSkipVerify bool        `yaml:"tls_insecure_skip_verify,omitempty"`
	SSE                   S3SSEConfig `yaml:"sse,omitempty"`
}

// DebugConfig controls the JSONL debug capture sink.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// CompactionConfig overrides the default autocompaction thresholds.
type CompactionConfig struct {
	ContextWindow int `yaml:"context_window"`
	KeepRecent    int `yaml:"keep_recent"`
}

// WebFetchConfig configures the web-fetch collaborator: the SearXNG instance
// used for search, and how to reach a Chrome/Chromium browser for
// JavaScript-rendered fetches and CAPTCHA probing.
type WebFetchConfig struct {
	SearXNGURL         string `yaml:"searxng_url"`
	BrowserMode        string `yaml:"browser_mode"` // "connect", "launch", or "auto" (default)
	BrowserWSURL       string `yaml:"browser_ws_url"`
	BrowserExecPath    string `yaml:"browser_exec_path"`
	IdleTimeoutSeconds int    `yaml:"idle_timeout_seconds"`
}

// RedisConfig configures an optional Redis-backed read-through cache for
// session manifests and token-tracker snapshots. Disabled by default: when
// Enabled is false, callers fall back to the local file-backed stores alone.
type RedisConfig struct {
	Enabled               bool   `yaml:"enabled"`
	Addr                  string `yaml:"addr"`
	Password              string `yaml:"password"`
	DB                    int    `yaml:"db"`
	TLSInsecureSkipVerify bool   `yaml:"tls_insecure_skip_verify"`
}

// Config is Codelet's full runtime configuration.
type Config struct {
	DataDir         string           `yaml:"data_dir"`
	MaxDepth        int              `yaml:"max_depth"`
	ToolConcurrency int              `yaml:"tool_concurrency"`
	Providers       ProvidersConfig  `yaml:"providers"`
	OTel            TelemetryConfig  `yaml:"otel"`
	Obs             ObsConfig        `yaml:"obs"`
	S3              *S3Config        `yaml:"s3,omitempty"`
	Debug           DebugConfig      `yaml:"debug"`
	Compaction      CompactionConfig `yaml:"compaction"`
	WebFetch        WebFetchConfig   `yaml:"web_fetch"`
	Redis           RedisConfig      `yaml:"redis"`
}

// DefaultMaxDepth is the fallback recursion/sub-agent depth limit when
// neither config nor CODELET_MAX_DEPTH set one.
const DefaultMaxDepth = 100
