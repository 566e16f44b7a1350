// Command codelet runs a single turn of the agent loop against a
// configured provider and prints the resulting stream chunks to stdout.
// It exists to exercise the runtime end to end; the interactive
// terminal front-end is out of scope here.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"codelet/internal/agent"
	"codelet/internal/compactor"
	"codelet/internal/config"
	"codelet/internal/debugcapture"
	"codelet/internal/llm"
	"codelet/internal/llm/providers"
	"codelet/internal/observability"
	"codelet/internal/persistence"
	"codelet/internal/session"
	"codelet/internal/toolwire"
	"codelet/internal/webfetch"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to a YAML config file")
		providerName = flag.String("provider", "", "provider name (anthropic, google, openai, codex, zai); auto-detected when empty")
		prompt       = flag.String("prompt", "", "the user message to run; reads stdin if empty")
		workdir      = flag.String("workdir", ".", "project directory the agent operates in")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codelet: loading config:", err)
		os.Exit(1)
	}

	observability.InitLogger("", "info")

	userInput := *prompt
	if userInput == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "codelet: reading prompt from stdin:", err)
			os.Exit(1)
		}
		userInput = string(data)
	}
	if userInput == "" {
		fmt.Fprintln(os.Stderr, "codelet: no prompt given (use -prompt or pipe one to stdin)")
		os.Exit(1)
	}

	httpClient := observability.NewHTTPClient(&http.Client{})
	provider, err := providers.Build(cfg, *providerName, httpClient)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codelet: building provider:", err)
		os.Exit(1)
	}

	resolvedProvider := *providerName
	if resolvedProvider == "" {
		resolvedProvider = config.DetectProvider(cfg)
	}
	model := modelFor(cfg, resolvedProvider)

	web := webfetch.New(webfetch.Config{
		SearXNGURL: cfg.WebFetch.SearXNGURL,
		Browser: webfetch.BrowserConfig{
			Mode:        webfetch.BrowserMode(cfg.WebFetch.BrowserMode),
			WSURL:       cfg.WebFetch.BrowserWSURL,
			ExecPath:    cfg.WebFetch.BrowserExecPath,
			IdleTimeout: time.Duration(cfg.WebFetch.IdleTimeoutSeconds) * time.Second,
		},
	})
	defer web.Close()

	registry := toolwire.Build(resolvedProvider, *workdir, web)

	var debug *debugcapture.Manager
	if cfg.Debug.Enabled {
		debug = debugcapture.New(cfg.Debug.Dir)
		debug.Start()
		defer debug.Stop()
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = ".codelet"
	}
	store, err := newStores(dataDir, cfg.Redis)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codelet: opening persistence stores:", err)
		os.Exit(1)
	}
	defer store.close()

	manager := session.NewManager()
	sess := manager.Create(*workdir, *workdir, resolvedProvider)
	sessionID := sess.ID

	contextWindow := cfg.Compaction.ContextWindow
	if contextWindow <= 0 {
		if sz, known := llm.ContextSize(model); known {
			contextWindow = sz
		} else {
			contextWindow = 200_000
		}
	}

	deps := agent.Deps{
		Provider:        provider,
		Model:           model,
		ContextWindow:   contextWindow,
		Tools:           registry,
		Compactor:       compactor.New(provider, model),
		Debug:           debug,
		MaxDepth:        cfg.MaxDepth,
		ToolConcurrency: cfg.ToolConcurrency,
		Workdir:         *workdir,
	}

	history := []llm.Message{}
	runErr := agent.Run(context.Background(), sess, &history, userInput, true, deps)

	for _, chunk := range sess.DrainChunks() {
		printChunk(chunk)
	}

	if err := store.persist(context.Background(), sessionID, history); err != nil {
		fmt.Fprintln(os.Stderr, "codelet: persisting session:", err)
	}

	if err := store.recordHistory(sessionID, *workdir, resolvedProvider, userInput); err != nil {
		fmt.Fprintln(os.Stderr, "codelet: recording session history:", err)
	}

	input, output := sess.Tokens()
	sess.Manifest.UpdatedAt = time.Now()
	sess.Manifest.TokenUsage.InputTokens = uint64(input)
	sess.Manifest.TokenUsage.OutputTokens = uint64(output)
	if err := store.saveManifest(context.Background(), sess.Manifest); err != nil {
		fmt.Fprintln(os.Stderr, "codelet: persisting session manifest:", err)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

// stores bundles the on-disk collaborators a completed run persists to.
// sessionCache is non-nil only when Redis is configured; when nil, manifest
// reads and writes fall through to sessions directly.
type stores struct {
	blobs        *persistence.BlobStore
	messages     *persistence.MessageStore
	log          *persistence.MessageLog
	history      *persistence.HistoryStore
	sessions     *persistence.SessionStore
	sessionCache *persistence.SessionCache
}

func newStores(dataDir string, redisCfg config.RedisConfig) (*stores, error) {
	blobs := persistence.NewBlobStore(dataDir)
	history, err := persistence.NewHistoryStore(dataDir)
	if err != nil {
		return nil, err
	}
	sessions := persistence.NewSessionStore(dataDir)

	cache, err := persistence.NewSessionCache(redisCfg, sessions)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &stores{
		blobs:        blobs,
		messages:     persistence.NewMessageStore(blobs),
		log:          persistence.NewMessageLog(dataDir, blobs),
		history:      history,
		sessions:     sessions,
		sessionCache: cache,
	}, nil
}

func (s *stores) persist(ctx context.Context, sessionID string, history []llm.Message) error {
	for _, m := range history {
		if err := s.log.Append(ctx, sessionID, m); err != nil {
			return err
		}
	}
	return nil
}

// saveManifest writes through the Redis cache when one is configured,
// falling back to the file store directly otherwise.
func (s *stores) saveManifest(ctx context.Context, m session.Manifest) error {
	if s.sessionCache != nil {
		return s.sessionCache.Save(ctx, m)
	}
	return s.sessions.Save(m)
}

// recordHistory indexes a completed run into the cross-session history log,
// summarized from the user's prompt.
func (s *stores) recordHistory(sessionID, project, provider, userInput string) error {
	return s.history.Record(persistence.HistoryEntry{
		SessionID: sessionID,
		Project:   project,
		Provider:  provider,
		Summary:   summarize(userInput, 200),
		Timestamp: time.Now(),
	})
}

// summarize trims s to a single line no longer than n runes, for use as a
// history entry's display summary.
func summarize(s string, n int) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, "\r\n"); idx != -1 {
		s = s[:idx]
	}
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "…"
	}
	return s
}

// close releases any open collaborator, such as a Redis connection pool.
func (s *stores) close() error {
	if s.history != nil {
		_ = s.history.Close()
	}
	if s.sessionCache != nil {
		return s.sessionCache.Close()
	}
	return nil
}

// modelFor resolves the model name configured for the resolved provider,
// falling back to a sane per-provider default when unset.
func modelFor(cfg *config.Config, provider string) string {
	switch provider {
	case "anthropic", "claude":
		if cfg.Providers.Anthropic.Model != "" {
			return cfg.Providers.Anthropic.Model
		}
		return "claude-sonnet-4-5"
	case "google", "gemini":
		if cfg.Providers.Google.Model != "" {
			return cfg.Providers.Google.Model
		}
		return "gemini-2.5-pro"
	case "zai", "z.ai", "glm":
		if cfg.Providers.ZAI.Model != "" {
			return cfg.Providers.ZAI.Model
		}
		return "glm-4.6"
	default:
		if cfg.Providers.OpenAI.Model != "" {
			return cfg.Providers.OpenAI.Model
		}
		return "gpt-5-codex"
	}
}

func printChunk(c session.StreamChunk) {
	switch c.Kind {
	case session.ChunkText:
		fmt.Print(c.Text)
	case session.ChunkThinking:
		fmt.Fprintf(os.Stderr, "[thinking] %s\n", c.Text)
	case session.ChunkToolCall:
		fmt.Fprintf(os.Stderr, "[tool call] %s(%s)\n", c.ToolName, c.ToolInput)
	case session.ChunkToolResult:
		fmt.Fprintf(os.Stderr, "[tool result] %s\n", c.Text)
	case session.ChunkStatus:
		fmt.Fprintf(os.Stderr, "[status] %s\n", c.Text)
	case session.ChunkError:
		fmt.Fprintf(os.Stderr, "[error] %s\n", c.Text)
	case session.ChunkTokenUpdate:
		// token counters are surfaced via sess.Tokens(); nothing to print inline.
	case session.ChunkDone:
		fmt.Println()
	}
}
