package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lexcraft/cardgen/internal/config"
	"github.com/lexcraft/cardgen/internal/domain"
	"github.com/lexcraft/cardgen/internal/generation"
)

// ErrEmptyWord indicates a completion was requested for a blank word.
var ErrEmptyWord = errors.New("word cannot be empty")

// ErrUnsupportedProvider indicates the configured provider name is not one
// of the registered backends.
var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// Provider identifiers accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderZhipu     = "zhipu"
)

// defaultMaxTokens is the completion cap applied when the configuration
// leaves llm.max_tokens unset.
const defaultMaxTokens = 2000

// SupportedProviders returns the provider identifiers New accepts, in a
// stable order for help text and error messages.
func SupportedProviders() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderZhipu}
}

// textBackend is the narrow surface each provider implements: one chat
// completion and one availability probe. Everything else (prompting, repair,
// logging) is shared.
type textBackend interface {
	generate(ctx context.Context, prompt string) (string, error)
	ping(ctx context.Context) error
	name() string
}

// client adapts a textBackend into a generation.Completer by wrapping it
// with the shared prompt template and the tolerant JSON repair path.
type client struct {
	logger  *slog.Logger
	backend textBackend
}

// New builds a Completer for the configured provider. The returned completer
// is safe for concurrent use.
func New(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (generation.Completer, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	httpClient, err := buildHTTPClient(cfg.Timeout(), cfg.ProxyURL)
	if err != nil {
		return nil, err
	}

	var backend textBackend
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI:
		backend = newOpenAIBackend(cfg, httpClient, ProviderOpenAI, cfg.BaseURL)
	case ProviderZhipu:
		// ZhipuAI speaks the OpenAI chat-completions dialect on its own
		// endpoint.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = zhipuBaseURL
		}
		backend = newOpenAIBackend(cfg, httpClient, ProviderZhipu, baseURL)
	case ProviderAnthropic:
		backend = newAnthropicBackend(cfg, httpClient)
	case ProviderGemini:
		backend, err = newGeminiBackend(ctx, cfg, httpClient)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedProvider, cfg.Provider, strings.Join(SupportedProviders(), ", "))
	}

	logger.Info("LLM backend initialized",
		"provider", backend.name(),
		"model", cfg.ModelName)

	return &client{logger: logger, backend: backend}, nil
}

// Complete renders the card prompt for word, asks the backend for a
// completion, and repairs the reply into a raw field mapping. Upstream
// failures wrap generation.ErrUpstream; unrepairable replies wrap
// generation.ErrMalformedResponse.
func (c *client) Complete(ctx context.Context, word string, rules domain.GenerationRules) (map[string]any, error) {
	prompt, err := BuildPrompt(word, rules)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := c.backend.generate(ctx, prompt)
	if err != nil {
		c.logger.WarnContext(ctx, "model call failed",
			"provider", c.backend.name(),
			"word", word,
			"error", err)
		return nil, fmt.Errorf("%w: %s: %v", generation.ErrUpstream, c.backend.name(), err)
	}

	c.logger.DebugContext(ctx, "model call completed",
		"provider", c.backend.name(),
		"word", word,
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(text))

	fields, err := generation.Repair(text)
	if err != nil {
		return nil, fmt.Errorf("completion for %q: %w", word, err)
	}
	return fields, nil
}

// IsAvailable probes the backend with a cheap authenticated request.
func (c *client) IsAvailable(ctx context.Context) bool {
	if err := c.backend.ping(ctx); err != nil {
		c.logger.WarnContext(ctx, "LLM backend unavailable",
			"provider", c.backend.name(),
			"error", err)
		return false
	}
	return true
}

// buildHTTPClient returns the HTTP client shared with the provider SDK. A
// non-empty proxyURL routes traffic through an explicit forward proxy; the
// process environment is never consulted or mutated.
func buildHTTPClient(timeout time.Duration, proxyURL string) (*http.Client, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	transport := &http.Transport{}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid proxy URL %q: %v",
				generation.ErrInvalidConfig, proxyURL, err)
		}
		transport.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
