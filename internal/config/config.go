package config

import (
	"time"

	"github.com/lexcraft/cardgen/internal/domain"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Batch      BatchConfig      `mapstructure:"batch"      validate:"required"`
	Export     ExportConfig     `mapstructure:"export"     validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins is the CORS allowlist for the browser front end.
	// An empty list means same-origin only.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ShutdownTimeoutSeconds bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// LLMConfig contains the model-backend settings shared by every provider.
type LLMConfig struct {
	// Provider selects the completion backend: openai, anthropic, gemini
	// or zhipu.
	Provider string `mapstructure:"provider" validate:"required,oneof=openai anthropic gemini zhipu"`
	APIKey   string `mapstructure:"api_key"  validate:"required"`
	// ModelName is provider-specific, e.g. gpt-4o-mini or glm-4-flash.
	ModelName string `mapstructure:"model_name" validate:"required"`
	// BaseURL overrides the provider's default endpoint. Required only for
	// self-hosted or regional gateways; zhipu has a built-in default.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	// ProxyURL routes backend HTTP traffic through an explicit forward
	// proxy instead of relying on process environment variables.
	ProxyURL       string `mapstructure:"proxy_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	// MaxTokens caps the completion length requested from the backend.
	MaxTokens int `mapstructure:"max_tokens" validate:"required,gte=1,lte=100000"`
	// Temperature is the sampling temperature passed to every backend.
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// GenerationConfig controls per-word card generation.
type GenerationConfig struct {
	// MaxRetries is the total number of model calls allowed per word,
	// including the first attempt.
	MaxRetries        int `mapstructure:"max_retries"         validate:"required,gte=1,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	ExampleCount      int `mapstructure:"example_count"       validate:"gte=1,lte=5"`
	SynonymCount      int `mapstructure:"synonym_count"       validate:"gte=0,lte=10"`
	ConfusableCount   int `mapstructure:"confusable_count"    validate:"gte=0,lte=5"`
	// TipKinds lists the mnemonic strategies the model may choose from.
	TipKinds []string `mapstructure:"tip_kinds"`
	// ValidationMode is strict (reject any violation) or lenient (default
	// optional fields, reject only missing required ones).
	ValidationMode string `mapstructure:"validation_mode" validate:"required,oneof=strict lenient"`
}

// BatchConfig controls the batch orchestrator.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"required,gte=1,lte=64"`
	// RateLimitPerMinute caps each worker's request rate. Zero disables
	// pacing.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" validate:"gte=0"`
}

// ExportConfig controls card export.
type ExportConfig struct {
	Format    string `mapstructure:"format"     validate:"required,oneof=csv anki"`
	OutputDir string `mapstructure:"output_dir" validate:"required"`
	// Delimiter applies to the csv format only; anki always uses tabs.
	Delimiter string `mapstructure:"delimiter" validate:"required,len=1"`
}

// Timeout returns the per-request backend timeout as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed wait between generation attempts.
func (c GenerationConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Rules converts the generation settings into domain rules, applying the
// domain defaults for anything left unset.
func (c GenerationConfig) Rules() domain.GenerationRules {
	return domain.GenerationRules{
		ExampleCount:    c.ExampleCount,
		SynonymCount:    c.SynonymCount,
		ConfusableCount: c.ConfusableCount,
		TipKinds:        c.TipKinds,
	}.Normalized()
}

// ShutdownTimeout returns the graceful shutdown bound, defaulting to 5s.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
