package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config.yaml and from CARDGEN_*
// environment variables, with the environment taking precedence. Returns a
// populated, validated Config or an error describing what is wrong.
func Load() (*Config, error) {
	return load("")
}

// LoadFile is Load with an explicit config file path. Unlike Load, a missing
// file is an error: the caller asked for that file specifically.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CARDGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine: environment variables and defaults
		// can carry the whole configuration. A malformed file, or a missing
		// explicitly requested one, is not.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers a default for every key so AutomaticEnv can bind
// them and partial config files stay valid.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout_seconds", 5)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model_name", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.proxy_url", "")
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.temperature", 0.7)

	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("generation.retry_delay_seconds", 2)
	v.SetDefault("generation.example_count", 3)
	v.SetDefault("generation.synonym_count", 3)
	v.SetDefault("generation.confusable_count", 2)
	v.SetDefault("generation.tip_kinds", []string{})
	v.SetDefault("generation.validation_mode", "lenient")

	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.rate_limit_per_minute", 0)

	v.SetDefault("export.format", "csv")
	v.SetDefault("export.output_dir", "output")
	v.SetDefault("export.delimiter", ",")
}

// validate runs struct-tag validation and converts the result into a
// readable error listing every failed field.
func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
