package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes the LLM variables, e.g. BANGLACHAT_LLM_PROVIDER.
const EnvPrefix = "BANGLACHAT_LLM"

// Config selects and configures the answering model.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	Provider string        `envconfig:"PROVIDER" default:"anthropic"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"30s"`

	Anthropic  ProviderConfig `envconfig:"ANTHROPIC"`
	OpenAI     ProviderConfig `envconfig:"OPENAI"`
	Gemini     ProviderConfig `envconfig:"GEMINI"`
	OpenRouter ProviderConfig `envconfig:"OPENROUTER"`

	Retry RetryConfig `envconfig:"RETRY"`
}

// ProviderConfig holds one provider's credentials. Model accepts either a
// short alias from the provider's model table or a full model ID.
type ProviderConfig struct {
	APIKey  string `envconfig:"API_KEY"`
	Model   string `envconfig:"MODEL"`
	BaseURL string `envconfig:"BASE_URL"`
}

// RetryConfig shapes the exponential backoff applied to transient errors.
type RetryConfig struct {
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	InitialWait time.Duration `envconfig:"INITIAL_WAIT" default:"1s"`
	MaxWait     time.Duration `envconfig:"MAX_WAIT" default:"10s"`
	Multiplier  float64       `envconfig:"MULTIPLIER" default:"2"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Timeout:  30 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

// LoadConfig reads BANGLACHAT_LLM_* variables. When no provider was chosen
// explicitly it falls back to the first vendor key found in the
// environment (see DiscoverConfig).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read LLM environment: %w", err)
	}
	if _, set := os.LookupEnv(EnvPrefix + "_PROVIDER"); !set && cfg.key() == "" {
		if found, ok := DiscoverConfig(); ok {
			found.Timeout, found.Retry = cfg.Timeout, cfg.Retry
			return found, nil
		}
	}
	return cfg, nil
}

// DiscoverConfig probes the vendors' own API key variables in order
// Gemini, OpenAI, Anthropic, OpenRouter.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		target   *ProviderConfig
	}{
		{"GEMINI_API_KEY", "gemini", &cfg.Gemini},
		{"OPENAI_API_KEY", "openai", &cfg.OpenAI},
		{"ANTHROPIC_API_KEY", "anthropic", &cfg.Anthropic},
		{"OPENROUTER_API_KEY", "openrouter", &cfg.OpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			p.target.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Selected returns the settings of the chosen provider.
func (c Config) Selected() ProviderConfig {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic
	case "openai":
		return c.OpenAI
	case "gemini":
		return c.Gemini
	case "openrouter":
		return c.OpenRouter
	}
	return ProviderConfig{}
}

func (c Config) key() string { return c.Selected().APIKey }

// Validate checks that the selected provider exists and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
		return nil
	case "anthropic", "openai", "gemini", "openrouter":
		if c.key() == "" {
			return fmt.Errorf("%s_%s_API_KEY is required for the %s provider",
				EnvPrefix, envName(c.Provider), c.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%s_RETRY_MAX_ATTEMPTS must be >= 1", EnvPrefix)
	}
	return nil
}

func envName(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI"
	case "openrouter":
		return "OPENROUTER"
	case "gemini":
		return "GEMINI"
	default:
		return "ANTHROPIC"
	}
}
