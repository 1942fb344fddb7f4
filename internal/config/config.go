// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. BANGLACHAT_API_URL.
const Prefix = "BANGLACHAT"

// Config holds all application configuration.
type Config struct {
	APIURL     string        `envconfig:"API_URL"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"60s"`

	DB       string `envconfig:"DB"`
	LogFile  string `envconfig:"LOG_FILE"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Env      string `envconfig:"ENV" default:"development"`

	VoiceLocale  string `envconfig:"VOICE_LOCALE" default:"bn-BD"`
	SpeechAPIKey string `envconfig:"SPEECH_API_KEY"`
	TTSCommand   string `envconfig:"TTS_COMMAND"`

	ServeAddr string `envconfig:"SERVE_ADDR" default:":8080"`
}

// Load reads a .env file from the working directory when present, then
// binds the environment onto a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings every command depends on.
func (c *Config) Validate() error {
	if c.APITimeout <= 0 {
		return fmt.Errorf("%s_API_TIMEOUT must be > 0", Prefix)
	}
	if c.VoiceLocale == "" {
		return fmt.Errorf("%s_VOICE_LOCALE cannot be empty", Prefix)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s_LOG_LEVEL: %w", Prefix, err)
	}
	return nil
}

// ValidateAPI checks the answering service URL. Commands that talk to the
// service call it before doing anything else.
func (c *Config) ValidateAPI() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("%s_API_URL is not set; point it at the answering service, e.g. http://localhost:8080", Prefix)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%s_API_URL: %w", Prefix, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s_API_URL must be an http or https URL, got %q", Prefix, c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%s_API_URL must be absolute, got %q", Prefix, c.APIURL)
	}
	return nil
}

// IsProduction reports whether ENV is set to production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Usage lists the recognised variables.
func Usage() string {
	var b strings.Builder
	var cfg Config
	envconfig.Usagef(Prefix, &cfg, &b, "{{range .}}{{usage_key .}}\t{{usage_default .}}\n{{end}}")
	return b.String()
}
