// Package config provides configuration management for the wiki-query CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingModelID         = errors.New("model.id is required")
	ErrMissingBaseURL         = errors.New("model.base_url is required")
	ErrInvalidMaxInputTokens  = errors.New("model.max_input_tokens must be at least 1")
	ErrInvalidMaxOutputTokens = errors.New("model.max_output_tokens must be at least 1")
	ErrInvalidModelTimeout    = errors.New("model.timeout_sec must be at least 1")
	ErrMissingLanguage        = errors.New("wikipedia.language is required")
	ErrInvalidWikiTimeout     = errors.New("wikipedia.timeout_sec must be at least 1")
	ErrInvalidMaxCandidates   = errors.New("wikipedia.max_candidates must be between 1 and 5")
	ErrInvalidSearchLimit     = errors.New("wikipedia.search_limit must be at least max_candidates")
	ErrInvalidSentences       = errors.New("output.sentences must be at least 1")
	ErrInvalidWidth           = errors.New("output.width must be non-negative")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Environment variables consulted after the config file.
const (
	EnvTransformersCache = "TRANSFORMERS_CACHE"
	EnvOpenAIBaseURL     = "OPENAI_BASE_URL"
)

// Config represents the complete CLI configuration.
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ModelConfig describes the inference server hosting the rewriting model.
type ModelConfig struct {
	ID              string `yaml:"id"`
	BaseURL         string `yaml:"base_url"`
	APIKeyEnv       string `yaml:"api_key_env"`
	CacheDir        string `yaml:"cache_dir"`
	MaxInputTokens  int    `yaml:"max_input_tokens"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	TimeoutSec      int    `yaml:"timeout_sec"`
}

// WikipediaConfig describes the encyclopedia endpoint.
type WikipediaConfig struct {
	Language      string `yaml:"language"`
	APIURL        string `yaml:"api_url"`
	UserAgent     string `yaml:"user_agent"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	MaxCandidates int    `yaml:"max_candidates"`
	SearchLimit   int    `yaml:"search_limit"`
}

// OutputConfig controls how summaries are rendered.
type OutputConfig struct {
	Sentences int `yaml:"sentences"`
	Width     int `yaml:"width"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			ID:              "google/flan-t5-base",
			BaseURL:         "http://localhost:8080/v1",
			APIKeyEnv:       "OPENAI_API_KEY",
			MaxInputTokens:  512,
			MaxOutputTokens: 64,
			TimeoutSec:      120,
		},
		Wikipedia: WikipediaConfig{
			Language:      "en",
			UserAgent:     "wiki-query-cli (https://github.com/clems4ever/wiki-query)",
			TimeoutSec:    15,
			MaxCandidates: 5,
			SearchLimit:   10,
		},
		Output: OutputConfig{
			Sentences: 3,
			Width:     80,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wiki-query", "config.yaml")
}

// LoadConfig loads configuration from a YAML file layered over the defaults.
// When optional is true a missing file yields the defaults.
func LoadConfig(path string, optional bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		case optional && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables on top of the file values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvTransformersCache); v != "" {
		c.Model.CacheDir = v
	}
	if v := getenv(EnvOpenAIBaseURL); v != "" {
		c.Model.BaseURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Model.ID == "" {
		return ErrMissingModelID
	}

	if c.Model.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.Model.MaxInputTokens < 1 {
		return ErrInvalidMaxInputTokens
	}

	if c.Model.MaxOutputTokens < 1 {
		return ErrInvalidMaxOutputTokens
	}

	if c.Model.TimeoutSec < 1 {
		return ErrInvalidModelTimeout
	}

	if c.Wikipedia.Language == "" && c.Wikipedia.APIURL == "" {
		return ErrMissingLanguage
	}

	if c.Wikipedia.TimeoutSec < 1 {
		return ErrInvalidWikiTimeout
	}

	if c.Wikipedia.MaxCandidates < 1 || c.Wikipedia.MaxCandidates > 5 {
		return ErrInvalidMaxCandidates
	}

	if c.Wikipedia.SearchLimit < c.Wikipedia.MaxCandidates {
		return ErrInvalidSearchLimit
	}

	if c.Output.Sentences < 1 {
		return ErrInvalidSentences
	}

	if c.Output.Width < 0 {
		return ErrInvalidWidth
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// APIKey returns the inference server key from the configured variable.
// Local servers usually accept any value, so an empty key is allowed.
func (m *ModelConfig) APIKey() string {
	if m.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(m.APIKeyEnv)
}

// Timeout returns the inference request timeout.
func (m *ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSec) * time.Second
}

// Endpoint returns the MediaWiki api.php URL.
func (w *WikipediaConfig) Endpoint() string {
	if w.APIURL != "" {
		return w.APIURL
	}
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", w.Language)
}

// Timeout returns the encyclopedia request timeout.
func (w *WikipediaConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Model: %s, BaseURL: %s, Wiki: %s, Sentences: %d}",
		c.Model.ID,
		c.Model.BaseURL,
		c.Wikipedia.Endpoint(),
		c.Output.Sentences,
	)
}
