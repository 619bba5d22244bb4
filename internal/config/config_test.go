package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should be valid, got: %v", err)
	}
}

func TestLoadConfig_MissingOptionalFile(t *testing.T) {
	t.Setenv(EnvTransformersCache, "")
	t.Setenv(EnvOpenAIBaseURL, "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Output.Sentences != 3 {
		t.Errorf("expected default sentences 3, got %d", cfg.Output.Sentences)
	}
	if cfg.Model.ID != "google/flan-t5-base" {
		t.Errorf("expected default model, got %s", cfg.Model.ID)
	}
}

func TestLoadConfig_MissingRequiredFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false)
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	t.Setenv(EnvTransformersCache, "")
	t.Setenv(EnvOpenAIBaseURL, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
model:
  id: google/flan-t5-large
wikipedia:
  language: fr
output:
  sentences: 5
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Model.ID != "google/flan-t5-large" {
		t.Errorf("model id not overridden: %s", cfg.Model.ID)
	}
	if cfg.Model.MaxOutputTokens != 64 {
		t.Errorf("unset fields should keep defaults, got max_output_tokens=%d", cfg.Model.MaxOutputTokens)
	}
	if got := cfg.Wikipedia.Endpoint(); got != "https://fr.wikipedia.org/w/api.php" {
		t.Errorf("unexpected endpoint: %s", got)
	}
	if cfg.Output.Sentences != 5 {
		t.Errorf("sentences not overridden: %d", cfg.Output.Sentences)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := LoadConfig(path, false)
	if err == nil || !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("expected YAML parse error, got: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		EnvTransformersCache: "/tmp/models",
		EnvOpenAIBaseURL:     "http://inference:9000/v1",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Model.CacheDir != "/tmp/models" {
		t.Errorf("cache dir not taken from env: %s", cfg.Model.CacheDir)
	}
	if cfg.Model.BaseURL != "http://inference:9000/v1" {
		t.Errorf("base url not taken from env: %s", cfg.Model.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing model", func(c *Config) { c.Model.ID = "" }, ErrMissingModelID},
		{"missing base url", func(c *Config) { c.Model.BaseURL = "" }, ErrMissingBaseURL},
		{"zero input tokens", func(c *Config) { c.Model.MaxInputTokens = 0 }, ErrInvalidMaxInputTokens},
		{"zero output tokens", func(c *Config) { c.Model.MaxOutputTokens = 0 }, ErrInvalidMaxOutputTokens},
		{"zero model timeout", func(c *Config) { c.Model.TimeoutSec = 0 }, ErrInvalidModelTimeout},
		{"missing language", func(c *Config) { c.Wikipedia.Language = "" }, ErrMissingLanguage},
		{"zero wiki timeout", func(c *Config) { c.Wikipedia.TimeoutSec = 0 }, ErrInvalidWikiTimeout},
		{"too many candidates", func(c *Config) { c.Wikipedia.MaxCandidates = 6 }, ErrInvalidMaxCandidates},
		{"search limit too small", func(c *Config) { c.Wikipedia.SearchLimit = 2 }, ErrInvalidSearchLimit},
		{"zero sentences", func(c *Config) { c.Output.Sentences = 0 }, ErrInvalidSentences},
		{"negative width", func(c *Config) { c.Output.Width = -1 }, ErrInvalidWidth},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfig_APIURLOverridesLanguage(t *testing.T) {
	t.Setenv(EnvTransformersCache, "")
	t.Setenv(EnvOpenAIBaseURL, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "wikipedia:\n  language: de\n  api_url: http://localhost:1234/w/api.php\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Wikipedia.Endpoint() != "http://localhost:1234/w/api.php" {
		t.Errorf("explicit api url should win over language: %s", cfg.Wikipedia.Endpoint())
	}
}
