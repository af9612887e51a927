package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	want := DefaultConfig()
	want.NewsAPIKey = "secret"
	assert.Equal(t, want, cfg)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_MODEL", "qwen2.5:7b")
	t.Setenv("LLM_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("NEWS_SOURCE", "googlenews")
	t.Setenv("NEWS_TIMEOUT", "5s")
	t.Setenv("COINPULSE_PORT", "8080")
	t.Setenv("MAX_ARTICLES", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "qwen2.5:7b", cfg.Model)
	assert.Equal(t, SourceGoogleNews, cfg.NewsSource)
	assert.Equal(t, 5*time.Second, cfg.NewsTimeout)
	assert.Equal(t, 10, cfg.MaxArticles)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLMProvider = "gpt" }},
		{"unknown source", func(c *Config) { c.NewsSource = "bing" }},
		{"empty model", func(c *Config) { c.Model = "  " }},
		{"zero articles", func(c *Config) { c.MaxArticles = 0 }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"deepseek without key", func(c *Config) { c.LLMProvider = ProviderDeepSeek }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}

	require.NoError(t, DefaultConfig().Validate())
}

func TestEnsureDirectories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResultsDir = filepath.Join(t.TempDir(), "nested", "results")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.ResultsDir)
}
