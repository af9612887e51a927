package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"

	SourceNewsAPI    = "newsapi"
	SourceGoogleNews = "googlenews"
)

// Config holds all application configuration. Fields are read from the
// environment by Load.
type Config struct {
	// News search
	NewsAPIKey        string        `envconfig:"NEWS_API_KEY" json:"-"`
	NewsSource        string        `envconfig:"NEWS_SOURCE" default:"newsapi" json:"news_source"`
	NewsAPIBaseURL    string        `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2" json:"news_api_base_url"`
	GoogleNewsBaseURL string        `envconfig:"GOOGLE_NEWS_BASE_URL" default:"https://news.google.com/rss" json:"google_news_base_url"`
	NewsTimeout       time.Duration `envconfig:"NEWS_TIMEOUT" default:"30s" json:"news_timeout"`
	MaxArticles       int           `envconfig:"MAX_ARTICLES" default:"50" json:"max_articles"`

	// Language model
	LLMProvider    string        `envconfig:"LLM_PROVIDER" default:"ollama" json:"llm_provider"`
	Model          string        `envconfig:"LLM_MODEL" default:"llama3.1:8b" json:"model"`
	LLMBaseURL     string        `envconfig:"LLM_BASE_URL" default:"http://localhost:11434" json:"llm_base_url"`
	LLMAPIKey      string        `envconfig:"LLM_API_KEY" json:"-"`
	LLMTimeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"5m" json:"llm_timeout"`
	DeepSeekAPIKey string        `envconfig:"DEEPSEEK_API_KEY" json:"-"`

	// Web UI
	Host string `envconfig:"COINPULSE_HOST" default:"127.0.0.1" json:"host"`
	Port int    `envconfig:"COINPULSE_PORT" default:"7860" json:"port"`

	ResultsDir string `envconfig:"COINPULSE_RESULTS_DIR" default:"results" json:"results_dir"`

	LogLevel  string `envconfig:"COINPULSE_LOG_LEVEL" default:"info" json:"log_level"`
	LogFormat string `envconfig:"COINPULSE_LOG_FORMAT" default:"console" json:"log_format"`
	Debug     bool   `envconfig:"COINPULSE_DEBUG" default:"false" json:"debug"`

	// Eino Debug configuration
	EinoDebugEnabled bool `envconfig:"EINO_DEBUG_ENABLED" default:"false" json:"eino_debug_enabled"`
}

// DefaultConfig returns the configuration used when nothing is set in the environment.
func DefaultConfig() *Config {
	return &Config{
		NewsSource:        SourceNewsAPI,
		NewsAPIBaseURL:    "https://newsapi.org/v2",
		GoogleNewsBaseURL: "https://news.google.com/rss",
		NewsTimeout:       30 * time.Second,
		MaxArticles:       50,

		LLMProvider: ProviderOllama,
		Model:       "llama3.1:8b",
		LLMBaseURL:  "http://localhost:11434",
		LLMTimeout:  5 * time.Minute,

		Host: "127.0.0.1",
		Port: 7860,

		ResultsDir: "results",

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads an optional .env file, then the process environment.
// The returned value is treated as immutable for the life of the process.
func Load() (*Config, error) {
	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.NewsSource = strings.ToLower(strings.TrimSpace(cfg.NewsSource))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings after they are read. Load calls it. Failures
// wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOllama, ProviderOpenAI, ProviderDeepSeek:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", ErrInvalidConfig, c.LLMProvider)
	}
	switch c.NewsSource {
	case SourceNewsAPI, SourceGoogleNews:
	default:
		return fmt.Errorf("%w: unknown news source %q", ErrInvalidConfig, c.NewsSource)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model name is required", ErrInvalidConfig)
	}
	if c.MaxArticles < 1 {
		return fmt.Errorf("%w: max articles must be positive, got %d", ErrInvalidConfig, c.MaxArticles)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.LLMProvider == ProviderDeepSeek && c.DeepSeekAPIKey == "" {
		return fmt.Errorf("%w: DEEPSEEK_API_KEY is required for the deepseek provider", ErrInvalidConfig)
	}
	return nil
}

// Addr is the listen address of the web UI.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// EnsureDirectories creates the results directory.
func (c *Config) EnsureDirectories() error {
	path := strings.TrimSpace(c.ResultsDir)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
