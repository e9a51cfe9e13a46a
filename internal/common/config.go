package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Markets     MarketsConfig `toml:"markets"`
	EODHD       EODHDConfig   `toml:"eodhd"`
	Search      SearchConfig  `toml:"search"`
	Tavily      TavilyConfig  `toml:"tavily"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	LLM         LLMConfig     `toml:"llm"`
	Report      ReportConfig  `toml:"report"`
	Cache       CacheConfig   `toml:"cache"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"`
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // log timestamp format
}

// MarketsConfig controls ticker normalization and how much statement history
// is requested from the financial data provider.
type MarketsConfig struct {
	// DefaultSuffix is appended to tickers that carry no exchange suffix.
	// Default ".NS" targets the National Stock Exchange of India.
	DefaultSuffix string `toml:"default_suffix"`
	// Years is the number of most-recent reporting periods to fetch.
	Years int `toml:"years" validate:"gte=1,lte=10"`
}

// EODHDConfig contains financial data provider configuration.
type EODHDConfig struct {
	BaseURL string `toml:"base_url"`
	// APIToken is optional; the provider serves test tickers on the demo token.
	APIToken  string `toml:"api_token"`
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"` // requests per second
}

// SearchConfig controls the news search backend.
type SearchConfig struct {
	Mode          string `toml:"mode" validate:"oneof=tavily duckduckgo"`
	MaxResults    int    `toml:"max_results" validate:"gte=1,lte=10"`
	SnippetLength int    `toml:"snippet_length" validate:"gte=50"`
	// Keywords are appended to the ticker code to bias results toward
	// adverse and regulatory coverage.
	Keywords string `toml:"keywords"`
	Timeout  string `toml:"timeout"`
}

// TavilyConfig contains Tavily search API configuration.
type TavilyConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// GeminiConfig contains Google Gemini API configuration.
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // used when model_resolution = "fixed"
	Timeout     string  `toml:"timeout"`     // operation timeout as duration string
	Temperature float32 `toml:"temperature"` // completion temperature
	// ModelResolution selects how the generation model is chosen:
	//   "always" - enumerate available models on every request
	//   "once"   - enumerate once and memoize for the process lifetime
	//   "fixed"  - never enumerate, use Model as configured
	ModelResolution string `toml:"model_resolution" validate:"oneof=always once fixed"`
	// ModelPreferences is the ranked preference list applied to the
	// enumeration result (fast/cheap models first).
	ModelPreferences []string `toml:"model_preferences"`
}

// ClaudeConfig contains Anthropic Claude API configuration, used when the
// report fallback model is a Claude model.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains provider-independent LLM settings.
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"`
}

// ReportConfig controls report generation retry behavior and pipeline ordering.
type ReportConfig struct {
	MaxAttempts       int     `toml:"max_attempts" validate:"gte=1,lte=10"`
	InitialBackoff    string  `toml:"initial_backoff"`
	MaxBackoff        string  `toml:"max_backoff"`
	BackoffMultiplier float64 `toml:"backoff_multiplier" validate:"gte=1"`
	// FallbackModel receives one resubmission after retries exhaust.
	// May name a Claude model; the provider is detected from the name.
	// Empty disables fallback.
	FallbackModel string `toml:"fallback_model"`
	// FailFast skips the news fetch and generation when the financial
	// fetch fails. Disabling it preserves the ordering where news is
	// fetched regardless of financial data availability.
	FailFast bool `toml:"fail_fast"`
}

// CacheConfig controls the time-boxed result cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Hours is the rolling freshness window per (ticker, function) entry.
	Hours    int    `toml:"hours" validate:"gte=1"`
	Path     string `toml:"path"`
	InMemory bool   `toml:"in_memory"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings should be exposed in scrutor.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
		Markets: MarketsConfig{
			DefaultSuffix: ".NS",
			Years:         3,
		},
		EODHD: EODHDConfig{
			BaseURL:   "https://eodhd.com/api",
			APIToken:  "demo",
			Timeout:   "30s",
			RateLimit: 10,
		},
		Search: SearchConfig{
			Mode:          "tavily",
			MaxResults:    3,
			SnippetLength: 250,
			Keywords:      "share price news india frauds analysis",
			Timeout:       "15s",
		},
		Tavily: TavilyConfig{
			APIKey:  "", // user must provide API key
			BaseURL: "https://api.tavily.com",
		},
		Gemini: GeminiConfig{
			APIKey:          "", // user must provide API key (no fallback)
			Model:           "gemini-2.0-flash",
			Timeout:         "5m",
			Temperature:     0.7,
			ModelResolution: "once",
			ModelPreferences: []string{
				"models/gemini-2.0-flash",
				"models/gemini-2.0-flash-lite",
				"models/gemini-1.5-flash",
				"models/gemini-1.5-flash-latest",
				"models/gemini-1.5-pro",
				"models/gemini-pro",
			},
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "5m",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Report: ReportConfig{
			MaxAttempts:       3,
			InitialBackoff:    "4s",
			MaxBackoff:        "30s",
			BackoffMultiplier: 2.0,
			FallbackModel:     "",
			FailFast:          true,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Hours:    1,
			Path:     "./data/cache",
			InMemory: true,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files, later files
// overriding earlier ones. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Duration strings are validated eagerly so failures surface at startup
	// rather than on the first request.
	for _, d := range []struct {
		name  string
		value string
	}{
		{"eodhd.timeout", c.EODHD.Timeout},
		{"search.timeout", c.Search.Timeout},
		{"gemini.timeout", c.Gemini.Timeout},
		{"claude.timeout", c.Claude.Timeout},
		{"report.initial_backoff", c.Report.InitialBackoff},
		{"report.max_backoff", c.Report.MaxBackoff},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", d.name, err)
		}
	}

	return nil
}

// ParseDurationOrDefault parses a duration string, falling back when the
// string is empty or malformed.
func ParseDurationOrDefault(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SCRUTOR_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("SCRUTOR_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SCRUTOR_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("SCRUTOR_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}

	if key := os.Getenv("SCRUTOR_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("SCRUTOR_TAVILY_API_KEY"); key != "" {
		config.Tavily.APIKey = key
	}
	if key := os.Getenv("SCRUTOR_ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if token := os.Getenv("SCRUTOR_EODHD_API_TOKEN"); token != "" {
		config.EODHD.APIToken = token
	}

	if suffix := os.Getenv("SCRUTOR_MARKET_SUFFIX"); suffix != "" {
		config.Markets.DefaultSuffix = suffix
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
