package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Astrology    AstrologyConfig    `yaml:"astrology"`
	Horoscope    HoroscopeConfig    `yaml:"horoscope"`
	Places       PlacesConfig       `yaml:"places"`
	LLM          LLMConfig          `yaml:"llm"`
	Database     DatabaseConfig     `yaml:"database"`
	ChartArchive ChartArchiveConfig `yaml:"chartArchive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent GET requests.
// POST /getImage writes to the database and spends LLM quota, so it is never
// replayed by the server.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AstrologyConfig covers the chart/planetary computation API.
type AstrologyConfig struct {
	BaseURL         string        `yaml:"baseUrl"`
	APIKey          string        `yaml:"apiKey"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	FetchTimeout    time.Duration `yaml:"fetchTimeout"`
	DefaultTimezone float64       `yaml:"defaultTimezone"`
}

// HoroscopeConfig covers the horoscope page scraper and its cache.
type HoroscopeConfig struct {
	BaseURL        string        `yaml:"baseUrl"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	CacheTTL       time.Duration `yaml:"cacheTtl"`
	Valkey         ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PlacesConfig covers the city autocomplete proxy.
type PlacesConfig struct {
	BaseURL        string        `yaml:"baseUrl"`
	Limit          int           `yaml:"limit"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// LLMConfig contains the interpretation generator settings. Models are tried
// in order; the first success wins.
type LLMConfig struct {
	APIKey          string        `yaml:"apiKey"`
	BaseURL         string        `yaml:"baseUrl"`
	Models          []string      `yaml:"models"`
	Temperature     float32       `yaml:"temperature"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxPromptTokens int           `yaml:"maxPromptTokens"`
}

// DatabaseConfig contains DSN and pooling settings for the astrodata store.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ChartArchiveConfig controls optional archival of chart images to
// S3-compatible storage. Upstream chart URLs expire.
type ChartArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setStringList(&cfg.HTTP.AllowedOrigins, "HTTP_ALLOWED_ORIGINS")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.Astrology.BaseURL, "ASTROLOGY_BASE_URL")
	setString(&cfg.Astrology.APIKey, "ASTROLOGY_API_KEY")
	setDuration(&cfg.Astrology.RequestTimeout, "ASTROLOGY_REQUEST_TIMEOUT")
	setDuration(&cfg.Astrology.FetchTimeout, "ASTROLOGY_FETCH_TIMEOUT")
	setFloat(&cfg.Astrology.DefaultTimezone, "ASTROLOGY_DEFAULT_TIMEZONE")

	setString(&cfg.Horoscope.BaseURL, "HOROSCOPE_BASE_URL")
	setDuration(&cfg.Horoscope.RequestTimeout, "HOROSCOPE_REQUEST_TIMEOUT")
	setDuration(&cfg.Horoscope.CacheTTL, "HOROSCOPE_CACHE_TTL")
	setBool(&cfg.Horoscope.Valkey.Enabled, "HOROSCOPE_VALKEY_ENABLED")
	setString(&cfg.Horoscope.Valkey.Addr, "HOROSCOPE_VALKEY_ADDR")

	setString(&cfg.Places.BaseURL, "PLACES_BASE_URL")
	setInt(&cfg.Places.Limit, "PLACES_LIMIT")
	setDuration(&cfg.Places.RequestTimeout, "PLACES_REQUEST_TIMEOUT")

	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setStringList(&cfg.LLM.Models, "LLM_MODELS")
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")
	setInt(&cfg.LLM.MaxPromptTokens, "LLM_MAX_PROMPT_TOKENS")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}

	setString(&cfg.Database.DSN, "DATABASE_DSN")
	setInt32(&cfg.Database.MaxConns, "DATABASE_MAX_CONNS")
	setInt32(&cfg.Database.MinConns, "DATABASE_MIN_CONNS")

	setBool(&cfg.ChartArchive.Enabled, "CHART_ARCHIVE_ENABLED")
	setString(&cfg.ChartArchive.Endpoint, "CHART_ARCHIVE_ENDPOINT")
	setString(&cfg.ChartArchive.AccessKey, "CHART_ARCHIVE_ACCESS_KEY")
	setString(&cfg.ChartArchive.SecretKey, "CHART_ARCHIVE_SECRET_KEY")
	setString(&cfg.ChartArchive.Bucket, "CHART_ARCHIVE_BUCKET")
	setString(&cfg.ChartArchive.Region, "CHART_ARCHIVE_REGION")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setStringList(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = int32(parsed)
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude:     []string{"/getImage"},
			},
		},
		Astrology: AstrologyConfig{
			BaseURL:         "https://json.freeastrologyapi.com",
			RequestTimeout:  10 * time.Second,
			FetchTimeout:    15 * time.Second,
			DefaultTimezone: 5.5,
		},
		Horoscope: HoroscopeConfig{
			BaseURL:        "https://astrotalk.com/horoscope",
			RequestTimeout: 10 * time.Second,
			CacheTTL:       time.Hour,
		},
		Places: PlacesConfig{
			BaseURL:        "https://api.supportchat.astrotalk.com/AstroChat/cities/allcountries/autocomplete",
			Limit:          10,
			RequestTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			Models:          []string{"gpt-4o-mini", "gpt-4o"},
			Temperature:     0.4,
			Timeout:         60 * time.Second,
			MaxPromptTokens: 6000,
		},
		Database: DatabaseConfig{
			MaxConns: 4,
			MinConns: 0,
		},
	}
}

// Validate ensures the configuration is safe to use. API keys are allowed to
// be empty at startup; the affected call fails at request time instead.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Astrology.BaseURL == "" {
		return errors.New("astrology.baseUrl cannot be empty")
	}
	if c.Astrology.FetchTimeout <= 0 {
		return errors.New("astrology.fetchTimeout must be positive")
	}
	if c.Horoscope.BaseURL == "" {
		return errors.New("horoscope.baseUrl cannot be empty")
	}
	if c.Horoscope.CacheTTL < 0 {
		return errors.New("horoscope.cacheTtl cannot be negative")
	}
	if c.Horoscope.Valkey.Enabled && strings.TrimSpace(c.Horoscope.Valkey.Addr) == "" {
		return errors.New("horoscope.valkey.addr cannot be empty when the cache is enabled")
	}
	if c.Places.BaseURL == "" {
		return errors.New("places.baseUrl cannot be empty")
	}
	if c.Places.Limit <= 0 {
		return errors.New("places.limit must be positive")
	}
	if len(c.LLM.Models) == 0 {
		return errors.New("llm.models cannot be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.LLM.MaxPromptTokens <= 0 {
		return errors.New("llm.maxPromptTokens must be positive")
	}
	if c.ChartArchive.Enabled {
		if c.ChartArchive.Endpoint == "" {
			return errors.New("chartArchive.endpoint cannot be empty when archival is enabled")
		}
		if c.ChartArchive.Bucket == "" {
			return errors.New("chartArchive.bucket cannot be empty when archival is enabled")
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
