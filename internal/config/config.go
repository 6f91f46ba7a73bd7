package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lookbook-labs/stylist-cli/internal/retailer"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	ShopSearch ShopSearchConfig `yaml:"shopsearch" mapstructure:"shopsearch"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Collage    CollageConfig    `yaml:"collage" mapstructure:"collage"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Retailer   retailer.Rules   `yaml:"retailer" mapstructure:"retailer"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ShopSearchConfig holds shopping-search provider settings.
type ShopSearchConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AnthropicConfig holds Anthropic API settings for concept generation.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// CollageConfig holds the collage renderer endpoint. Rendering is disabled
// when the base URL is empty.
type CollageConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CacheConfig configures in-memory cache TTLs (minutes per tier).
type CacheConfig struct {
	ShortTTLMins  int `yaml:"short_ttl_mins" mapstructure:"short_ttl_mins"`
	MediumTTLMins int `yaml:"medium_ttl_mins" mapstructure:"medium_ttl_mins"`
	LongTTLMins   int `yaml:"long_ttl_mins" mapstructure:"long_ttl_mins"`
	SweepSecs     int `yaml:"sweep_secs" mapstructure:"sweep_secs"`
}

// SearchConfig configures item resolution behavior.
type SearchConfig struct {
	MaxAttempts    int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelayMs    int     `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	JitterFraction float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
	MaxInFlight    int     `yaml:"max_in_flight" mapstructure:"max_in_flight"`
	ResultLimit    int     `yaml:"result_limit" mapstructure:"result_limit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STYLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "stylist.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("shopsearch.base_url", "https://serpapi.com")
	v.SetDefault("shopsearch.timeout_secs", 15)
	v.SetDefault("shopsearch.rate_limit", 2)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("cache.short_ttl_mins", 5)
	v.SetDefault("cache.medium_ttl_mins", 60)
	v.SetDefault("cache.long_ttl_mins", 1440)
	v.SetDefault("cache.sweep_secs", 300)
	v.SetDefault("search.max_attempts", 2)
	v.SetDefault("search.base_delay_ms", 400)
	v.SetDefault("search.jitter_fraction", 0.25)
	v.SetDefault("search.max_in_flight", 6)
	v.SetDefault("search.result_limit", 10)

	defaults := retailer.DefaultRules()
	v.SetDefault("retailer.ultra_budget_brands", defaults.UltraBudgetBrands)
	v.SetDefault("retailer.athletic_brands", defaults.AthleticBrands)
	v.SetDefault("retailer.excluded_brands", defaults.ExcludedBrands)
	v.SetDefault("retailer.budget_keywords", defaults.BudgetKeywords)
	v.SetDefault("retailer.athletic_keywords", defaults.AthleticKeywords)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
