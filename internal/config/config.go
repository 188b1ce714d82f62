// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Serp      SerpConfig      `yaml:"serp" mapstructure:"serp"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerpConfig holds SerpAPI credentials and rate limiting. The rate limit is
// shared across every discovery and leadership call of a run.
type SerpConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// DiscoveryConfig configures the discovery stage.
type DiscoveryConfig struct {
	MaxHits int  `yaml:"max_hits" mapstructure:"max_hits"`
	Workers int  `yaml:"workers" mapstructure:"workers"`
	Maps    bool `yaml:"maps" mapstructure:"maps"`
	Organic bool `yaml:"organic" mapstructure:"organic"`
}

// EnrichConfig configures the enrichment stage.
type EnrichConfig struct {
	Workers            int `yaml:"workers" mapstructure:"workers"`
	WebsiteTimeoutSecs int `yaml:"website_timeout_secs" mapstructure:"website_timeout_secs"`
}

// PipelineConfig configures run-level behavior.
type PipelineConfig struct {
	TopN           int `yaml:"top_n" mapstructure:"top_n"`
	RunTimeoutSecs int `yaml:"run_timeout_secs" mapstructure:"run_timeout_secs"`
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
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Empty defaults keep env-only keys visible to Unmarshal.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "leadscout.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("serp.key", "")
	v.SetDefault("serp.base_url", "https://serpapi.com")
	v.SetDefault("serp.rate_limit", 2.0)
	v.SetDefault("discovery.max_hits", 12)
	v.SetDefault("discovery.workers", 4)
	v.SetDefault("discovery.maps", true)
	v.SetDefault("discovery.organic", true)
	v.SetDefault("enrich.workers", 5)
	v.SetDefault("enrich.website_timeout_secs", 5)
	v.SetDefault("pipeline.top_n", 5)
	v.SetDefault("pipeline.run_timeout_secs", 120)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks that required credentials are present. A missing SerpAPI
// key is fatal at startup, before any pipeline run is accepted.
func (c *Config) Validate() error {
	if c.Serp.Key == "" {
		return eris.New("config: serp.key is required (set LEADSCOUT_SERP_KEY)")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required for the postgres driver")
	}
	if !c.Discovery.Maps && !c.Discovery.Organic {
		return eris.New("config: at least one discovery source must be enabled (discovery.maps or discovery.organic)")
	}
	return nil
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
