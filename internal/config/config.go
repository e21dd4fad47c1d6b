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
	Edinet   EdinetConfig   `yaml:"edinet" mapstructure:"edinet"`
	Yahoo    YahooConfig    `yaml:"yahoo" mapstructure:"yahoo"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// EdinetConfig holds EDINET v2 API settings.
type EdinetConfig struct {
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	LookbackDays int    `yaml:"lookback_days" mapstructure:"lookback_days"`
	// DisableArchiveCache forces a fresh archive download on every run.
	DisableArchiveCache bool `yaml:"disable_archive_cache" mapstructure:"disable_archive_cache"`
}

// YahooConfig holds Yahoo Finance chart API settings.
type YahooConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Years   int    `yaml:"years" mapstructure:"years"`
}

// AnalysisConfig holds valuation assumptions.
type AnalysisConfig struct {
	WACC         float64 `yaml:"wacc" mapstructure:"wacc"`
	BullGrowth   float64 `yaml:"bull_growth" mapstructure:"bull_growth"`
	TaxRate      float64 `yaml:"tax_rate" mapstructure:"tax_rate"`
	HorizonYears int     `yaml:"horizon_years" mapstructure:"horizon_years"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the JSON API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// BatchConfig configures multi-ticker analysis.
type BatchConfig struct {
	MaxConcurrentTickers int `yaml:"max_concurrent_tickers" mapstructure:"max_concurrent_tickers"`
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
	v.SetEnvPrefix("KESSAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("edinet.base_url", "https://api.edinet-fsa.go.jp/api/v2")
	v.SetDefault("edinet.lookback_days", 30)
	v.SetDefault("edinet.disable_archive_cache", false)
	v.SetDefault("yahoo.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("yahoo.years", 5)
	v.SetDefault("analysis.wacc", 0.10)
	v.SetDefault("analysis.bull_growth", 0.20)
	v.SetDefault("analysis.tax_rate", 0.30)
	v.SetDefault("analysis.horizon_years", 10)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "kessan.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_tickers", 4)
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

	if cfg.Edinet.LookbackDays < 1 || cfg.Edinet.LookbackDays > 90 {
		return nil, eris.Errorf("config: edinet.lookback_days %d out of range 1-90", cfg.Edinet.LookbackDays)
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
