// Package config loads league-stats settings from an optional config file and
// LEAGUE_STATS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides,
// e.g. LEAGUE_STATS_SCRAPER_TIMEOUT=10s.
const EnvPrefix = "LEAGUE_STATS"

// Config represents the complete application configuration
type Config struct {
	Scraper ScraperConfig     `mapstructure:"scraper"`
	Leagues map[string]string `mapstructure:"leagues"` // slug → URL override
	Chart   ChartConfig       `mapstructure:"chart"`
	Export  ExportConfig      `mapstructure:"export"`
	Logging LoggingConfig     `mapstructure:"logging"`
}

// ScraperConfig holds HTTP fetching configuration
type ScraperConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
	Retries    uint          `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	BaseURL    string        `mapstructure:"base_url"`
}

// ChartConfig holds chart rendering configuration
type ChartConfig struct {
	Width     float64 `mapstructure:"width"`  // inches
	Height    float64 `mapstructure:"height"` // inches
	OutputDir string  `mapstructure:"output_dir"`
}

// ExportConfig holds export configuration
type ExportConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from path (optional) and environment variables.
// An empty path means defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	outputDir, err := ExpandHome(cfg.Chart.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("chart.output_dir: %w", err)
	}
	cfg.Chart.OutputDir = outputDir

	return &cfg, nil
}

// ExpandHome replaces a leading ~/ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.timeout", "30s")
	v.SetDefault("scraper.user_agent", "league-stats/1.0 (github.com/LeoCastillo21/Proyecto)")
	v.SetDefault("scraper.retries", 3)
	v.SetDefault("scraper.retry_delay", "1s")
	v.SetDefault("scraper.base_url", "")

	// 10x6 inch figure
	v.SetDefault("chart.width", 10.0)
	v.SetDefault("chart.height", 6.0)
	v.SetDefault("chart.output_dir", "")

	v.SetDefault("export.data_dir", "~/.local/share/league-stats")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be positive")
	}
	if c.Scraper.UserAgent == "" {
		return fmt.Errorf("scraper.user_agent is required")
	}
	if c.Scraper.Retries < 1 {
		return fmt.Errorf("scraper.retries must be at least 1")
	}
	if c.Scraper.RetryDelay < 0 {
		return fmt.Errorf("scraper.retry_delay must not be negative")
	}

	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}

	if c.Export.DataDir == "" {
		return fmt.Errorf("export.data_dir is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be one of: json, console")
	}

	return nil
}
