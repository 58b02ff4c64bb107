package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}

	if cfg.Scraper.Timeout != 30*time.Second {
		t.Errorf("Scraper.Timeout = %v, want 30s", cfg.Scraper.Timeout)
	}
	if cfg.Scraper.Retries != 3 {
		t.Errorf("Scraper.Retries = %d, want 3", cfg.Scraper.Retries)
	}
	if cfg.Chart.Width != 10 || cfg.Chart.Height != 6 {
		t.Errorf("Chart size = %vx%v, want 10x6", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league-stats.yaml")
	content := `
scraper:
  timeout: 5s
  retries: 1
  base_url: http://127.0.0.1:9000
leagues:
  la-liga: https://mirror.example.com/la-liga
chart:
  width: 8
  output_dir: /tmp/charts
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Scraper.Timeout != 5*time.Second {
		t.Errorf("Scraper.Timeout = %v, want 5s", cfg.Scraper.Timeout)
	}
	if cfg.Scraper.Retries != 1 {
		t.Errorf("Scraper.Retries = %d, want 1", cfg.Scraper.Retries)
	}
	if cfg.Scraper.BaseURL != "http://127.0.0.1:9000" {
		t.Errorf("Scraper.BaseURL = %q", cfg.Scraper.BaseURL)
	}
	if cfg.Leagues["la-liga"] != "https://mirror.example.com/la-liga" {
		t.Errorf("Leagues[la-liga] = %q", cfg.Leagues["la-liga"])
	}
	if cfg.Chart.Width != 8 || cfg.Chart.Height != 6 {
		t.Errorf("Chart size = %vx%v, want 8x6", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Chart.OutputDir != "/tmp/charts" {
		t.Errorf("Chart.OutputDir = %q", cfg.Chart.OutputDir)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LEAGUE_STATS_SCRAPER_TIMEOUT", "12s")
	t.Setenv("LEAGUE_STATS_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Scraper.Timeout != 12*time.Second {
		t.Errorf("Scraper.Timeout = %v, want 12s", cfg.Scraper.Timeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error, got nil")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Scraper: ScraperConfig{Timeout: time.Second, UserAgent: "ua", Retries: 1},
			Chart:   ChartConfig{Width: 10, Height: 6},
			Export:  ExportConfig{DataDir: "/tmp"},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.Scraper.Timeout = 0 }, wantErr: true},
		{name: "no user agent", mutate: func(c *Config) { c.Scraper.UserAgent = "" }, wantErr: true},
		{name: "zero retries", mutate: func(c *Config) { c.Scraper.Retries = 0 }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.Scraper.RetryDelay = -time.Second }, wantErr: true},
		{name: "zero chart height", mutate: func(c *Config) { c.Chart.Height = 0 }, wantErr: true},
		{name: "no data dir", mutate: func(c *Config) { c.Export.DataDir = "" }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ChartOutputDirHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LEAGUE_STATS_CHART_OUTPUT_DIR", "~/charts")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}

	want := filepath.Join(home, "charts")
	if cfg.Chart.OutputDir != want {
		t.Errorf("Chart.OutputDir = %q, want %q", cfg.Chart.OutputDir, want)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "home prefix", path: "~/charts", want: filepath.Join(home, "charts")},
		{name: "absolute", path: "/tmp/charts", want: "/tmp/charts"},
		{name: "relative", path: "charts", want: "charts"},
		{name: "empty", path: "", want: ""},
		{name: "tilde user form untouched", path: "~other/charts", want: "~other/charts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHome(tt.path)
			if err != nil {
				t.Fatalf("ExpandHome(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
