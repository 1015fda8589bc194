// Package config loads tubesync settings from .env, config.yaml and the
// environment, applying defaults for anything left unset.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config.yaml"

	defaultTokenPath         = "./youtube_token.json"
	defaultLogFile           = "tubesync.log"
	defaultBatchFile         = "batch.yaml"
	defaultRegion            = "US"
	defaultRetryDelaySeconds = 5
	defaultBatchSize         = 20
	defaultBatchPauseSeconds = 15
	defaultMaxRetries        = 3
	defaultTrendingResults   = 10
)

type Config struct {
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeTokenPath    string

	Sync     SyncConfig     `yaml:"sync"`
	Trending TrendingConfig `yaml:"trending"`

	LogFile   string `yaml:"log_file"`
	BatchFile string `yaml:"batch_file"`
}

type SyncConfig struct {
	RetryDelaySeconds         int    `yaml:"retry_delay_seconds"`
	BatchSize                 int    `yaml:"batch_size"`
	BatchPauseSeconds         int    `yaml:"batch_pause_seconds"`
	MaxRetries                int    `yaml:"max_retries"`
	ExcludeKeywords           string `yaml:"exclude_keywords"`
	MinDurationMinutes        int    `yaml:"min_duration_minutes"`
	MaxDurationMinutes        int    `yaml:"max_duration_minutes"`
	AutoUpdateIntervalMinutes int    `yaml:"auto_update_interval_minutes"`
}

type TrendingConfig struct {
	Region     string `yaml:"region"`
	MaxResults int    `yaml:"max_results"`
}

// Load reads configuration from the given YAML path (DefaultConfigPath when
// empty), layering .env and environment variables on top.
func Load(path string) *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:    getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
	}

	if path == "" {
		path = DefaultConfigPath
	}
	loadYAML(cfg, path)
	applyDefaults(cfg)

	return cfg
}

func loadYAML(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("No config file found, using defaults", "path", path)
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config file", "path", path, "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Sync.RetryDelaySeconds == 0 {
		cfg.Sync.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	if cfg.Sync.BatchSize == 0 {
		cfg.Sync.BatchSize = defaultBatchSize
	}
	if cfg.Sync.BatchPauseSeconds == 0 {
		cfg.Sync.BatchPauseSeconds = defaultBatchPauseSeconds
	}
	if cfg.Sync.MaxRetries == 0 {
		cfg.Sync.MaxRetries = defaultMaxRetries
	}
	if cfg.Trending.Region == "" {
		cfg.Trending.Region = defaultRegion
	}
	if cfg.Trending.MaxResults == 0 {
		cfg.Trending.MaxResults = defaultTrendingResults
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	if cfg.BatchFile == "" {
		cfg.BatchFile = defaultBatchFile
	}
}

// Save writes the YAML-backed portion of the configuration to path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Keywords splits the comma-separated exclude list into trimmed, non-empty
// keywords.
func (c *Config) Keywords() []string {
	if strings.TrimSpace(c.Sync.ExcludeKeywords) == "" {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(c.Sync.ExcludeKeywords, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// MinDurationSeconds converts the configured minimum from minutes; 0 means no
// lower bound.
func (c *Config) MinDurationSeconds() int {
	return c.Sync.MinDurationMinutes * 60
}

// MaxDurationSeconds converts the configured maximum from minutes; 0 means no
// upper bound.
func (c *Config) MaxDurationSeconds() int {
	return c.Sync.MaxDurationMinutes * 60
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
