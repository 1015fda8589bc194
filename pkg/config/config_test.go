package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	if cfg.Sync.RetryDelaySeconds != 5 {
		t.Errorf("RetryDelaySeconds = %d, want 5", cfg.Sync.RetryDelaySeconds)
	}
	if cfg.Sync.BatchSize != 20 {
		t.Errorf("BatchSize = %d, want 20", cfg.Sync.BatchSize)
	}
	if cfg.Sync.BatchPauseSeconds != 15 {
		t.Errorf("BatchPauseSeconds = %d, want 15", cfg.Sync.BatchPauseSeconds)
	}
	if cfg.Sync.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Sync.MaxRetries)
	}
	if cfg.Sync.AutoUpdateIntervalMinutes != 0 {
		t.Errorf("AutoUpdateIntervalMinutes = %d, want 0", cfg.Sync.AutoUpdateIntervalMinutes)
	}
	if cfg.Trending.Region != "US" {
		t.Errorf("Region = %q, want %q", cfg.Trending.Region, "US")
	}
	if cfg.LogFile != "tubesync.log" {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, "tubesync.log")
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
sync:
  retry_delay_seconds: 2
  batch_size: 5
  exclude_keywords: "shorts, trailer"
  min_duration_minutes: 10
  max_duration_minutes: 20
trending:
  region: DE
log_file: custom.log
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)

	if cfg.Sync.RetryDelaySeconds != 2 {
		t.Errorf("RetryDelaySeconds = %d, want 2", cfg.Sync.RetryDelaySeconds)
	}
	if cfg.Sync.BatchSize != 5 {
		t.Errorf("BatchSize = %d, want 5", cfg.Sync.BatchSize)
	}
	if cfg.Sync.BatchPauseSeconds != 15 {
		t.Errorf("BatchPauseSeconds = %d, want default 15", cfg.Sync.BatchPauseSeconds)
	}
	if cfg.Trending.Region != "DE" {
		t.Errorf("Region = %q, want %q", cfg.Trending.Region, "DE")
	}
	if cfg.LogFile != "custom.log" {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, "custom.log")
	}
	if got, want := cfg.MinDurationSeconds(), 600; got != want {
		t.Errorf("MinDurationSeconds() = %d, want %d", got, want)
	}
	if got, want := cfg.MaxDurationSeconds(), 1200; got != want {
		t.Errorf("MaxDurationSeconds() = %d, want %d", got, want)
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespaceOnly", "  ", nil},
		{"single", "shorts", []string{"shorts"}},
		{"trimmed", " shorts , trailer,live ", []string{"shorts", "trailer", "live"}},
		{"danglingComma", "shorts,,", []string{"shorts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Sync: SyncConfig{ExcludeKeywords: tt.raw}}
			if got := cfg.Keywords(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Load(path)
	cfg.Sync.BatchSize = 7
	cfg.Sync.ExcludeKeywords = "podcast"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := Load(path)
	if reloaded.Sync.BatchSize != 7 {
		t.Errorf("reloaded BatchSize = %d, want 7", reloaded.Sync.BatchSize)
	}
	if reloaded.Sync.ExcludeKeywords != "podcast" {
		t.Errorf("reloaded ExcludeKeywords = %q, want %q", reloaded.Sync.ExcludeKeywords, "podcast")
	}
}
