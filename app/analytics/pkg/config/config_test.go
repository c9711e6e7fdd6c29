package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service:
  base_url: "http://journal.local:5000"
  qps: 2
  rpm: 60
analytics:
  trend_window: 14
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Service.BaseURL != "http://journal.local:5000" || cfg.Service.QPS != 2 || cfg.Service.RPM != 60 {
		t.Errorf("Service = %+v", cfg.Service)
	}
	if cfg.Analytics.TrendWindow != 14 {
		t.Errorf("TrendWindow = %d, want 14", cfg.Analytics.TrendWindow)
	}
	if cfg.Analytics.SentimentDays != 30 || cfg.Analytics.HeatmapLookback != 365 || cfg.Analytics.EntryDays != 372 {
		t.Errorf("Analytics defaults = %+v", cfg.Analytics)
	}
	if cfg.Service.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v, want 30s", cfg.Service.RequestTimeout())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("LoadConfig() error = nil, want error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEMIND_BASE_URL", "http://override:1")
	t.Setenv("WEMIND_LOG_LEVEL", "warn")

	cfg := &Config{}
	cfg.Defaults()
	cfg.ApplyEnv()
	if cfg.Service.BaseURL != "http://override:1" || cfg.Log.Level != "warn" {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}
}
