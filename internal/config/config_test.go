package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"MEDICONNECT_STATE_DIR": "/tmp/mc",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("MetricsAddr = %q, want empty", cfg.MetricsAddr)
	}
	if got := cfg.SessionFile(); got != filepath.Join("/tmp/mc", "session") {
		t.Errorf("SessionFile() = %q", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"MEDICONNECT_API_URL":         "http://backend:9000/api",
		"MEDICONNECT_REQUEST_TIMEOUT": "5s",
		"MEDICONNECT_LOG_LEVEL":       "debug",
		"MEDICONNECT_LOG_PRETTY":      "true",
		"MEDICONNECT_STATE_DIR":       "/var/mc",
		"MEDICONNECT_METRICS_ADDR":    ":9100",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.APIURL != "http://backend:9000/api" || cfg.RequestTimeout != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.LogPretty || cfg.LogLevel != "debug" || cfg.MetricsAddr != ":9100" {
		t.Errorf("cfg = %+v", cfg)
	}
	if got := cfg.LogFile(); got != filepath.Join("/var/mc", "mediconnect.log") {
		t.Errorf("LogFile() = %q", got)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"MEDICONNECT_REQUEST_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatal("expected error for unparseable timeout")
	}
	_, err = LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"MEDICONNECT_REQUEST_TIMEOUT": "0s",
		"MEDICONNECT_STATE_DIR":       "/tmp/mc",
	}))
	if err == nil {
		t.Fatal("expected error for zero timeout")
	}
}
