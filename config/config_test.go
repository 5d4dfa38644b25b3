package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"SEATMAP_VENUE_FILE", "SEATMAP_API_URL", "SEATMAP_API_TOKEN", "SEATMAP_HTTP_TIMEOUT", "SEATMAP_LOG_LEVEL", "SEATMAP_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	t.Setenv("SEATMAP_LOG_FILE", "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Timeout != 12*time.Second {
		t.Fatalf("expected 12s timeout, got %s", cfg.API.Timeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if filepath.Base(cfg.Log.File) != "seatmap.log" {
		t.Fatalf("unexpected log file: %s", cfg.Log.File)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEATMAP_VENUE_FILE", "venue.json")
	t.Setenv("SEATMAP_API_URL", "http://localhost:8080/api/")
	t.Setenv("SEATMAP_API_TOKEN", "secret")
	t.Setenv("SEATMAP_HTTP_TIMEOUT", "3s")
	t.Setenv("SEATMAP_LOG_LEVEL", "DEBUG")
	t.Setenv("SEATMAP_LOG_FORMAT", "json")
	t.Setenv("SEATMAP_LOG_FILE", "/tmp/x.log")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.VenueFile != "venue.json" {
		t.Fatalf("unexpected venue file: %s", cfg.VenueFile)
	}
	if cfg.API.URL != "http://localhost:8080/api" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.API.URL)
	}
	if cfg.API.Token != "secret" || cfg.API.Timeout != 3*time.Second {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || cfg.Log.File != "/tmp/x.log" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestNewInvalidTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEATMAP_HTTP_TIMEOUT", "soon")
	_, err := New()
	if err == nil || !strings.HasPrefix(err.Error(), "config.New: invalid SEATMAP_HTTP_TIMEOUT") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestNewInvalidFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEATMAP_HTTP_TIMEOUT", "")
	t.Setenv("SEATMAP_LOG_FORMAT", "xml")
	if _, err := New(); err == nil {
		t.Fatalf("expected format error")
	}
}
