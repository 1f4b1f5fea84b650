package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
catalog:
  source: sqlite
redis:
  addr: localhost:6379
  db: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Catalog.Source != SourceSQLite || cfg.Redis.DB != 2 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Catalog.Default != "default" || cfg.Log.Level != "INFO" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "redis:\n  addr: file:6379\n")
	t.Setenv("QUIZ_REDIS_ADDR", "env:6379")
	t.Setenv("QUIZ_CATALOG_SOURCE", "http")
	t.Setenv("QUIZ_CATALOG_URL", "https://example.com/catalogs")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Addr != "env:6379" {
		t.Fatalf("expected env override, got %q", cfg.Redis.Addr)
	}
	if cfg.Catalog.Source != SourceHTTP || cfg.Catalog.URL != "https://example.com/catalogs" {
		t.Fatalf("catalog env not applied: %+v", cfg.Catalog)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := Load(writeConfig(t, "catalog: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
	if _, err := Load(writeConfig(t, "catalog:\n  source: ftp\n")); err == nil {
		t.Fatalf("expected unknown source error")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for raw, want := range cases {
		cfg := Default()
		cfg.Log.Level = raw
		got, err := cfg.LogLevel()
		if err != nil || got != want {
			t.Fatalf("level %q = %v (%v), want %v", raw, got, err, want)
		}
	}

	cfg := Default()
	cfg.Log.Level = "loud"
	if _, err := cfg.LogLevel(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty = %s", got)
	}
	if got := TTLDuration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("30s = %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("invalid = %s", got)
	}
}
