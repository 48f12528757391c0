// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, validation and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  dir: "data"
  file: "discord_messages.db"

logging:
  level: "debug"
  format: "json"

retention:
  enabled: true
  max_age: "720h"
  schedule: "0 3 * * *"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Dir != "data" {
		t.Errorf("Database.Dir = %q, want %q", cfg.Database.Dir, "data")
	}
	if cfg.Database.File != "discord_messages.db" {
		t.Errorf("Database.File = %q, want %q", cfg.Database.File, "discord_messages.db")
	}
	if got, want := cfg.Database.Path(), filepath.Join("data", "discord_messages.db"); got != want {
		t.Errorf("Database.Path() = %q, want %q", got, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if !cfg.Retention.Enabled {
		t.Error("Retention.Enabled = false, want true")
	}
	if cfg.Retention.MaxAge != 720*time.Hour {
		t.Errorf("Retention.MaxAge = %v, want %v", cfg.Retention.MaxAge, 720*time.Hour)
	}
	if cfg.Retention.Schedule != "0 3 * * *" {
		t.Errorf("Retention.Schedule = %q, want %q", cfg.Retention.Schedule, "0 3 * * *")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SCRIBE_TEST_DIR", "/var/lib/scribe")

	path := writeConfig(t, `
database:
  dir: "${SCRIBE_TEST_DIR}"
  file: "messages.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Dir != "/var/lib/scribe" {
		t.Errorf("Database.Dir = %q, want %q", cfg.Database.Dir, "/var/lib/scribe")
	}
}

func TestLoad_MissingDatabaseDir(t *testing.T) {
	path := writeConfig(t, `
database:
  file: "messages.db"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "database.dir") {
		t.Errorf("expected database.dir validation error, got %v", err)
	}
}

func TestLoad_MissingDatabaseFile(t *testing.T) {
	path := writeConfig(t, `
database:
  dir: "data"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "database.file") {
		t.Errorf("expected database.file validation error, got %v", err)
	}
}

func TestLoad_RetentionRequiresMaxAge(t *testing.T) {
	path := writeConfig(t, `
database:
  dir: "data"
  file: "messages.db"

retention:
  enabled: true
  schedule: "0 3 * * *"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "retention.max_age") {
		t.Errorf("expected retention.max_age validation error, got %v", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
database:
  dir: "data"
  file: "messages.db"

retention:
  enabled: true
  max_age: "one month"
  schedule: "0 3 * * *"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "max_age") {
		t.Errorf("expected duration parse error, got %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}
