package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FlagsOverrideDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load([]string{
		"-addr", ":9090",
		"-dsn", "postgres://u:p@db:5432/x",
		"-jwt-key", "k",
		"-access-ttl", "30m",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.DatabaseDSN != "postgres://u:p@db:5432/x" {
		t.Fatalf("DatabaseDSN=%q", cfg.DatabaseDSN)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("AccessTTL=%v", cfg.AccessTTL)
	}
}

func TestLoad_JSONOverlayThenFlags(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"address": ":7070", "database_dsn": "postgres://file/db", "secret_key": "from-file", "access_ttl": "5m"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load([]string{"-config", path, "-addr", ":9090"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" { // flag wins over file
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.DatabaseDSN != "postgres://file/db" {
		t.Fatalf("DatabaseDSN=%q", cfg.DatabaseDSN)
	}
	if cfg.SecretKey != "from-file" {
		t.Fatalf("SecretKey=%q", cfg.SecretKey)
	}
	if cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("AccessTTL=%v", cfg.AccessTTL)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := Load(nil); err == nil {
		t.Fatalf("want error when no signing key is configured")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load([]string{"-config", path, "-jwt-key", "k"}); err == nil {
		t.Fatalf("want error for malformed JSON")
	}
}
