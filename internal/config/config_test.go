package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Store.Backend != "table" {
		t.Fatalf("expected table backend, got %q", cfg.Store.Backend)
	}
}

func TestNormalizeDerivesDependentPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "data")
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if cfg.Paths.LogDir != filepath.Join(cfg.Paths.DataDir, "logs") {
		t.Fatalf("log dir not derived from data dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Store.TablePath != filepath.Join(cfg.Paths.DataDir, "products.csv") {
		t.Fatalf("table path not derived from data dir: %q", cfg.Store.TablePath)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		`[paths]`,
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`image_roots = ["` + filepath.Join(dir, "images") + `"]`,
		``,
		`[store]`,
		`backend = "snapshot"`,
		``,
		`[snapshot]`,
		`endpoint = "https://example.com/catalog"`,
		`write_token = "secret-token"`,
		`scope = "Outlet"`,
		``,
		`[submission]`,
		`max_products = 5`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Store.Backend != "snapshot" {
		t.Fatalf("backend not parsed: %q", cfg.Store.Backend)
	}
	if cfg.Snapshot.Scope != "outlet" {
		t.Fatalf("scope should be lowercased: %q", cfg.Snapshot.Scope)
	}
	if cfg.Submission.MaxProducts != 5 {
		t.Fatalf("max_products not parsed: %d", cfg.Submission.MaxProducts)
	}
	if cfg.Submission.MaxBytes != defaultMaxBytes {
		t.Fatalf("unset limits should keep defaults: %d", cfg.Submission.MaxBytes)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestValidateRejectsOversizedImageBudget(t *testing.T) {
	cfg := Default()
	cfg.Submission.MaxImageBytes = cfg.Submission.MaxBytes + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max_image_bytes exceeds max_bytes")
	}
}

func TestValidateRejectsEmptyCurrencyCode(t *testing.T) {
	cfg := Default()
	cfg.Catalog.CurrencyRates[" "] = 1.1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank currency code")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Submission.MaxProducts != defaultMaxProducts {
		t.Fatalf("defaults not applied: %d", cfg.Submission.MaxProducts)
	}
}
