package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/daicho/pkg/daicho/internalerr"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	if cfg.DataDir != want.DataDir || cfg.DataFile != want.DataFile {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, want)
	}
	if cfg.PurchaseFilename != "買掛台帳.TXT" || cfg.SalesFilename != "売掛台帳.TXT" {
		t.Errorf("default ledger filenames = %q, %q", cfg.PurchaseFilename, cfg.SalesFilename)
	}
	if cfg.Encoding != "cp932" || cfg.Listen != ":8080" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadOverlaysOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daicho.yaml")
	content := `
data_dir: /var/ledgers
classifier: ["/usr/local/bin/daicho-classify", "-ledger", ""]
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/var/ledgers" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "/var/ledgers")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if len(cfg.Classifier) != 3 || cfg.Classifier[0] != "/usr/local/bin/daicho-classify" {
		t.Errorf("Classifier = %v", cfg.Classifier)
	}

	// Fields the file omits keep their defaults.
	if cfg.DataFile != "normalized_ledgers.tsv" {
		t.Errorf("DataFile = %q, want default", cfg.DataFile)
	}
	if cfg.Encoding != "cp932" {
		t.Errorf("Encoding = %q, want default", cfg.Encoding)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("data_dir: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Load() = %v, want ErrInvalidConfig", err)
	}
}

func TestLedgerPaths(t *testing.T) {
	cfg := Config{DataDir: "data", PurchaseFilename: "p.TXT", SalesFilename: "s.TXT"}
	if got := cfg.PurchasePath(); got != filepath.Join("data", "p.TXT") {
		t.Errorf("PurchasePath() = %q", got)
	}
	if got := cfg.SalesPath(); got != filepath.Join("data", "s.TXT") {
		t.Errorf("SalesPath() = %q", got)
	}
}
