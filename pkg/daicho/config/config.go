// Package config loads the application configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/daicho/pkg/daicho/internalerr"
)

// Config holds all tunable paths and settings. Zero values fall back to
// the defaults from Default().
type Config struct {
	// DataDir is where uploaded ledger sources live.
	DataDir string `yaml:"data_dir"`
	// DataFile is the combined interchange TSV the engine reads.
	DataFile string `yaml:"data_file"`
	// PurchaseFilename and SalesFilename name the two ledger sources
	// inside DataDir.
	PurchaseFilename string `yaml:"purchase_filename"`
	SalesFilename    string `yaml:"sales_filename"`
	// Classifier is the argv prefix of the external row classifier.
	Classifier []string `yaml:"classifier"`
	// Encoding is the source character encoding of the raw ledgers.
	Encoding string `yaml:"encoding"`
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file or field is given.
func Default() Config {
	return Config{
		DataDir:          "data",
		DataFile:         "normalized_ledgers.tsv",
		PurchaseFilename: "買掛台帳.TXT",
		SalesFilename:    "売掛台帳.TXT",
		Classifier:       []string{"daicho-classify"},
		Encoding:         "cp932",
		Listen:           ":8080",
		LogLevel:         "info",
	}
}

// Load reads a YAML config file and overlays it on the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	d := Default()
	if cfg.DataDir == "" {
		cfg.DataDir = d.DataDir
	}
	if cfg.DataFile == "" {
		cfg.DataFile = d.DataFile
	}
	if cfg.PurchaseFilename == "" {
		cfg.PurchaseFilename = d.PurchaseFilename
	}
	if cfg.SalesFilename == "" {
		cfg.SalesFilename = d.SalesFilename
	}
	if len(cfg.Classifier) == 0 {
		cfg.Classifier = d.Classifier
	}
	if cfg.Encoding == "" {
		cfg.Encoding = d.Encoding
	}
	if cfg.Listen == "" {
		cfg.Listen = d.Listen
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	return cfg, nil
}

// PurchasePath is the full path of the purchase ledger source.
func (c Config) PurchasePath() string {
	return filepath.Join(c.DataDir, c.PurchaseFilename)
}

// SalesPath is the full path of the sales ledger source.
func (c Config) SalesPath() string {
	return filepath.Join(c.DataDir, c.SalesFilename)
}
