package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the workspace root.
const FileName = "gastos.yaml"

// Config represents the top-level gastos.yaml configuration.
type Config struct {
	Ledger  LedgerConfig  `yaml:"ledger"`
	Storage StorageConfig `yaml:"storage"`
	Rules   RulesConfig   `yaml:"rules"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Git     GitConfig     `yaml:"git"`
}

// LedgerConfig locates the expense ledger.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig controls where uploaded receipts are kept.
type StorageConfig struct {
	ReceiptsDir string `yaml:"receipts_dir"`
	Archive     bool   `yaml:"archive"`
}

// RulesConfig locates the classification rules file.
type RulesConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig sets the log level and the ingest audit log location.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	IngestLog string `yaml:"ingest_log"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a gastos.yaml file from disk. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadWorkspace reads <root>/gastos.yaml, falling back to defaults when the
// workspace has none, then applies environment overrides.
func LoadWorkspace(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, root); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Path: "gastos.csv",
		},
		Storage: StorageConfig{
			ReceiptsDir: "comprobantes",
			Archive:     true,
		},
		Rules: RulesConfig{
			Path: filepath.Join("rules", "classification-rules.yaml"),
		},
		Logging: LoggingConfig{
			Level:     "info",
			IngestLog: filepath.Join("logs", "ingest-log.csv"),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Gastos",
			AuthorEmail: "gastos@localhost",
		},
	}
}

// Resolve returns p joined to root unless p is already absolute.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
