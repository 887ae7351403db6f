// Package config handles loading and saving hcut configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/hcut/config.yaml
//   - State:   ~/.local/state/hcut/ (run history database)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PartitionConfig holds default knobs for the engine.
type PartitionConfig struct {
	Ratio float64 `yaml:"ratio,omitempty"` // balance target r in (0,1); 0 means 0.5
}

// ExportConfig holds output preferences.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // json, dot, mermaid, markdown, svg, png
	Out    string `yaml:"out,omitempty"`    // default output path ("" = stdout)
}

// StoreConfig controls the run-history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"` // "" = <state dir>/runs.db
}

// Config is the top-level configuration for hcut.
type Config struct {
	Partition PartitionConfig `yaml:"partition,omitempty"`
	Export    ExportConfig    `yaml:"export,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Partition: PartitionConfig{Ratio: 0.5},
		Export:    ExportConfig{Format: "json"},
	}
}

// ConfigDir returns the XDG config directory for hcut.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hcut")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hcut")
}

// StateDir returns the XDG state directory for hcut.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "hcut")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "hcut")
}

// ConfigPath returns the full path of the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file, returning defaults when it is absent.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if r := c.Partition.Ratio; r != 0 && (r <= 0 || r >= 1) {
		return fmt.Errorf("config: partition.ratio %v outside (0,1)", r)
	}
	switch c.Export.Format {
	case "", "json", "dot", "mermaid", "markdown", "svg", "png":
	default:
		return fmt.Errorf("config: unknown export.format %q", c.Export.Format)
	}
	return nil
}

// Ratio returns the configured balance ratio, defaulting to 0.5.
func (c Config) Ratio() float64 {
	if c.Partition.Ratio == 0 {
		return 0.5
	}
	return c.Partition.Ratio
}

// StorePath returns the run-history database path, applying the state-dir
// default.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "runs.db")
}

// Save writes the config file, creating the directory as needed.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes a config file to an explicit path.
func SaveTo(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("config: no config path available")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
