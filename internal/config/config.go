// Package config provides configuration management for the voter roll server.
//
// Settings come from three layers, each overriding the last:
//   - the config file (YAML)
//   - VOTERROLL_* environment variables
//   - command-line flags (applied by the caller)
//
// Config file locations (priority order):
//  1. $VOTERROLL_CONFIG
//  2. ./voterroll.yaml
//  3. $XDG_CONFIG_HOME/voterroll/config.yaml
//  4. ~/.config/voterroll/config.yaml
//  5. /etc/voterroll/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr     = ":8080"
	defaultDBPath   = "./voterroll.db"
	defaultPageSize = 100
	defaultMinYear  = 1900
	defaultDebounce = 500 * time.Millisecond
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	cfg, path, err := LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from VOTERROLL_* environment variables
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDBPath
	}
	if c.Ingest.Debounce == 0 {
		c.Ingest.Debounce = Duration(defaultDebounce)
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = defaultPageSize
	}
	if c.UI.MinYear == 0 {
		c.UI.MinYear = defaultMinYear
	}
}

// Validate reports settings that cannot be served
func (c *Config) Validate() error {
	var errs []error
	if c.UI.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize))
	}
	if c.UI.MinYear > c.YearRange().Max {
		errs = append(errs, fmt.Errorf("ui.min_year %d is after ui.max_year %d", c.UI.MinYear, c.YearRange().Max))
	}
	if (c.Ingest.LoadOnStart || c.Ingest.Watch) && c.Ingest.CSVPath == "" {
		errs = append(errs, errors.New("ingest.csv_path is required when load_on_start or watch is set"))
	}
	return errors.Join(errs...)
}

// SkipHeader reports whether the roll file's first line is a header
func (c *Config) SkipHeader() bool {
	return c.Ingest.SkipHeader == nil || *c.Ingest.SkipHeader
}

// YearRange is the inclusive span of birth years offered by the filter form
type YearRange struct {
	Min int
	Max int
}

// Years lists every year in the range, ascending
func (r YearRange) Years() []int {
	if r.Max < r.Min {
		return nil
	}
	years := make([]int, 0, r.Max-r.Min+1)
	for y := r.Min; y <= r.Max; y++ {
		years = append(years, y)
	}
	return years
}

// YearRange returns the configured birth year span, ending at the current
// year unless ui.max_year is set
func (c *Config) YearRange() YearRange {
	maxYear := c.UI.MaxYear
	if maxYear == 0 {
		maxYear = time.Now().Year()
	}
	return YearRange{Min: c.UI.MinYear, Max: maxYear}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Database: %s, Page size: %d\n",
		c.Server.Addr, c.Database.Path, c.UI.PageSize)
	if c.Ingest.CSVPath == "" {
		summary += "Roll file: none"
		return summary
	}
	summary += fmt.Sprintf("Roll file: %s (load on start: %t, watch: %t)",
		c.Ingest.CSVPath, c.Ingest.LoadOnStart, c.Ingest.Watch)
	return summary
}
