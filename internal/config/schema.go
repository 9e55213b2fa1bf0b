package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Ingest   IngestConfig   `yaml:"ingest"`
	UI       UIConfig       `yaml:"ui"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr string `yaml:"addr" env:"VOTERROLL_ADDR"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" env:"VOTERROLL_DB_PATH"`
}

// IngestConfig describes where the roll file lives and when it is loaded
type IngestConfig struct {
	CSVPath     string   `yaml:"csv_path" env:"VOTERROLL_CSV_PATH"`
	LoadOnStart bool     `yaml:"load_on_start" env:"VOTERROLL_LOAD_ON_START"`
	Watch       bool     `yaml:"watch" env:"VOTERROLL_WATCH"`
	SkipHeader  *bool    `yaml:"skip_header,omitempty"` // nil = true
	Debounce    Duration `yaml:"debounce" env:"VOTERROLL_WATCH_DEBOUNCE"`
}

// UIConfig holds page rendering settings
type UIConfig struct {
	PageSize int `yaml:"page_size" env:"VOTERROLL_PAGE_SIZE"`
	MinYear  int `yaml:"min_year"`
	MaxYear  int `yaml:"max_year"` // 0 = current year
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText lets environment overrides use duration strings
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
