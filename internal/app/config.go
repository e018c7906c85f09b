package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/corey/acmatch/internal/domain/automaton"
	"gopkg.in/yaml.v3"
)

// Config holds the effective settings. File values are loaded from YAML;
// command line flags are applied on top by the caller.
type Config struct {
	WorkDir     string       `yaml:"-"`
	DB          string       `yaml:"db,omitempty"`
	MaxPatterns int          `yaml:"max_patterns,omitempty"`
	MaxChildren int          `yaml:"max_children,omitempty"`
	Workers     int          `yaml:"workers,omitempty"`
	Color       string       `yaml:"color,omitempty"` // auto, always, never
	Logger      *slog.Logger `yaml:"-"`
}

// LoadConfig reads a YAML config file. A missing file is not an error unless
// required is set; the zero Config is returned instead.
func LoadConfig(path string, required bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges. Zero values are allowed and mean "use the default".
func (c Config) Validate() error {
	if c.MaxPatterns < 0 {
		return fmt.Errorf("max_patterns must not be negative, got %d", c.MaxPatterns)
	}
	if c.MaxChildren < 0 || c.MaxChildren > 256 {
		return fmt.Errorf("max_children must be between 0 and 256, got %d", c.MaxChildren)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	return nil
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.WorkDir = wd
		}
	}
	if c.DB == "" {
		c.DB = NewPaths(c.WorkDir).DB
	}
	if c.MaxPatterns == 0 {
		c.MaxPatterns = automaton.DefaultMaxPatterns
	}
	if c.MaxChildren == 0 {
		c.MaxChildren = automaton.DefaultMaxChildren
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Limits returns the automaton limits from the config.
func (c Config) Limits() automaton.Limits {
	return automaton.Limits{MaxPatterns: c.MaxPatterns, MaxChildren: c.MaxChildren}
}

// YAML renders the config in config file form.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
