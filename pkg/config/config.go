// Package config provides configuration loading for timelog.
//
// Configuration is optional: every setting has a working default, a YAML
// file can override the defaults, and a few environment variables override
// the file. Command-line flags, applied by the CLI layer, win over all of
// these.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all timelog settings.
type Config struct {
	// ChunkSize is the maximum number of bytes scanned around one probe
	// when recovering a line boundary.
	ChunkSize int64 `yaml:"chunk_size"`

	// CopyProgram is the dd-compatible program used to copy the located
	// byte range to standard output.
	CopyProgram string `yaml:"copy_program"`

	// PagerProgram is the less-compatible pager used for interactive
	// viewing positioned at the located offset.
	PagerProgram string `yaml:"pager_program"`

	// ExtraArgs are appended to every synthesized command line.
	ExtraArgs []string `yaml:"extra_args"`
}

// Load reads a configuration file and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads the user's config file if one exists, otherwise returns
// defaults with environment overrides applied.
func LoadDefault() (*Config, error) {
	if path, ok := defaultConfigPath(); ok {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if cfg.ChunkSize <= 0 {
		return errors.New("chunk_size: must be positive")
	}
	if cfg.CopyProgram == "" {
		return errors.New("copy_program: must not be empty")
	}
	if cfg.PagerProgram == "" {
		return errors.New("pager_program: must not be empty")
	}
	return nil
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() error {
	if v := os.Getenv(EnvChunkSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvChunkSize, err)
		}
		c.ChunkSize = n
	}
	if v := os.Getenv(EnvPager); v != "" {
		c.PagerProgram = v
	}
	return nil
}
