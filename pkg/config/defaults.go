package config

import (
	"os"
	"path/filepath"

	"timelog/pkg/output"
	"timelog/pkg/scan"
)

// Environment variable names.
const (
	EnvChunkSize = "TIMELOG_CHUNKSIZE"
	EnvPager     = "TIMELOG_PAGER"
)

// defaultConfigFile is looked up in the user's home directory.
const defaultConfigFile = ".timelog.yaml"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:    scan.DefaultChunkSize,
		CopyProgram:  output.DefaultCopyProgram,
		PagerProgram: output.DefaultPagerProgram,
	}
}

// defaultConfigPath returns the path of the user's config file.
func defaultConfigPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, defaultConfigFile), true
}
