package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timelog/internal/logging"
	"timelog/pkg/config"
	"timelog/pkg/locate"
)

// SearchOptions holds the flags shared by every searching command.
type SearchOptions struct {
	ChunkSize  int64
	ConfigPath string
	Verbose    bool
	Debug      bool
}

// addSearchFlags registers the shared search flags on cmd.
func addSearchFlags(cmd *cobra.Command, opts *SearchOptions) {
	cmd.Flags().Int64VarP(&opts.ChunkSize, "chunksize", "c", 0, "Max bytes scanned around one probe (default from config, 81920)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to a configuration file (default ~/.timelog.yaml if present)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show search progress on stderr")
	cmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Trace binary search probes on stderr")
}

// loadConfig loads the configuration selected by opts.
func loadConfig(opts *SearchOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveRange opens the log file and resolves the requested time range.
func resolveRange(filename, fromSpec, toSpec string, opts *SearchOptions) (locate.Range, *config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return locate.Range{}, nil, err
	}

	chunk := cfg.ChunkSize
	if opts.ChunkSize > 0 {
		chunk = opts.ChunkSize
	}

	f, err := os.Open(filename) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return locate.Range{}, nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return locate.Range{}, nil, fmt.Errorf("stat %s: %w", filename, err)
	}

	rng, err := locate.Resolve(f, info.Size(), fromSpec, toSpec, locate.Options{
		ChunkSize: chunk,
		Logger:    logging.New(os.Stderr, opts.Verbose, opts.Debug),
	})
	if err != nil {
		return locate.Range{}, nil, fmt.Errorf("%s: %w", filename, err)
	}

	return rng, cfg, nil
}
