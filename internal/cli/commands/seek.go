package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"timelog/pkg/output"
)

// ExitCode is set by commands to indicate the result.
var ExitCode = 0

// SeekOptions holds command-line options for the seek command.
type SeekOptions struct {
	SearchOptions

	TimeTo    string
	Less      bool
	NoExec    bool
	ExtraArgs []string
}

// NewSeekCommand creates the seek command.
func NewSeekCommand() *cobra.Command {
	opts := &SeekOptions{}

	cmd := &cobra.Command{
		Use:   "seek <log-file> <time-from>",
		Short: "Locate a time in a log file and print or view the matching range",
		Long: `Locate the first line at or past a time in a chronologically-ordered log
file, then run an external command on the result.

By default the located range is copied to standard output with a
byte-skipping dd invocation. With --less the file is instead opened in a
pager positioned on the found line. With --time-to the copy stops before the
first line at or past the end time (exclusive).

Exit codes:
  0 - Offsets resolved and the external command succeeded
  1 - Bad time string, unsearchable file, or I/O failure
  other - Exit code of the external command`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeek(args, opts)
		},
	}

	addSearchFlags(cmd, &opts.SearchOptions)
	cmd.Flags().StringVarP(&opts.TimeTo, "time-to", "t", "", "End of the range, exclusive, same formats as <time-from> (conflicts with --less)")
	cmd.Flags().BoolVarP(&opts.Less, "less", "l", false, "View the file in a pager instead of copying the range")
	cmd.Flags().BoolVarP(&opts.NoExec, "noexec", "n", false, "Print the resulting command instead of executing it")
	cmd.Flags().StringArrayVarP(&opts.ExtraArgs, "arg", "a", nil, "Extra argument for the resulting command (can be repeated)")

	return cmd
}

func runSeek(args []string, opts *SeekOptions) error {
	if opts.Less && opts.TimeTo != "" {
		return errors.New("--time-to and --less conflict: a pager shows an open-ended view")
	}

	filename := args[0]
	toSpec := opts.TimeTo
	if opts.Less {
		toSpec = ""
	}

	rng, cfg, err := resolveRange(filename, args[1], toSpec, &opts.SearchOptions)
	if err != nil {
		return err
	}

	planner := output.NewPlanner(cfg.CopyProgram, cfg.PagerProgram)
	extra := append(append([]string{}, cfg.ExtraArgs...), opts.ExtraArgs...)

	var plan output.Plan
	if opts.Less {
		plan = planner.Pager(filename, rng.Start, extra...)
	} else {
		plan = planner.Copy(filename, rng, extra...)
	}

	if opts.NoExec {
		fmt.Println(plan.String())
		return nil
	}

	ExitCode = runPlan(plan)
	return nil
}
