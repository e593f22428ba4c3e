// Package cli provides the command-line interface for timelog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timelog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timelog",
		Short: "Binary search for a time position in big chronological log files",
		Long: `Timelog locates byte offsets in very large, time-ordered log files without
reading them sequentially.

Given a target time it binary-searches the raw file bytes for the first line
whose timestamp is at or past the target, then either prints the matching
range via a byte-skipping copy (dd), or opens an interactive pager (less)
positioned on the found line.

Accepted time formats:
  YYYY/mm/dd HH:MM:SS.mmm   full
  YYYY/mm/dd HH:MM:SS       date and time
  YYYY/mm/dd HH:MM          date, hour and minute
  YYYY/mm/dd                date only
  HH:MM:SS.mmm, HH:MM:SS, HH:MM
                            time only; the date is taken from the
                            first line of the file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewSeekCommand())
	rootCmd.AddCommand(commands.NewOffsetCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
