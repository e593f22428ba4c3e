package commands

import (
	"os"

	"github.com/spf13/cobra"

	"timelog/pkg/output"
)

// OffsetOptions holds command-line options for the offset command.
type OffsetOptions struct {
	SearchOptions

	TimeTo string
	Output string
}

// NewOffsetCommand creates the offset command.
func NewOffsetCommand() *cobra.Command {
	opts := &OffsetOptions{}

	cmd := &cobra.Command{
		Use:   "offset <log-file> <time-from>",
		Short: "Resolve byte offsets for a time range without running anything",
		Long: `Resolve the byte offset of the first line at or past a time, and
optionally the exclusive end offset of a range, and print them.

Useful for scripting around tools other than dd and less.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffset(args, opts)
		},
	}

	addSearchFlags(cmd, &opts.SearchOptions)
	cmd.Flags().StringVarP(&opts.TimeTo, "time-to", "t", "", "End of the range, exclusive, same formats as <time-from>")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runOffset(args []string, opts *OffsetOptions) error {
	filename := args[0]

	rng, _, err := resolveRange(filename, args[1], opts.TimeTo, &opts.SearchOptions)
	if err != nil {
		return err
	}

	return output.WriteOffsets(os.Stdout, opts.Output, output.NewOffsets(filename, rng))
}
