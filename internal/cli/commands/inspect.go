package commands

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"timelog/pkg/detector"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	SampleSize int
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <log-file>",
		Short: "Report the timestamp shapes found in a log file",
		Long: `Sample lines from the head of a log file and report which of the accepted
timestamp shapes they carry.

Use this to check whether a file is searchable before pointing seek at it,
and to see how many of its lines carry no timestamp at all.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "s", 100, "Number of lines to sample")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Printf("Sampled %d line(s), %d with a recognized timestamp\n",
		result.SampledLines, result.TimestampedLines)

	if !result.Searchable() {
		return fmt.Errorf("%s: no recognized timestamps in the first %d line(s)", path, opts.SampleSize)
	}

	fmt.Println()
	for _, m := range result.Matches {
		fmt.Printf("  %-26s %4d line(s)  %5.1f%%\n", m.Shape, m.MatchCount, m.Confidence*100)
		fmt.Printf("    e.g. %s\n", truncate(m.SampleLine, 70))
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so a multi-byte character is never split.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
