// Package output turns resolved byte offsets into descriptors of the
// external commands that consume them.
//
// Planning is a pure function from offsets to a command descriptor; whether
// and how the command runs is decided by the caller.
package output

import (
	"strconv"
	"strings"

	"timelog/pkg/locate"
)

// Default external programs. Both are overridable via configuration.
const (
	DefaultCopyProgram  = "dd"
	DefaultPagerProgram = "less"
)

// Plan describes one external command to run.
type Plan struct {
	// Path is the program to invoke, resolved via PATH.
	Path string

	// Args are the program arguments, excluding the program name.
	Args []string
}

// Planner builds command plans for resolved offsets.
type Planner struct {
	// CopyProgram is the dd-compatible byte-range copier.
	CopyProgram string

	// PagerProgram is the less-compatible interactive pager.
	PagerProgram string
}

// NewPlanner returns a Planner for the given programs; empty strings select
// the defaults.
func NewPlanner(copyProgram, pagerProgram string) Planner {
	if copyProgram == "" {
		copyProgram = DefaultCopyProgram
	}
	if pagerProgram == "" {
		pagerProgram = DefaultPagerProgram
	}
	return Planner{CopyProgram: copyProgram, PagerProgram: pagerProgram}
}

// Copy plans a byte-range copy of filename to standard output: skip the
// bytes before rng.Start and, when the range has an end, stop before the
// line at rng.End. Extra args are appended verbatim.
func (p Planner) Copy(filename string, rng locate.Range, extra ...string) Plan {
	args := []string{"status=none", "if=" + filename}
	if rng.HasEnd {
		args = append(args, "iflag=skip_bytes,count_bytes")
	} else {
		args = append(args, "iflag=skip_bytes")
	}
	args = append(args, "skip="+strconv.FormatInt(rng.Start, 10))
	if rng.HasEnd {
		args = append(args, "count="+strconv.FormatInt(rng.Count(), 10))
	}
	args = append(args, extra...)
	return Plan{Path: p.CopyProgram, Args: args}
}

// Pager plans an interactive pager view of filename positioned at the start
// offset. The -n flag disables line counting, which would otherwise read the
// whole file. Extra args are appended before the filename.
func (p Planner) Pager(filename string, start int64, extra ...string) Plan {
	args := []string{"-n", "+" + strconv.FormatInt(start, 10) + "P"}
	args = append(args, extra...)
	args = append(args, filename)
	return Plan{Path: p.PagerProgram, Args: args}
}

// Command returns the full argv, program name first.
func (p Plan) Command() []string {
	return append([]string{p.Path}, p.Args...)
}

// String renders the plan as a shell-quoted command line suitable for
// copy-pasting.
func (p Plan) String() string {
	parts := make([]string, 0, len(p.Args)+1)
	for _, a := range p.Command() {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes s when it contains characters the shell would
// interpret.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'`$\\&|;<>()*?[]#~!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
