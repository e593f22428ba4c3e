package locate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"timelog/internal/logging"
	"timelog/pkg/scan"
	"timelog/pkg/timekey"
)

// ErrUnparsableFile is returned when no line within the first chunk of the
// file yields a parseable timestamp. Without one there is no anchor date and
// no comparison point, so the search cannot proceed.
var ErrUnparsableFile = errors.New("no parseable timestamp found at the start of the file")

// Range is a resolved byte range in a log file. End is exclusive: the line
// starting at End must not be included in the extracted range.
type Range struct {
	Start  int64
	End    int64
	HasEnd bool
}

// Count returns the number of bytes in the range. Valid only when HasEnd.
func (r Range) Count() int64 {
	return r.End - r.Start
}

// Options configures Resolve.
type Options struct {
	// ChunkSize bounds every boundary-recovery scan. Zero means
	// scan.DefaultChunkSize.
	ChunkSize int64

	// Logger receives verbose and per-probe debug output. Nil discards.
	Logger *slog.Logger
}

// Resolve locates the byte range for fromSpec and the optional toSpec in a
// chronologically-ordered log. The date for time-only specs is anchored from
// the first timestamped line of the file, established once before either
// search. toSpec, when given, must not precede fromSpec; the offset located
// for it is exclusive.
func Resolve(r io.ReaderAt, size int64, fromSpec, toSpec string, opts Options) (Range, error) {
	log := logging.Default(opts.Logger)
	scanner := scan.New(r, size, opts.ChunkSize)
	locator := NewLocator(scanner, log)

	anchor, err := anchorKey(scanner)
	if err != nil {
		return Range{}, err
	}
	log.Debug("anchor established", "key", anchor.String())

	fromKey, err := timekey.ParseTarget(fromSpec, anchor)
	if err != nil {
		return Range{}, fmt.Errorf("start time: %w", err)
	}
	log.Info("searching", "from", fromKey.String())

	start, err := locator.Locate(fromKey)
	if err != nil {
		return Range{}, err
	}

	if toSpec == "" {
		return Range{Start: start}, nil
	}

	toKey, err := timekey.ParseTarget(toSpec, anchor)
	if err != nil {
		return Range{}, fmt.Errorf("end time: %w", err)
	}
	if timekey.Compare(toKey, fromKey) < 0 {
		return Range{}, fmt.Errorf("end time %s precedes start time %s", toKey, fromKey)
	}
	log.Info("searching", "to", toKey.String())

	end, err := locator.Locate(toKey)
	if err != nil {
		return Range{}, err
	}

	return Range{Start: start, End: end, HasEnd: true}, nil
}

// anchorKey scans the head of the file for its first timestamped line, whose
// date completes time-only target specs.
func anchorKey(scanner *scan.Scanner) (timekey.Key, error) {
	p, err := scanner.Forward(0)
	if err != nil {
		return timekey.Key{}, err
	}
	if p.Status != scan.Found {
		return timekey.Key{}, fmt.Errorf("first %d bytes: %w", scanner.ChunkSize(), ErrUnparsableFile)
	}
	return p.Key, nil
}
