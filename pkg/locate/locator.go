// Package locate finds byte offsets in chronologically-ordered log files by
// binary search over raw file bytes.
//
// The search never reads the file sequentially. It keeps an explicit
// [low, high) byte window, probes the midpoint with a bounded
// boundary-recovery scan, and compares the recovered timestamp against the
// target; probes that cannot recover a timestamped line narrow the window
// without a comparison. Once the window fits inside one chunk, a linear
// sweep across it pins down the first line whose key is at or past the
// target.
package locate

import (
	"errors"
	"fmt"
	"log/slog"

	"timelog/internal/logging"
	"timelog/pkg/scan"
	"timelog/pkg/timekey"
)

var (
	// ErrNoTimestampedLines is returned by Locate for an empty file. The
	// returned offset is still 0.
	ErrNoTimestampedLines = errors.New("file contains no timestamped lines")

	// ErrScanLimit is returned when a run of lines without timestamps
	// exceeds the chunk bound, so the target position cannot be pinned
	// down. Raising the chunk size works around it; the search never
	// silently mis-locates.
	ErrScanLimit = errors.New("run of untimestamped lines exceeds the chunk size (raise it with --chunksize)")
)

// Locator performs binary searches over one scanner's file. It holds no
// per-search state; independent searches may run concurrently.
type Locator struct {
	scanner *scan.Scanner
	log     *slog.Logger
}

// NewLocator creates a Locator over s. logger may be nil.
func NewLocator(s *scan.Scanner, logger *slog.Logger) *Locator {
	return &Locator{scanner: s, log: logging.Default(logger)}
}

// Locate returns the byte offset of the first line whose timestamp compares
// at or past target. It returns 0 when the target precedes every line and
// the file size when the target exceeds every line. The result is undefined
// if the file's timestamps are not monotonically non-decreasing.
func (l *Locator) Locate(target timekey.Key) (int64, error) {
	size := l.scanner.Size()
	if size == 0 {
		return 0, ErrNoTimestampedLines
	}

	chunk := l.scanner.ChunkSize()
	low, high := int64(0), size

	// Bisect until the window fits inside one chunk. Invariant: the first
	// line whose key is >= target starts inside [low, high], where high ==
	// size means it may not exist at all.
	for high-low > chunk {
		mid := low + (high-low)/2
		low2, high2, err := l.refine(target, low, mid, high)
		if err != nil {
			return 0, err
		}
		l.log.Debug("bisect", "low", low, "mid", mid, "high", high, "low'", low2, "high'", high2)
		low, high = low2, high2
	}

	return l.sweep(target, low, high)
}

// refine shrinks the window using one probe at mid. A forward scan is tried
// first; if it cannot recover a timestamped line inside the window, a
// backward scan from mid is the mirror attempt. When both fail the probed
// region is unresolved and the upper half is discarded outright, which is
// only reachable near window boundaries in a well-formed monotonic log.
func (l *Locator) refine(target timekey.Key, low, mid, high int64) (int64, int64, error) {
	p, err := l.scanner.Forward(mid)
	if err != nil {
		return 0, 0, err
	}
	if p.Status == scan.Found && p.LineStart < high {
		if timekey.Compare(p.Key, target) < 0 {
			return max(low+1, p.LineEnd), high, nil
		}
		return low, p.LineStart, nil
	}

	b, err := l.scanner.Backward(mid)
	if err != nil {
		return 0, 0, err
	}
	if b.Status == scan.Found && b.LineStart > low && b.LineStart < high {
		if timekey.Compare(b.Key, target) < 0 {
			// The line's end may lie outside the scanned window; its
			// start alone still bounds the answer from below.
			adv := b.LineEnd
			if adv <= b.LineStart {
				adv = b.LineStart + 1
			}
			return max(low+1, adv), high, nil
		}
		return low, b.LineStart, nil
	}

	return low, mid, nil
}

// sweep linearly resolves the final window: starting from the line containing
// low, it walks timestamped lines forward and returns the first whose key is
// at or past target.
func (l *Locator) sweep(target timekey.Key, low, high int64) (int64, error) {
	pos, ok, err := l.scanner.LineStart(low)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("recovering line boundary at offset %d: %w", low, ErrScanLimit)
	}

	for {
		p, err := l.scanner.ForwardAt(pos)
		if err != nil {
			return 0, err
		}
		l.log.Debug("sweep", "pos", pos, "status", p.Status.String(), "key", p.Key.String())

		switch p.Status {
		case scan.AtEOF:
			// Every remaining line predates the target.
			return l.scanner.Size(), nil
		case scan.Found:
			if timekey.Compare(p.Key, target) >= 0 {
				return p.LineStart, nil
			}
			if p.LineEnd <= pos {
				return 0, fmt.Errorf("sweep stalled at offset %d", pos)
			}
			pos = p.LineEnd
		default:
			return 0, fmt.Errorf("at offset %d: %w", pos, ErrScanLimit)
		}
	}
}
