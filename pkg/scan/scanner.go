// Package scan recovers line boundaries and timestamps around arbitrary byte
// offsets in a log file.
//
// A probe may land anywhere, including the middle of a line or between
// timestamp fields, so every scan first re-synchronizes on a line terminator
// and then walks whole lines until one yields a parseable timestamp. Each
// scan reads at most one chunk of bytes; running out of chunk, or hitting
// either end of the file, is reported as a probe status, never as an error.
package scan

import (
	"bytes"
	"fmt"
	"io"

	"timelog/pkg/timekey"
)

// DefaultChunkSize is the maximum number of bytes a single scan will read
// before giving up on finding a timestamped line.
const DefaultChunkSize int64 = 20 * 4096

// Status classifies the outcome of a probe.
type Status int

const (
	// Found means a complete line with a parseable timestamp was recovered.
	Found Status = iota

	// Exhausted means the chunk bound was hit before any timestamped line
	// was found. The region is unresolved; callers narrow their search
	// window without a comparison.
	Exhausted

	// AtEOF means the end of the file was reached before a timestamped
	// line was found.
	AtEOF

	// AtStart means the beginning of the file was reached before a
	// timestamped line was found.
	AtStart
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	case AtEOF:
		return "eof"
	case AtStart:
		return "start"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Probe is the outcome of one boundary-recovery scan: either a recovered
// (line, timestamp) pair or a recoverable failure status.
type Probe struct {
	Status Status

	// LineStart is the offset of the first byte of the matched line.
	// Valid only when Status is Found.
	LineStart int64

	// LineEnd is the offset one past the matched line's terminator, i.e.
	// the start of the following line. A negative value means the
	// terminator lies outside the scanned window and the end is unknown.
	LineEnd int64

	// Key is the timestamp parsed from the matched line.
	Key timekey.Key
}

// Scanner performs bounded forward and backward scans over a random-access
// file. The file is never read sequentially; every scan is a positioned read
// of at most one chunk. A Scanner holds no mutable state and is safe for
// concurrent use.
type Scanner struct {
	r     io.ReaderAt
	size  int64
	chunk int64
}

// New creates a Scanner over r, which must support positioned reads without a
// shared cursor. A non-positive chunk falls back to DefaultChunkSize.
func New(r io.ReaderAt, size int64, chunk int64) *Scanner {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Scanner{r: r, size: size, chunk: chunk}
}

// Size returns the file size the scanner was created with.
func (s *Scanner) Size() int64 {
	return s.size
}

// ChunkSize returns the configured per-scan byte bound.
func (s *Scanner) ChunkSize() int64 {
	return s.chunk
}

// Forward scans from offset toward the end of the file. The offset may sit
// inside a line: the scan first advances to the next line-start boundary
// (offset 0 is already a boundary), then tries successive lines until one
// yields a timestamp or the chunk bound or end of file is reached.
func (s *Scanner) Forward(offset int64) (Probe, error) {
	if offset >= s.size {
		return Probe{Status: AtEOF}, nil
	}

	buf, base, err := s.window(offset)
	if err != nil {
		return Probe{}, err
	}

	pos := 0
	if offset > 0 {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			if base+int64(len(buf)) >= s.size {
				return Probe{Status: AtEOF}, nil
			}
			return Probe{Status: Exhausted}, nil
		}
		pos = i + 1
	}

	return s.scanLines(buf, base, pos), nil
}

// ForwardAt is Forward without boundary recovery: start must already be a
// line-start offset. Used for linear sweeps over a known line sequence.
func (s *Scanner) ForwardAt(start int64) (Probe, error) {
	if start >= s.size {
		return Probe{Status: AtEOF}, nil
	}

	buf, base, err := s.window(start)
	if err != nil {
		return Probe{}, err
	}

	return s.scanLines(buf, base, 0), nil
}

// scanLines walks whole lines in buf starting at pos, returning the first
// that carries a timestamp. base is the file offset of buf[0].
func (s *Scanner) scanLines(buf []byte, base int64, pos int) Probe {
	atEOF := base+int64(len(buf)) >= s.size

	for pos < len(buf) {
		rest := buf[pos:]
		j := bytes.IndexByte(rest, '\n')

		var line []byte
		var next int
		switch {
		case j >= 0:
			line = rest[:j]
			next = pos + j + 1
		case atEOF:
			// Final line without a terminator.
			line = rest
			next = len(buf)
		default:
			// Line extends past the chunk bound.
			return Probe{Status: Exhausted}
		}

		if key, ok := timekey.ParseLineTimestamp(line); ok {
			return Probe{
				Status:    Found,
				LineStart: base + int64(pos),
				LineEnd:   base + int64(next),
				Key:       key,
			}
		}
		pos = next
	}

	if atEOF {
		return Probe{Status: AtEOF}
	}
	return Probe{Status: Exhausted}
}

// Backward scans from offset toward the beginning of the file, returning the
// nearest line at or before offset that carries a timestamp. Lines are
// visited in reverse order; the scan reads a single chunk-bounded window
// ending at offset rather than loading the whole preceding region.
func (s *Scanner) Backward(offset int64) (Probe, error) {
	if offset <= 0 {
		return Probe{Status: AtStart}, nil
	}
	if offset > s.size {
		offset = s.size
	}

	lo := offset - s.chunk
	if lo < 0 {
		lo = 0
	}
	buf, err := s.read(lo, offset-lo)
	if err != nil {
		return Probe{}, err
	}

	// e bounds the region in which we look for the terminator preceding the
	// current candidate line; it moves left one line per iteration.
	e := len(buf)
	for {
		t := bytes.LastIndexByte(buf[:e], '\n')
		ls := t + 1 // candidate line start; 0 when no terminator remains

		if t < 0 && lo > 0 {
			// The window does not contain the candidate's start.
			return Probe{Status: Exhausted}, nil
		}

		lineEnd := int64(-1)
		line := buf[ls:]
		if j := bytes.IndexByte(line, '\n'); j >= 0 {
			line = line[:j]
			lineEnd = lo + int64(ls+j+1)
		} else if lo+int64(len(buf)) >= s.size {
			lineEnd = s.size
		}

		key, n, ok := timekey.ParseLinePrefix(line)
		if ok && lineEnd < 0 && n == len(line) {
			// The line is cut at the window edge and the timestamp runs
			// right up to the cut: what parsed as a short shape may be the
			// head of a longer one, e.g. "10:00" cut from "10:00:05".
			ok = false
		}
		if ok {
			return Probe{
				Status:    Found,
				LineStart: lo + int64(ls),
				LineEnd:   lineEnd,
				Key:       key,
			}, nil
		}

		if t < 0 {
			return Probe{Status: AtStart}, nil
		}
		e = t
	}
}

// LineStart returns the start offset of the line containing offset. The
// second return value is false when the preceding terminator lies more than
// one chunk back.
func (s *Scanner) LineStart(offset int64) (int64, bool, error) {
	if offset <= 0 {
		return 0, true, nil
	}
	if offset > s.size {
		offset = s.size
	}

	lo := offset - s.chunk
	if lo < 0 {
		lo = 0
	}
	buf, err := s.read(lo, offset-lo)
	if err != nil {
		return 0, false, err
	}

	if t := bytes.LastIndexByte(buf, '\n'); t >= 0 {
		return lo + int64(t) + 1, true, nil
	}
	if lo == 0 {
		return 0, true, nil
	}
	return 0, false, nil
}

// window reads up to one chunk starting at offset, clamped to the file end.
func (s *Scanner) window(offset int64) ([]byte, int64, error) {
	n := s.chunk
	if offset+n > s.size {
		n = s.size - offset
	}
	buf, err := s.read(offset, n)
	return buf, offset, err
}

func (s *Scanner) read(offset, n int64) ([]byte, error) {
	buf := make([]byte, n)
	got, err := s.r.ReadAt(buf, offset)
	if int64(got) == n {
		// A full read at the end of the file may still report io.EOF.
		return buf, nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("reading %d bytes at offset %d: %w", n, offset, err)
}
