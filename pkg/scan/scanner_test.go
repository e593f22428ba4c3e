package scan

import (
	"bytes"
	"strings"
	"testing"

	"timelog/pkg/timekey"
)

// newScanner builds a Scanner over an in-memory log.
func newScanner(content string, chunk int64) *Scanner {
	return New(bytes.NewReader([]byte(content)), int64(len(content)), chunk)
}

// mustKey parses a target literal for comparisons in expectations.
func mustKey(t *testing.T, s string) timekey.Key {
	t.Helper()
	anchor, _ := timekey.ParseLineTimestamp([]byte("2024/01/02 00:00:00 x"))
	k, err := timekey.ParseTarget(s, anchor)
	if err != nil {
		t.Fatalf("ParseTarget(%q): %v", s, err)
	}
	return k
}

const simpleLog = "10:00:00 A\n10:00:05 B\n10:00:05 C\n10:00:10 D\n"

func TestForward(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		offset     int64
		chunk      int64
		wantStatus Status
		wantStart  int64
		wantEnd    int64
	}{
		{
			name:       "offset zero is a line start",
			content:    simpleLog,
			offset:     0,
			wantStatus: Found,
			wantStart:  0,
			wantEnd:    11,
		},
		{
			name:       "mid-line offset recovers next line",
			content:    simpleLog,
			offset:     3, // inside "10:00:00 A"
			wantStatus: Found,
			wantStart:  11, // "10:00:05 B"
			wantEnd:    22,
		},
		{
			name:       "offset on a line boundary recovers the following line",
			content:    simpleLog,
			offset:     11, // first byte of "10:00:05 B"
			wantStatus: Found,
			wantStart:  22, // the boundary is re-derived from the terminator
			wantEnd:    33,
		},
		{
			name:       "untimed lines are skipped",
			content:    "10:00:00 A\n  continuation\n\n10:00:05 B\n",
			offset:     2,
			wantStatus: Found,
			wantStart:  27,
			wantEnd:    38,
		},
		{
			name:       "offset past end of file",
			content:    simpleLog,
			offset:     int64(len(simpleLog)),
			wantStatus: AtEOF,
		},
		{
			name:       "only untimed lines to the end",
			content:    "10:00:00 A\njunk\nmore junk\n",
			offset:     1,
			wantStatus: AtEOF,
		},
		{
			name:       "chunk bound exhausted",
			content:    "10:00:00 A\n" + strings.Repeat("x", 100) + "\n10:00:05 B\n",
			offset:     1,
			chunk:      32,
			wantStatus: Exhausted,
		},
		{
			name:       "final line without terminator",
			content:    "junk\n10:00:05 B",
			offset:     1,
			wantStatus: Found,
			wantStart:  5,
			wantEnd:    15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScanner(tt.content, tt.chunk)
			p, err := s.Forward(tt.offset)
			if err != nil {
				t.Fatalf("Forward(%d) error = %v", tt.offset, err)
			}
			if p.Status != tt.wantStatus {
				t.Fatalf("Forward(%d) status = %v, want %v", tt.offset, p.Status, tt.wantStatus)
			}
			if p.Status != Found {
				return
			}
			if p.LineStart != tt.wantStart || p.LineEnd != tt.wantEnd {
				t.Errorf("Forward(%d) line = [%d, %d), want [%d, %d)",
					tt.offset, p.LineStart, p.LineEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestForwardAt(t *testing.T) {
	s := newScanner(simpleLog, 0)

	p, err := s.ForwardAt(11)
	if err != nil {
		t.Fatalf("ForwardAt(11) error = %v", err)
	}
	if p.Status != Found || p.LineStart != 11 {
		t.Fatalf("ForwardAt(11) = %+v, want the line starting at 11", p)
	}
	if timekey.Compare(p.Key, mustKey(t, "10:00:05")) != 0 {
		t.Errorf("ForwardAt(11) key = %v, want 10:00:05", p.Key)
	}
}

func TestBackward(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		offset     int64
		chunk      int64
		wantStatus Status
		wantStart  int64
	}{
		{
			name:       "line boundary finds preceding line",
			content:    simpleLog,
			offset:     22, // start of "10:00:05 C"
			wantStatus: Found,
			wantStart:  11, // "10:00:05 B"
		},
		{
			name:       "mid-line offset finds the containing line",
			content:    simpleLog,
			offset:     31, // inside "10:00:05 C", past its timestamp
			wantStatus: Found,
			wantStart:  22,
		},
		{
			name:       "offset inside a timestamp falls back to the preceding line",
			content:    simpleLog,
			offset:     25, // cuts the timestamp of "10:00:05 C"
			wantStatus: Found,
			wantStart:  11,
		},
		{
			name:       "cut that parses as a shorter shape is not trusted",
			content:    simpleLog,
			offset:     27, // truncates "10:00:05 C" to "10:00", a valid HH:MM
			wantStatus: Found,
			wantStart:  11, // the shorter shape would misreport the line's key
		},
		{
			name:       "file end finds last line",
			content:    simpleLog,
			offset:     int64(len(simpleLog)),
			wantStatus: Found,
			wantStart:  33,
		},
		{
			name:       "untimed lines are skipped backward",
			content:    "10:00:00 A\njunk\nmore\n10:00:05 B\n",
			offset:     20, // inside "more"
			wantStatus: Found,
			wantStart:  0,
		},
		{
			name:       "offset zero",
			content:    simpleLog,
			offset:     0,
			wantStatus: AtStart,
		},
		{
			name:       "only untimed lines back to file start",
			content:    "junk\nmore junk\n10:00:00 A\n",
			offset:     10,
			wantStatus: AtStart,
		},
		{
			name:       "chunk bound exhausted",
			content:    "10:00:00 A\n" + strings.Repeat("x", 100) + "\n10:00:05 B\n",
			offset:     90,
			chunk:      32,
			wantStatus: Exhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScanner(tt.content, tt.chunk)
			p, err := s.Backward(tt.offset)
			if err != nil {
				t.Fatalf("Backward(%d) error = %v", tt.offset, err)
			}
			if p.Status != tt.wantStatus {
				t.Fatalf("Backward(%d) status = %v, want %v", tt.offset, p.Status, tt.wantStatus)
			}
			if p.Status == Found && p.LineStart != tt.wantStart {
				t.Errorf("Backward(%d) start = %d, want %d", tt.offset, p.LineStart, tt.wantStart)
			}
		})
	}
}

func TestBackwardUnknownLineEnd(t *testing.T) {
	// The candidate line's terminator lies beyond the scanned window.
	content := "10:00:00 A\n10:00:05 " + strings.Repeat("B", 50) + "\n"
	s := newScanner(content, 0)

	p, err := s.Backward(25) // inside the long line
	if err != nil {
		t.Fatalf("Backward(25) error = %v", err)
	}
	if p.Status != Found || p.LineStart != 11 {
		t.Fatalf("Backward(25) = %+v, want the long line at 11", p)
	}
	if p.LineEnd >= 0 {
		t.Errorf("Backward(25) LineEnd = %d, want unknown (negative)", p.LineEnd)
	}
}

func TestLineStart(t *testing.T) {
	s := newScanner(simpleLog, 0)

	tests := []struct {
		offset int64
		want   int64
	}{
		{0, 0},
		{5, 0},   // inside "10:00:00 A"
		{11, 11}, // already a line start
		{15, 11},
		{int64(len(simpleLog)), 44}, // EOF right after a terminator is itself a boundary
	}

	for _, tt := range tests {
		got, ok, err := s.LineStart(tt.offset)
		if err != nil || !ok {
			t.Fatalf("LineStart(%d) = %v, %v", tt.offset, ok, err)
		}
		if got != tt.want {
			t.Errorf("LineStart(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}

	t.Run("bound exceeded", func(t *testing.T) {
		long := strings.Repeat("x", 200)
		s := newScanner(long, 32)
		if _, ok, err := s.LineStart(150); err != nil || ok {
			t.Errorf("LineStart(150) ok = %v, err = %v; want boundary not found", ok, err)
		}
	})
}

func TestChunkDefault(t *testing.T) {
	s := newScanner(simpleLog, 0)
	if s.ChunkSize() != DefaultChunkSize {
		t.Errorf("ChunkSize() = %d, want %d", s.ChunkSize(), DefaultChunkSize)
	}
	if s.Size() != int64(len(simpleLog)) {
		t.Errorf("Size() = %d, want %d", s.Size(), len(simpleLog))
	}
}
