package locate

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timelog/pkg/scan"
	"timelog/pkg/timekey"
)

// newLocator builds a Locator over an in-memory log.
func newLocator(content string, chunk int64) *Locator {
	s := scan.New(bytes.NewReader([]byte(content)), int64(len(content)), chunk)
	return NewLocator(s, nil)
}

// target parses a time literal, anchoring time-only values to 2024/01/02.
func target(t *testing.T, spec string) timekey.Key {
	t.Helper()
	anchor, ok := timekey.ParseLineTimestamp([]byte("2024/01/02 00:00:00 x"))
	require.True(t, ok)
	k, err := timekey.ParseTarget(spec, anchor)
	require.NoError(t, err)
	return k
}

// linearLocate is the ground truth: scan every line in order and return the
// offset of the first whose key is at or past target, or the file size.
func linearLocate(content string, tgt timekey.Key) int64 {
	offset := int64(0)
	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimSuffix(line, "\n")
		if key, ok := timekey.ParseLineTimestamp([]byte(trimmed)); ok {
			if timekey.Compare(key, tgt) >= 0 {
				return offset
			}
		}
		offset += int64(len(line))
	}
	return int64(len(content))
}

// syntheticLog builds a monotonic dated log: one line every few seconds with
// duplicates, plus short untimed runs sprinkled in.
func syntheticLog(lines int) string {
	var sb strings.Builder
	sec := 0
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&sb, "2024/01/02 %02d:%02d:%02d event=%d payload=%s\n",
			10+sec/3600, (sec/60)%60, sec%60, i, strings.Repeat("p", i%17))
		switch i % 7 {
		case 2:
			sb.WriteString("    continuation with no timestamp\n")
		case 5:
			// duplicate timestamp on the next line
		default:
			sec += 1 + i%5
		}
	}
	return sb.String()
}

func TestLocateMatchesLinearScan(t *testing.T) {
	content := syntheticLog(400)
	size := int64(len(content))

	for _, chunk := range []int64{128, 256, 4096, scan.DefaultChunkSize} {
		t.Run(fmt.Sprintf("chunk=%d", chunk), func(t *testing.T) {
			l := newLocator(content, chunk)
			for sec := 0; sec < 1200; sec += 7 {
				spec := fmt.Sprintf("%02d:%02d:%02d", 10+sec/3600, (sec/60)%60, sec%60)
				tgt := target(t, spec)

				got, err := l.Locate(tgt)
				require.NoError(t, err, "target %s", spec)
				assert.Equal(t, linearLocate(content, tgt), got, "target %s", spec)
				assert.GreaterOrEqual(t, got, int64(0))
				assert.LessOrEqual(t, got, size)
			}
		})
	}
}

func TestLocateExtremes(t *testing.T) {
	content := syntheticLog(100)
	l := newLocator(content, 256)

	before, err := l.Locate(target(t, "2024/01/01 00:00:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), before, "target before every line")

	after, err := l.Locate(target(t, "2024/01/03 00:00:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), after, "target after every line")
}

func TestLocateFirstOfEqualRun(t *testing.T) {
	// Lines B and C share a timestamp; the search must land on B.
	content := "10:00:00 A\n10:00:05 B\n10:00:05 C\n10:00:10 D\n"
	l := newLocator(content, 16)

	got, err := l.Locate(target(t, "10:00:05"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), got)
}

func TestLocateIdempotent(t *testing.T) {
	content := syntheticLog(200)
	l := newLocator(content, 128)
	tgt := target(t, "10:05:00")

	first, err := l.Locate(tgt)
	require.NoError(t, err)
	second, err := l.Locate(tgt)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLocateEmptyFile(t *testing.T) {
	l := newLocator("", 0)

	got, err := l.Locate(target(t, "10:00:00"))
	assert.ErrorIs(t, err, ErrNoTimestampedLines)
	assert.Equal(t, int64(0), got)
}

func TestLocateUntimedRunWithinChunk(t *testing.T) {
	// Untimed runs below the chunk bound never disturb the result.
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "2024/01/02 10:%02d:00 event=%d\n", i, i)
		if i%4 == 0 {
			sb.WriteString("trace line one\ntrace line two\ntrace line three\n")
		}
	}
	content := sb.String()
	l := newLocator(content, 256)

	for i := 0; i < 50; i += 3 {
		spec := fmt.Sprintf("10:%02d:00", i)
		tgt := target(t, spec)
		got, err := l.Locate(tgt)
		require.NoError(t, err, "target %s", spec)
		assert.Equal(t, linearLocate(content, tgt), got, "target %s", spec)
	}
}

func TestLocateUntimedRunBeyondChunk(t *testing.T) {
	// A run of untimed lines longer than the chunk bound must either still
	// resolve exactly or fail loudly with ErrScanLimit; it never silently
	// mis-locates.
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "2024/01/02 10:00:%02d event=%d\n", i, i)
	}
	for i := 0; i < 40; i++ {
		sb.WriteString("noise without any timestamp at all\n")
	}
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "2024/01/02 10:30:%02d event=%d\n", i, i)
	}
	content := sb.String()
	require.Greater(t, int64(40*35), int64(128), "run must exceed the chunk")

	l := newLocator(content, 128)
	for _, spec := range []string{"10:00:05", "10:15:00", "10:30:00", "10:30:05"} {
		tgt := target(t, spec)
		got, err := l.Locate(tgt)
		if err != nil {
			assert.ErrorIs(t, err, ErrScanLimit, "target %s", spec)
			continue
		}
		assert.Equal(t, linearLocate(content, tgt), got, "target %s", spec)
	}
}

func TestLocateUnterminatedFinalLine(t *testing.T) {
	content := "10:00:00 A\n10:00:10 B" // no trailing newline
	l := newLocator(content, 0)

	got, err := l.Locate(target(t, "10:00:10"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), got)

	past, err := l.Locate(target(t, "10:00:11"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), past)
}
