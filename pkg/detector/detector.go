// Package detector reports which timestamp shapes appear in a log file.
//
// It samples lines from the head of the file and classifies each against the
// accepted timestamp grammar. The report tells a user whether a file is
// searchable at all, which shape dominates, and how many sampled lines carry
// no timestamp.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"timelog/pkg/timekey"
)

// ShapeMatch is one timestamp shape seen in the sample.
type ShapeMatch struct {
	// Shape is the grammar name, e.g. "YYYY/mm/dd HH:MM:SS.mmm".
	Shape string

	// MatchCount is the number of sampled lines with this shape.
	MatchCount int

	// Confidence is the fraction of non-blank sampled lines matched,
	// 0.0 to 1.0.
	Confidence float64

	// SampleLine is one line that matched.
	SampleLine string
}

// Result holds the outcome of analyzing a log file.
type Result struct {
	Matches          []ShapeMatch // sorted by match count descending
	SampledLines     int          // non-blank lines examined
	TimestampedLines int          // lines with a recognized timestamp
}

// Searchable reports whether the file looks usable for time-offset search:
// at least one sampled line must carry a timestamp.
func (r *Result) Searchable() bool {
	return r.TimestampedLines > 0
}

// Detector samples log files and classifies their timestamp shapes.
type Detector struct {
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{sampleSize: 100}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the head of a log file and classifies its lines.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*Result, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines classifies a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *Result {
	result := &Result{}

	type stats struct {
		count  int
		sample string
	}
	byShape := make(map[string]*stats)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++

		shape, ok := timekey.ShapeOf([]byte(line))
		if !ok {
			continue
		}
		result.TimestampedLines++

		s := byShape[shape]
		if s == nil {
			s = &stats{sample: line}
			byShape[shape] = s
		}
		s.count++
	}

	for shape, s := range byShape {
		match := ShapeMatch{
			Shape:      shape,
			MatchCount: s.count,
			SampleLine: s.sample,
		}
		if result.SampledLines > 0 {
			match.Confidence = float64(s.count) / float64(result.SampledLines)
		}
		result.Matches = append(result.Matches, match)
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].MatchCount != result.Matches[j].MatchCount {
			return result.Matches[i].MatchCount > result.Matches[j].MatchCount
		}
		return result.Matches[i].Shape < result.Matches[j].Shape
	})

	return result
}

// sampleFile reads the first sampleSize lines of a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for len(lines) < d.sampleSize && scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}
