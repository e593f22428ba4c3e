package timekey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Errors returned by ParseTarget. Both indicate bad user input and are
// non-retryable.
var (
	ErrMalformedTime = errors.New("malformed time")
	ErrMissingAnchor = errors.New("no anchor date available for time-only value")
)

// shape is one accepted timestamp literal form. The same grammar family is
// used for search targets (matched against the whole string) and for log line
// prefixes (matched against the leading bytes).
type shape struct {
	name   string
	fields []Field
	target *regexp.Regexp
	prefix *regexp.Regexp
}

func newShape(name, pattern string, fields ...Field) shape {
	return shape{
		name:   name,
		fields: fields,
		target: regexp.MustCompile(`^` + pattern + `$`),
		// A timestamp prefix must not be followed by a digit or another
		// field separator, otherwise "10:00" would match inside "10:00:05".
		prefix: regexp.MustCompile(`^` + pattern + `(?:[^0-9.:]|$)`),
	}
}

// shapes lists every accepted literal form, longest first so that prefix
// matching always picks the most specific shape.
var shapes = []shape{
	newShape("YYYY/mm/dd HH:MM:SS.mmm",
		`(\d{4})/(\d{2})/(\d{2}) (\d{2}):(\d{2}):(\d{2})\.(\d{3})`,
		Year, Month, Day, Hour, Minute, Second, Millisecond),
	newShape("YYYY/mm/dd HH:MM:SS",
		`(\d{4})/(\d{2})/(\d{2}) (\d{2}):(\d{2}):(\d{2})`,
		Year, Month, Day, Hour, Minute, Second),
	newShape("YYYY/mm/dd HH:MM",
		`(\d{4})/(\d{2})/(\d{2}) (\d{2}):(\d{2})`,
		Year, Month, Day, Hour, Minute),
	newShape("YYYY/mm/dd",
		`(\d{4})/(\d{2})/(\d{2})`,
		Year, Month, Day),
	newShape("HH:MM:SS.mmm",
		`(\d{2}):(\d{2}):(\d{2})\.(\d{3})`,
		Hour, Minute, Second, Millisecond),
	newShape("HH:MM:SS",
		`(\d{2}):(\d{2}):(\d{2})`,
		Hour, Minute, Second),
	newShape("HH:MM",
		`(\d{2}):(\d{2})`,
		Hour, Minute),
}

// field value bounds, inclusive. Years are unconstrained beyond the
// four-digit grammar.
var fieldMax = [numFields]int{9999, 12, 31, 23, 59, 59, 999}
var fieldMin = [numFields]int{0, 1, 1, 0, 0, 0, 0}

// ParseTarget parses a user-supplied time literal into a Key. If the input
// omits a date, the date fields of anchor are copied in; a fully unspecified
// anchor then yields ErrMissingAnchor. Inputs matching no accepted shape, or
// with out-of-range field values, yield ErrMalformedTime.
func ParseTarget(input string, anchor Key) (Key, error) {
	for _, s := range shapes {
		m := s.target.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		k, err := buildKey(s.fields, m[1:])
		if err != nil {
			return Key{}, fmt.Errorf("%q: %w", input, err)
		}
		if !k.HasDate() {
			if anchor.IsZero() {
				return Key{}, fmt.Errorf("%q: %w", input, ErrMissingAnchor)
			}
			k = k.Anchor(anchor)
		}
		return k, nil
	}
	return Key{}, fmt.Errorf("%q: %w", input, ErrMalformedTime)
}

// ParseLineTimestamp parses the timestamp at the start of a log line.
// The second return value is false when the line does not begin with any
// accepted shape; this is an expected outcome for continuation lines, stack
// traces, and blank lines, not an error.
func ParseLineTimestamp(line []byte) (Key, bool) {
	k, _, ok := ParseLinePrefix(line)
	return k, ok
}

// ParseLinePrefix is ParseLineTimestamp plus the length in bytes of the
// matched timestamp literal. A match that consumes all of line may be the
// head of a longer literal that was cut off; callers holding a truncated
// line can use the length to tell.
func ParseLinePrefix(line []byte) (Key, int, bool) {
	for _, s := range shapes {
		loc := s.prefix.FindSubmatchIndex(line)
		if loc == nil {
			continue
		}
		groups := make([]string, len(s.fields))
		for i := range s.fields {
			groups[i] = string(line[loc[2*(i+1)]:loc[2*(i+1)+1]])
		}
		k, err := buildKey(s.fields, groups)
		if err != nil {
			// Digits in timestamp position but out of range: not a
			// timestamp, keep trying shorter shapes.
			continue
		}
		// The literal ends with the last field's digits; the rest of the
		// match is the delimiter lookahead.
		return k, loc[2*len(s.fields)+1], true
	}
	return Key{}, 0, false
}

// ShapeOf reports the name of the timestamp shape at the start of line, if
// any. Used for format inspection; the name matches the documented grammar.
func ShapeOf(line []byte) (string, bool) {
	for _, s := range shapes {
		m := s.prefix.FindSubmatch(line)
		if m == nil {
			continue
		}
		groups := make([]string, len(s.fields))
		for i := range s.fields {
			groups[i] = string(m[i+1])
		}
		if _, err := buildKey(s.fields, groups); err != nil {
			continue
		}
		return s.name, true
	}
	return "", false
}

func buildKey(fields []Field, groups []string) (Key, error) {
	var k Key
	for i, f := range fields {
		v, err := strconv.Atoi(groups[i])
		if err != nil {
			return Key{}, ErrMalformedTime
		}
		if v < fieldMin[f] || v > fieldMax[f] {
			return Key{}, fmt.Errorf("field value %d out of range: %w", v, ErrMalformedTime)
		}
		k = k.With(f, v)
	}
	return k, nil
}
