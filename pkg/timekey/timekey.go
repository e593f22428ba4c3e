// Package timekey provides partially-specified timestamp keys for ordering
// log lines and search targets.
//
// A Key carries up to seven calendar fields (year through millisecond). Fields
// absent from the input are excluded from comparison rather than defaulting to
// zero, so a date-only key never silently becomes "midnight on that date".
package timekey

import "strings"

// Field identifies one component of a Key, from most to least significant.
type Field uint8

const (
	Year Field = iota
	Month
	Day
	Hour
	Minute
	Second
	Millisecond

	numFields
)

// Key is a timestamp with optional fields. The zero value has no fields
// specified at all.
type Key struct {
	vals [numFields]int
	mask uint8
}

// With returns a copy of k with field f set to v.
func (k Key) With(f Field, v int) Key {
	k.vals[f] = v
	k.mask |= 1 << f
	return k
}

// Has reports whether field f is specified.
func (k Key) Has(f Field) bool {
	return k.mask&(1<<f) != 0
}

// Get returns the value of field f and whether it is specified.
func (k Key) Get(f Field) (int, bool) {
	return k.vals[f], k.Has(f)
}

// IsZero reports whether no field is specified.
func (k Key) IsZero() bool {
	return k.mask == 0
}

// HasDate reports whether year, month, and day are all specified.
func (k Key) HasDate() bool {
	return k.Has(Year) && k.Has(Month) && k.Has(Day)
}

// Anchor returns k with any missing date fields copied from anchor. Time
// fields are never copied; anchoring only completes the date.
func (k Key) Anchor(anchor Key) Key {
	for f := Year; f <= Day; f++ {
		if !k.Has(f) && anchor.Has(f) {
			k = k.With(f, anchor.vals[f])
		}
	}
	return k
}

// Compare orders a and b lexicographically over the fields both specify,
// most significant first. Fields absent from either key are skipped, so two
// time-only keys compare on their time fields and a shorter key compares
// equal to any key that shares its specified fields. Returns -1, 0, or 1.
func Compare(a, b Key) int {
	for f := Year; f < numFields; f++ {
		if !a.Has(f) || !b.Has(f) {
			continue
		}
		switch {
		case a.vals[f] < b.vals[f]:
			return -1
		case a.vals[f] > b.vals[f]:
			return 1
		}
	}
	return 0
}

// String renders the specified fields in the canonical literal form, e.g.
// "2024/01/02 11:30:00.000" or "11:30" for a time-only key. Used in error
// messages and debug traces.
func (k Key) String() string {
	if k.IsZero() {
		return "(unspecified)"
	}

	var sb strings.Builder
	if k.HasDate() {
		writeInt(&sb, k.vals[Year], 4)
		sb.WriteByte('/')
		writeInt(&sb, k.vals[Month], 2)
		sb.WriteByte('/')
		writeInt(&sb, k.vals[Day], 2)
		if k.Has(Hour) {
			sb.WriteByte(' ')
		}
	}
	if k.Has(Hour) && k.Has(Minute) {
		writeInt(&sb, k.vals[Hour], 2)
		sb.WriteByte(':')
		writeInt(&sb, k.vals[Minute], 2)
		if k.Has(Second) {
			sb.WriteByte(':')
			writeInt(&sb, k.vals[Second], 2)
			if k.Has(Millisecond) {
				sb.WriteByte('.')
				writeInt(&sb, k.vals[Millisecond], 3)
			}
		}
	}
	return sb.String()
}

func writeInt(sb *strings.Builder, v, width int) {
	var buf [4]byte
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	sb.Write(buf[:width])
}
