package output

import (
	"encoding/json"
	"fmt"
	"io"

	"timelog/pkg/locate"
)

// Offsets is the machine-readable result of a range resolution.
type Offsets struct {
	File  string `json:"file"`
	Start int64  `json:"start"`
	End   *int64 `json:"end,omitempty"`
}

// NewOffsets builds an Offsets record from a resolved range.
func NewOffsets(file string, rng locate.Range) Offsets {
	o := Offsets{File: file, Start: rng.Start}
	if rng.HasEnd {
		end := rng.End
		o.End = &end
	}
	return o
}

// WriteOffsets renders o to w in the requested format, "text" or "json".
func WriteOffsets(w io.Writer, format string, o Offsets) error {
	switch format {
	case "text":
		if _, err := fmt.Fprintf(w, "start\t%d\n", o.Start); err != nil {
			return err
		}
		if o.End != nil {
			if _, err := fmt.Fprintf(w, "end\t%d\n", *o.End); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}
