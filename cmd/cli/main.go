// Timelog - Time-Based Log Offset Search
//
// Timelog binary-searches very large chronological log files for the byte
// offset of a target time, then hands the result to dd or less.
package main

import (
	"os"

	"timelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
