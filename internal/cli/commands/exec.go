package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"timelog/pkg/output"
)

// runPlan executes a planned external command with stdin, stdout, and stderr
// connected to this process, and returns its exit code.
func runPlan(p output.Plan) int {
	cmd := exec.Command(p.Path, p.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		// Extract exit code from error if available
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing %s: %v\n", p.Path, err)
		return 1
	}

	return 0
}
