package powershell

import (
	"slices"
	"time"
)

// Result is the captured outcome of one PowerShell invocation.
type Result struct {
	// Command is the full command line that was run.
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	// ValidExitCodes are the statuses Check accepts. Empty means only 0.
	ValidExitCodes []int
}

// Check returns an *ExitError if the exit status is not one of the valid
// exit codes.
func (r *Result) Check() error {
	if slices.Contains(r.validExitCodes(), r.ExitCode) {
		return nil
	}
	return &ExitError{Result: r}
}

func (r *Result) validExitCodes() []int {
	if len(r.ValidExitCodes) == 0 {
		return []int{0}
	}
	return r.ValidExitCodes
}
