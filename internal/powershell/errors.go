package powershell

import (
	"errors"
	"fmt"
)

// ErrArchitectureUnsupported is returned by a Redirector asked for a mode the
// host cannot provide, such as 64-bit on a 32-bit Windows.
var ErrArchitectureUnsupported = errors.New("architecture not supported on this host")

const escapingHint = "Please use single escape for special characters in PowerShell scripts. \n "

// EscapingError reports the stderr signature PowerShell prints when a special
// character in the script was not escaped by the caller.
type EscapingError struct {
	Stderr string
}

func (e *EscapingError) Error() string {
	return escapingHint + e.Stderr
}

// ShellCommandFailedError reports a command that wrote to stderr. PowerShell
// can exit zero after a fatal parse error, so stderr output alone is a
// failure.
type ShellCommandFailedError struct {
	Stderr string
}

func (e *ShellCommandFailedError) Error() string {
	return e.Stderr
}

// ExitError reports an exit status outside the result's valid exit codes.
type ExitError struct {
	Result *Result
}

func (e *ExitError) Error() string {
	r := e.Result
	return fmt.Sprintf(
		"Expected process to exit with %v, but received '%d'\n"+
			"---- Begin output of %s ----\n"+
			"STDOUT: %s\n"+
			"STDERR: %s\n"+
			"---- End output of %s ----\n"+
			"Ran %s returned %d",
		r.validExitCodes(), r.ExitCode,
		r.Command, r.Stdout, r.Stderr, r.Command,
		r.Command, r.ExitCode,
	)
}

// LaunchError reports a process that could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// PlatformStateError reports a failure to read, set or restore the
// redirection mode. When restoring fails after the guarded body returned an
// error, BodyErr holds that error and both are reachable through errors.Is
// and errors.As.
type PlatformStateError struct {
	// Op is one of "read", "set" or "restore".
	Op      string
	Mode    Mode
	Err     error
	BodyErr error
}

func (e *PlatformStateError) Error() string {
	var msg string
	if e.Op == "read" {
		msg = fmt.Sprintf("failed to read architecture mode: %v", e.Err)
	} else {
		msg = fmt.Sprintf("failed to %s architecture mode %s: %v", e.Op, e.Mode, e.Err)
	}
	if e.BodyErr != nil {
		msg += fmt.Sprintf(" (command error: %v)", e.BodyErr)
	}
	return msg
}

func (e *PlatformStateError) Unwrap() []error {
	if e.BodyErr == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.BodyErr}
}
