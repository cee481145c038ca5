package powershell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// RunOptions are passed through to the Runner untouched.
type RunOptions struct {
	// Dir is the working directory. Empty means the current one.
	Dir string
	// Env holds KEY=VALUE entries appended to the inherited environment.
	Env []string
	// Timeout bounds the run. Zero means no limit beyond ctx.
	Timeout time.Duration
	Stdin   io.Reader
	// ValidExitCodes are the statuses Result.Check accepts. Empty means only 0.
	ValidExitCodes []int
}

// Runner starts a command line and waits for it to exit.
type Runner interface {
	// Run returns a *LaunchError if the process cannot be started. A process
	// that runs and exits non-zero is not an error.
	Run(ctx context.Context, commandLine string, opts RunOptions) (*Result, error)
}

// ExecRunner runs command lines on the local host with os/exec.
type ExecRunner struct {
	// For mocking in tests
	commandFunc func(ctx context.Context, commandLine string) (*exec.Cmd, error)
}

// NewExecRunner returns a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{commandFunc: newCommand}
}

func (r *ExecRunner) Run(ctx context.Context, commandLine string, opts RunOptions) (*Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd, err := r.commandFunc(ctx, commandLine)
	if err != nil {
		return nil, &LaunchError{Command: commandLine, Err: err}
	}
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		env := cmd.Env
		if env == nil {
			env = os.Environ()
		}
		cmd.Env = append(env, opts.Env...)
	}
	cmd.Stdin = opts.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Command: commandLine, Err: err}
	}
	err = cmd.Wait()

	result := &Result{
		Command:        commandLine,
		Stdout:         stdout.String(),
		Stderr:         stderr.String(),
		ExitCode:       ExitCode(err),
		Duration:       time.Since(start),
		ValidExitCodes: opts.ValidExitCodes,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("command interrupted after %s: %w", result.Duration.Round(time.Millisecond), ctxErr)
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return result, fmt.Errorf("could not wait for command: %w", err)
	}
	return result, nil
}

// IsInterrupt checks if an error is due to cancellation or a timeout.
func IsInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ExitCode extracts the exit code from an error returned by exec.Cmd.Wait.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
