package powershell

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Options configures a single Exec call.
type Options struct {
	RunOptions
	// Architecture forces the shell's architecture. It is consumed by the
	// executor and never reaches the Runner.
	Architecture Architecture
}

// Executor runs scripts through a Runner inside a Guard.
type Executor struct {
	runner Runner
	guard  *Guard
	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunner replaces the os/exec runner.
func WithRunner(r Runner) ExecutorOption {
	return func(e *Executor) {
		e.runner = r
	}
}

// WithGuard replaces the process-wide guard. Only tests and callers that own
// their own Redirector should need this.
func WithGuard(g *Guard) ExecutorOption {
	return func(e *Executor) {
		e.guard = g
	}
}

// WithLogger sets the logger used for debug output. Defaults to slog.Default.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
	}
}

// New creates an executor. Without options it runs powershell.exe with
// os/exec under the process-wide guard.
func New(opts ...ExecutorOption) *Executor {
	e := &Executor{
		runner: NewExecRunner(),
		guard:  defaultGuard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExecutor = New()

// Exec runs script with the default executor.
func Exec(ctx context.Context, script string, opts Options) (*Result, error) {
	return defaultExecutor.Exec(ctx, script, opts)
}

// ExecStrict runs script with the default executor and fails on a non-zero
// exit status.
func ExecStrict(ctx context.Context, script string, opts Options) (*Result, error) {
	return defaultExecutor.ExecStrict(ctx, script, opts)
}

// Exec runs script and classifies its stderr.
//
// It returns an *EscapingError when stderr shows an unescaped special
// character, a *ShellCommandFailedError when stderr is otherwise non-empty,
// and the runner's or guard's error unchanged if the run itself failed. The
// result is returned alongside classification errors so stdout stays
// available. The exit status is not checked; see ExecStrict.
func (e *Executor) Exec(ctx context.Context, script string, opts Options) (*Result, error) {
	arch, runOpts := opts.Architecture, opts.RunOptions
	commandLine := BuildCommand(script)
	id := uuid.NewString()

	var result *Result
	err := e.guard.Do(arch, func() error {
		var err error
		result, err = e.runner.Run(ctx, commandLine, runOpts)
		return err
	})
	if err == nil && result == nil {
		err = errors.New("runner returned no result")
	}
	if err != nil {
		return result, err
	}

	e.log().Debug("PowerShell command finished",
		"id", id,
		"arch", arch,
		"exit_code", result.ExitCode,
		"duration", result.Duration,
		"stderr_bytes", len(result.Stderr),
	)
	if err := classify(result); err != nil {
		return result, err
	}
	return result, nil
}

// ExecStrict is Exec followed by Result.Check, so a clean stderr with a bad
// exit status yields an *ExitError.
func (e *Executor) ExecStrict(ctx context.Context, script string, opts Options) (*Result, error) {
	result, err := e.Exec(ctx, script, opts)
	if err != nil {
		return result, err
	}
	if err := result.Check(); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Executor) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}
