//go:build !windows

package powershell

import (
	"context"
	"errors"
	"os/exec"
)

// newCommand splits the command line with the Windows rules PowerShell would
// apply to it and runs the resulting argv directly.
func newCommand(ctx context.Context, commandLine string) (*exec.Cmd, error) {
	args := SplitCommandLine(commandLine)
	if len(args) == 0 {
		return nil, errors.New("empty command line")
	}
	return exec.CommandContext(ctx, args[0], args[1:]...), nil
}
