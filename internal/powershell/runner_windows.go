//go:build windows

package powershell

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
)

// newCommand hands the command line to CreateProcess verbatim. Letting
// os/exec quote the arguments would escape the script a second time.
func newCommand(ctx context.Context, commandLine string) (*exec.Cmd, error) {
	args := SplitCommandLine(commandLine)
	if len(args) == 0 {
		return nil, errors.New("empty command line")
	}
	cmd := exec.CommandContext(ctx, args[0])
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: commandLine}
	return cmd, nil
}
