package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/psout/internal/powershell"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"
)

var commandCmd = &cobra.Command{
	Use:   "command <script>",
	Short: "Print the command line psout would run",
	Long: heredoc.Doc(`
		Print the PowerShell command line built for a script without running it.
		With --argv, print each argument the shell will receive on its own line,
		quoted so it can be pasted into bash.
	`),
	Example: heredoc.Doc(`
		# Show the escaped command line
		psout command 'Write-Output "hello"'

		# Show the arguments powershell.exe will see
		psout command --argv 'Write-Output "hello"'
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := readScript(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		line := powershell.BuildCommand(script)

		if argv, _ := cmd.Flags().GetBool("argv"); !argv {
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		}
		for _, arg := range powershell.SplitCommandLine(line) {
			quoted, err := syntax.Quote(arg, syntax.LangBash)
			if err != nil {
				return fmt.Errorf("could not quote argument %q: %w", arg, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), quoted)
		}
		return nil
	},
}

func init() {
	commandCmd.Flags().Bool("argv", false, "Print one shell-quoted argument per line")
	rootCmd.AddCommand(commandCmd)
}
