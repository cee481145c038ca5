package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/psout/internal/config"
	"github.com/charmbracelet/psout/internal/powershell"
	"github.com/spf13/cobra"
)

var exitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)

var runCmd = &cobra.Command{
	Use:   "run [flags] <script>",
	Short: "Run a PowerShell script",
	Long: heredoc.Doc(`
		Run a script under powershell.exe and print its output.

		Anything PowerShell writes to stderr fails the run, even when it exits
		with status zero. Double quotes in the script are escaped for you; any
		other special character must be escaped before it is passed in.
		Pass - as the script to read it from stdin.
	`),
	Example: heredoc.Doc(`
		# Run a one-liner
		psout run 'Get-Date'

		# Force the 64-bit shell from a 32-bit process
		psout run --arch x86_64 'Get-ChildItem C:\Windows\System32\drivers'

		# Read the script from stdin and fail on a non-zero exit status
		Get-Content install.ps1 | psout run --strict -

		# Treat 3010 (reboot required) as success
		psout run --strict --returns 0,3010 'Start-Process msiexec -Wait'
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		script, err := readScript(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		opts, err := runOptions(cmd, cfg)
		if err != nil {
			return err
		}

		exec := powershell.Exec
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			exec = powershell.ExecStrict
		}

		result, err := exec(cmd.Context(), script, opts)
		if result != nil {
			fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
		}
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), exitStyle.Render(fmt.Sprintf("exit status %d", result.ExitCode)))
			exitStatus = result.ExitCode
		}
		return nil
	},
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("arch", "", "Force the shell architecture (i386 or x86_64)")
	cmd.Flags().String("cwd", "", "Working directory")
	cmd.Flags().StringArrayP("env", "e", nil, "Extra environment variable as KEY=VALUE (repeatable)")
	cmd.Flags().Duration("timeout", 0, "Kill the shell after this long")
	cmd.Flags().Bool("strict", false, "Fail when the exit status is not a valid exit code")
	cmd.Flags().IntSlice("returns", nil, "Valid exit codes for --strict (default 0)")
}

// runOptions layers the command flags over the config defaults.
func runOptions(cmd *cobra.Command, cfg *config.Config) (powershell.Options, error) {
	opts := cfg.RunOptions()
	flags := cmd.Flags()

	if flags.Changed("arch") {
		raw, _ := flags.GetString("arch")
		arch, err := powershell.ParseArchitecture(raw)
		if err != nil {
			return opts, err
		}
		opts.Architecture = arch
	}
	if flags.Changed("cwd") {
		opts.Dir, _ = flags.GetString("cwd")
	}
	if flags.Changed("timeout") {
		opts.Timeout, _ = flags.GetDuration("timeout")
	}

	env, _ := flags.GetStringArray("env")
	for _, kv := range env {
		if key, _, ok := strings.Cut(kv, "="); !ok || key == "" {
			return opts, fmt.Errorf("invalid --env %q, expected KEY=VALUE", kv)
		}
		opts.Env = append(opts.Env, kv)
	}

	if returns, _ := flags.GetIntSlice("returns"); len(returns) > 0 {
		opts.ValidExitCodes = returns
	}
	return opts, nil
}

// readScript returns arg, or stdin when arg is "-".
func readScript(stdin io.Reader, arg string) (string, error) {
	script := arg
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read script from stdin: %w", err)
		}
		script = strings.TrimRight(string(data), "\r\n")
	}
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("script is empty")
	}
	return script, nil
}
