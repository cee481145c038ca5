package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/psout/internal/config"
	"github.com/charmbracelet/psout/internal/log"
	"github.com/charmbracelet/psout/internal/version"
	"github.com/spf13/cobra"
)

// exitStatus is the shell's exit status, reported by Execute once the
// command has returned.
var exitStatus int

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().StringP("config-file", "c", "", "Config file (defaults to the global config)")
}

var rootCmd = &cobra.Command{
	Use:   "psout",
	Short: "Run PowerShell scripts non-interactively",
	Long: heredoc.Doc(`
		psout runs scripts under Windows PowerShell with a fixed set of
		non-interactive flags, can force the 32-bit or 64-bit shell regardless
		of its own architecture, and reports errors PowerShell writes to stderr
		even when it exits with status zero.
	`),
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := fang.Execute(ctx, rootCmd, fang.WithVersion(version.Version))
	stop()
	if err != nil {
		os.Exit(1)
	}
	if exitStatus != 0 {
		os.Exit(exitStatus)
	}
}

// setup loads the config and starts logging.
func setup(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	path, _ := cmd.Flags().GetString("config-file")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Options.Debug = true
	}
	log.Setup(cfg.LogFile(), cfg.Options.Debug)
	return cfg, nil
}
