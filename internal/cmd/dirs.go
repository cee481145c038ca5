package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/psout/internal/config"
	"github.com/spf13/cobra"
)

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print directories used by psout",
	Long: heredoc.Doc(`
		Print the directories where psout reads its configuration and writes
		its logs.
	`),
	Example: heredoc.Doc(`
		# Print all directories
		psout dirs

		# Print only the config directory
		psout dirs --config

		# Print only the data directory
		psout dirs --data
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		configOnly, _ := cmd.Flags().GetBool("config")
		dataOnly, _ := cmd.Flags().GetBool("data")

		if configOnly && dataOnly {
			return fmt.Errorf("cannot specify both --config and --data flags")
		}

		path, _ := cmd.Flags().GetString("config-file")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		configDir := filepath.Dir(cfg.Path())
		dataDir := cfg.Options.DataDirectory
		out := cmd.OutOrStdout()

		if configOnly {
			fmt.Fprintln(out, configDir)
			return nil
		}

		if dataOnly {
			fmt.Fprintln(out, dataDir)
			return nil
		}

		// Print both by default
		fmt.Fprintf(out, "Config directory: %s\n", configDir)
		fmt.Fprintf(out, "Data directory:   %s\n", dataDir)
		fmt.Fprintf(out, "Log file:         %s\n", cfg.LogFile())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dirsCmd)
	dirsCmd.Flags().Bool("config", false, "Print only the config directory")
	dirsCmd.Flags().Bool("data", false, "Print only the data directory")
}
