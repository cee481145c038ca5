package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/psout/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the psout configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the config file",
	Long: heredoc.Doc(`
		Set a value in the config file. Known keys are architecture, timeout
		(seconds), working_dir, options.debug, options.data_directory and
		env.<NAME>.
	`),
	Example: heredoc.Doc(`
		# Always run the 64-bit shell
		psout config set architecture x86_64

		# Give up after ten minutes
		psout config set timeout 600
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config-file")
		if path == "" {
			path = config.GlobalConfig()
		}
		key := args[0]
		value, err := config.ParseFieldValue(key, args[1])
		if err != nil {
			return err
		}
		if err := config.SetField(path, key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
