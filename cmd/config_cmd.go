package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command.
var configCmd = newConfigCmd()

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the merged configuration as YAML, after defaults, the config file,
environment variables and flags have been applied.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rendered, err := yaml.Marshal(viper.AllSettings())
			if err != nil {
				return fmt.Errorf("render settings: %w", err)
			}

			cmd.Print(string(rendered))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}
