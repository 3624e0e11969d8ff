package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"vulnsweep.dev/pkg/vulnsweep/internal/domain"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the findings of a previous scan",
		Long:  "View the findings recorded in a previously written vulnerability report.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			report := m.Path(viper.GetString(outputFlagName))
			return workflow.View(context.Background(), domain.ViewArgs{Report: report})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
