package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vulnsweep.dev/pkg/vulnsweep/internal/domain"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

var scanTaskRequestFlag string
var scanToolchainModeFlag string
var scanToolchainHomeFlag string
var scanToolDirFlag string

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [source-dir]",
		Short: "Scan module roots for known vulnerabilities",
		Long:  scanLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sourceDir := viper.GetString(scanSourceDirKey)
			if len(args) == 1 {
				sourceDir = args[0]
			}

			params, err := loadTaskParams()
			if err != nil {
				return err
			}

			return workflow.Scan(context.Background(), domain.ScanArgs{
				SourceDir:  m.Path(sourceDir),
				Output:     m.Path(viper.GetString(outputFlagName)),
				TaskParams: params,
				Toolchain:  toolchainOptions(),
			})
		},
	}

	configureScanFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func configureScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&scanTaskRequestFlag, taskRequestFlagName, "t", viper.GetString(scanTaskRequestKey), "path of the task request JSON narrowing the scanned roots")
	bindFlagToConfig(cmd.Flags().Lookup(taskRequestFlagName), scanTaskRequestKey)

	cmd.Flags().StringVar(&scanToolchainModeFlag, toolchainModeFlagName, viper.GetString(scanToolchainModeKey), "toolchain override mode: auto probes the system Go, off always uses the bundled one")
	bindFlagToConfig(cmd.Flags().Lookup(toolchainModeFlagName), scanToolchainModeKey)

	cmd.Flags().StringVar(&scanToolchainHomeFlag, toolchainHomeFlagName, viper.GetString(scanToolchainHomeKey), "root of the bundled Go install used when the system one is too old")
	bindFlagToConfig(cmd.Flags().Lookup(toolchainHomeFlagName), scanToolchainHomeKey)

	cmd.Flags().StringVar(&scanToolDirFlag, toolDirFlagName, viper.GetString(scanToolDirKey), "directory holding the tool/<platform> scanner bundle")
	bindFlagToConfig(cmd.Flags().Lookup(toolDirFlagName), scanToolDirKey)
}

// toolchainOptions gathers the per-run resolver inputs from config and the
// process environment.
func toolchainOptions() domain.ResolverOptions {
	return domain.ResolverOptions{
		GOOS:     runtime.GOOS,
		ToolRoot: m.Path(viper.GetString(scanToolDirKey)),
		Mode:     viper.GetString(scanToolchainModeKey),
		Home:     m.Path(viper.GetString(scanToolchainHomeKey)),
		BaseEnv:  os.Environ(),
	}
}

// loadTaskParams reads the optional task request file. An unset path means no
// filtering; a set but unreadable one is fatal.
func loadTaskParams() (m.TaskParams, error) {
	requestPath := viper.GetString(scanTaskRequestKey)
	if requestPath == "" {
		slog.Debug("no task request configured, scanning without path filters")
		return m.TaskParams{}, nil
	}

	params, err := taskParamsAdapter.Load(m.Path(requestPath))
	if err != nil {
		return m.TaskParams{}, fmt.Errorf("load task request: %w", err)
	}

	if params.IncrScan {
		slog.Info("incremental scan requested but not supported, running a full scan")
	}

	return params, nil
}
