// Package cmd provides the root command and CLI setup for vulnsweep.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"vulnsweep.dev/pkg/vulnsweep/internal/adapter"
	"vulnsweep.dev/pkg/vulnsweep/internal/controller"
	"vulnsweep.dev/pkg/vulnsweep/internal/domain"
)

var runner adapter.ScanRunnerAdapter
var reportStore adapter.ReportStore
var fsAdapter adapter.SourceFSAdapter
var taskParamsAdapter adapter.TaskParamsAdapter
var resolver domain.ToolchainResolver
var discovery domain.ModuleDiscovery
var outputParser domain.OutputParser
var workflow domain.Workflow
var ui controller.UI

// reportFileFlag is a root-level flag shared by commands that read/write the
// report.
var reportFileFlag string

// verboseFlag switches the log level to debug.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	runner = adapter.NewLocalScanRunnerAdapter(scanTimeout())
	reportStore = adapter.NewReportStore()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	taskParamsAdapter = adapter.NewLocalTaskParamsAdapter()
	resolver = domain.NewToolchainResolver(runner)
	discovery = domain.NewModuleDiscovery(fsAdapter)
	outputParser = domain.NewOutputParser()
	workflow = domain.NewWorkflow(
		runner,
		reportStore,
		ui,
		resolver,
		discovery,
		outputParser,
	)
}

const rootLongDescription = `Vulnsweep scans Go source trees for known vulnerabilities. It finds every
module root (directory with a go.mod) under a source directory, runs the
bundled govulncheck scanner against each one, and collects the findings
into a single JSON report.

The scan honors an optional task request file that narrows which module
roots are scanned.`

const scanLongDescription = `Scan the module roots under a source directory (default: current directory).

The source directory can also be set through the SOURCE_DIR environment
variable or the scan.source_dir config key; a positional argument wins.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vulnsweep",
		Short: "Go vulnerability scanning tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd builds a fresh root command with flags configured, for wiring
// subcommands in tests.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportFileFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"path of the JSON vulnerability report",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log debug details")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "path of the rotated log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// scanTimeout returns the per-root scanner deadline from config.
func scanTimeout() time.Duration {
	return time.Duration(viper.GetInt(scanTimeoutKey)) * time.Second
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
