// Package cmd provides the root command and CLI setup for evaldriver.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"evaldriver.dev/pkg/evaldriver/internal/adapter"
	"evaldriver.dev/pkg/evaldriver/internal/controller"
	"evaldriver.dev/pkg/evaldriver/internal/domain"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

var processRunner adapter.ProcessRunner
var scriptFS adapter.ScriptFS
var workflow domain.Workflow
var ui controller.UI

var (
	directoryFlag string
	outputDirFlag string
	fragmentsFlag string
	logFileFlag   string
	verboseFlag   bool
)

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	processRunner = adapter.NewLocalProcessRunner()
	scriptFS = adapter.NewLocalScriptFS()
	workflow = domain.NewWorkflow(processRunner, scriptFS, ui, openResultStore)
}

const layoutHelp = `Paths are resolved as follows:
  --directory      fixture root; the builder and checkers run here
  --output         results root, relative to --directory unless absolute
  --fragments      script fragment root, relative to --directory unless absolute`

const rootLongDescription = `Evaldriver evaluates a policy checking toolchain against a matrix of
deliberately broken fixture variants. Every configuration is built, checked
by the solver and the native checker, and classified as a true or false
positive or negative. Failing solver checks are re-run under error message
templates to measure counterexample sizes.

` + layoutHelp

const runLongDescription = `Run the evaluation matrix and print the result tables.

The result store, manifest, CSV statistics and metrics are written under the
output root.

` + layoutHelp

const listLongDescription = `Print the planned matrix without running anything.`

const viewLongDescription = `Render a stored run from the result store under the output root.

Without --run the most recent run is shown.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "evaldriver",
		Short:        "Policy checker evaluation driver",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	cmd.SetGlobalNormalizationFunc(normalizeFlagAliases)
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&directoryFlag, directoryFlagName, defaultDirectory, "fixture root directory")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(directoryFlagName), directoryConfigKey)

	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			defaultOutputDir,
			"output directory for results",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputConfigKey)

	cmd.PersistentFlags().StringVar(&fragmentsFlag, fragmentsFlagName, defaultFragmentsDir, "directory holding the script fragments")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(fragmentsFlagName), fragmentsConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level and echo every external command")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// normalizeFlagAliases accepts the older long flag names.
func normalizeFlagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}

	return pflag.NormalizedName(name)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func openResultStore(ctx context.Context, path m.Path) (adapter.ResultStore, error) {
	return adapter.OpenSQLiteResultStore(ctx, path)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
