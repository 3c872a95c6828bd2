package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	runParallelFlag     int
	checkTimeoutFlag    string
	errMsgTimeoutFlag   string
	buildTimeoutFlag    string
	verboseCommandsFlag bool
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the evaluation matrix",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			bindMatrixFlags(cmd)
			bindRunFlags(cmd)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := runArgsFromConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return workflow.Run(ctx, args)
		},
	}

	configureMatrixFlags(cmd)
	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of configurations evaluated at once")
	cmd.Flags().StringVar(&checkTimeoutFlag, checkTimeoutFlagName, defaultCheckTimeout.String(), "timeout of a single checker invocation")
	cmd.Flags().StringVar(&errMsgTimeoutFlag, errMsgTimeoutFlagName, defaultErrMsgTimeout.String(), "timeout of a single error message template run")
	cmd.Flags().StringVar(&buildTimeoutFlag, buildTimeoutFlagName, defaultBuildTimeout.String(), "timeout of a single build")
	cmd.Flags().BoolVar(&verboseCommandsFlag, verboseCommandsFlagName, false, "echo every external command before it runs")
}

func bindRunFlags(cmd *cobra.Command) {
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(checkTimeoutFlagName), checkTimeoutConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(errMsgTimeoutFlagName), errMsgTimeoutConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(buildTimeoutFlagName), buildTimeoutConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(verboseCommandsFlagName), verboseCommandsConfigKey)
}
