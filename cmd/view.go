package cmd

import (
	"github.com/spf13/cobra"

	"evaldriver.dev/pkg/evaldriver/internal/domain"
)

var viewRunIDFlag string
var viewListRunsFlag bool

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View a stored evaluation run",
		Long:  viewLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout, err := layoutFromConfig()
			if err != nil {
				return err
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{
				Output:   layout.Output,
				RunID:    viewRunIDFlag,
				ListRuns: viewListRunsFlag,
			})
		},
	}

	cmd.Flags().StringVar(&viewRunIDFlag, runIDFlagName, "", "id of the run to show (default most recent)")
	cmd.Flags().BoolVar(&viewListRunsFlag, listRunsFlagName, false, "list stored runs instead of rendering one")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
