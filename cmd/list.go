package cmd

import (
	"github.com/spf13/cobra"

	"evaldriver.dev/pkg/evaldriver/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the planned evaluation matrix",
		Long:  listLongDescription,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			bindMatrixFlags(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			matrix, err := matrixOptionsFromConfig()
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), domain.ListArgs{Matrix: matrix})
		},
	}

	configureMatrixFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
