package cmd

import (
	"github.com/spf13/cobra"

	"wavedig.dev/pkg/wavedig/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <dump>",
		Short: "List the signals declared in a dump",
		Long:  "List every declared signal with its scope path, kind, bit width and identifier code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{DumpArgs: dumpArgs(args[0])})
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
