package cmd

import (
	"github.com/spf13/cobra"

	"wavedig.dev/pkg/wavedig/internal/domain"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

const atFlagName = "at"

var valueAtFlag int64

// valueCmd represents the value command.
var valueCmd = newValueCmd()

func newValueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value <dump> <signal> --at <time>",
		Short: "Print the value a signal holds at a timestamp",
		Long:  "Print the value of the latest change of a signal at or before the given timestamp.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Value(cmd.Context(), domain.ValueArgs{
				DumpArgs: dumpArgs(args[0]),
				Signal:   m.SignalPath(args[1]),
				At:       valueAtFlag,
			})
		},
	}

	cmd.Flags().Int64Var(&valueAtFlag, atFlagName, 0, "timestamp to sample")
	cobra.CheckErr(cmd.MarkFlagRequired(atFlagName))

	return cmd
}

func init() {
	rootCmd.AddCommand(valueCmd)
}
