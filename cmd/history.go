package cmd

import (
	"github.com/spf13/cobra"

	"wavedig.dev/pkg/wavedig/internal/domain"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <dump> <signal>",
		Short: "Print every recorded change of a signal",
		Long: `Print the timeline of a signal: one (timestamp, value) pair per change,
starting with the initial value from the $dumpvars block.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.History(cmd.Context(), domain.HistoryArgs{
				DumpArgs: dumpArgs(args[0]),
				Signal:   m.SignalPath(args[1]),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
