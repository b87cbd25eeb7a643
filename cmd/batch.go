package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wavedig.dev/pkg/wavedig/internal/domain"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

const (
	opFlagName      = "op"
	signalsFlagName = "signals"
)

var batchOpFlag string
var batchSignalsFlag string
var batchAtFlag int64
var batchStartFlag int64
var batchEndFlag int64

// batchCmd represents the batch command.
var batchCmd = newBatchCmd()

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dump> [signals...]",
		Short: "Run one query over many signals",
		Long: `Run the same query for every signal given as an argument or listed in the
--signals file (one path per line, '#' starts a comment). Signals are
queried in parallel; a signal that fails is reported without stopping
the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Batch(cmd.Context(), domain.BatchArgs{
				DumpArgs:   dumpArgs(args[0]),
				Signals:    parseSignals(args[1:]),
				SignalList: m.Path(batchSignalsFlag),
				Op:         batchOpFlag,
				At:         batchAtFlag,
				Start:      batchStartFlag,
				End:        batchEndFlag,
				Lenient:    boolSetting(cmd, lenientFlagName, lenientConfigKey),
				Parallel:   viper.GetInt(batchParallelConfigKey),
			})
		},
	}

	configureBatchFlags(cmd)

	return cmd
}

func configureBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&batchOpFlag, opFlagName, string(m.OpHistory), fmt.Sprintf("query to run: %s, %s or %s", m.OpHistory, m.OpValue, m.OpRange))
	cmd.Flags().StringVar(&batchSignalsFlag, signalsFlagName, "", "file listing one signal path per line")
	cmd.Flags().Int64Var(&batchAtFlag, atFlagName, 0, "timestamp to sample (value)")
	configureWindowFlags(cmd, &batchStartFlag, &batchEndFlag)

	cmd.Flags().IntP(batchParallelFlagName, "p", defaultBatchParallel, "number of signals queried concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(batchParallelFlagName), batchParallelConfigKey)
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
