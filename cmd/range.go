package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wavedig.dev/pkg/wavedig/internal/domain"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

const (
	startFlagName = "start"
	endFlagName   = "end"
)

var rangeStartFlag int64
var rangeEndFlag int64

// rangeCmd represents the range command.
var rangeCmd = newRangeCmd()

func newRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range <dump> <signal> --start <time> --end <time>",
		Short: "Print the distinct values a signal takes over a window",
		Long: `Print the distinct values a signal holds within [start, end], in order of
first appearance. Unless --lenient is set, start or end must be a timestamp
that appears in the dump.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Range(cmd.Context(), domain.RangeArgs{
				DumpArgs: dumpArgs(args[0]),
				Signal:   m.SignalPath(args[1]),
				Start:    rangeStartFlag,
				End:      rangeEndFlag,
				Lenient:  boolSetting(cmd, lenientFlagName, lenientConfigKey),
			})
		},
	}

	configureWindowFlags(cmd, &rangeStartFlag, &rangeEndFlag)
	cobra.CheckErr(cmd.MarkFlagRequired(startFlagName))
	cobra.CheckErr(cmd.MarkFlagRequired(endFlagName))

	return cmd
}

func configureWindowFlags(cmd *cobra.Command, start, end *int64) {
	cmd.Flags().Int64Var(start, startFlagName, 0, "first timestamp of the window (inclusive)")
	cmd.Flags().Int64Var(end, endFlagName, 0, "last timestamp of the window (inclusive)")

	cmd.Flags().Bool(lenientFlagName, defaultLenient, "accept window bounds that are not event timestamps")
}

// boolSetting reads a flag shared by several commands. An explicitly set flag
// wins; otherwise the config/env value applies. Such flags are not bound with
// viper.BindPFlag because only one command's flag could own the key.
func boolSetting(cmd *cobra.Command, flagName, key string) bool {
	if flag := cmd.Flags().Lookup(flagName); flag != nil && flag.Changed {
		value, err := cmd.Flags().GetBool(flagName)
		if err == nil {
			return value
		}
	}

	return viper.GetBool(key)
}

func init() {
	rootCmd.AddCommand(rangeCmd)
}
