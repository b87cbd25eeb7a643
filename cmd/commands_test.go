package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wavedig.dev/pkg/wavedig/internal/domain"
	domainmocks "wavedig.dev/pkg/wavedig/internal/domain/mocks"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

// withMockWorkflow swaps the package workflow for a mock and returns a root
// command with sub attached.
func withMockWorkflow(t *testing.T, sub *cobra.Command) (*cobra.Command, *domainmocks.MockWorkflow) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	cmd := newRootCmd()
	cmd.AddCommand(sub)

	return cmd, mockWorkflow
}

func TestListCmd_PassesDumpAndDefaultDialect(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newListCmd())

	mockWorkflow.On("List", mock.Anything, domain.ListArgs{
		DumpArgs: domain.DumpArgs{Dump: "sim.vcd", Dialect: "standard"},
	}).Return(nil).Once()

	_, err := executeCommand(t, cmd, "list", "sim.vcd")
	require.NoError(t, err)
}

func TestListCmd_DialectFlagIsPassedThrough(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newListCmd())

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Dialect == "evcd"
	})).Return(nil).Once()

	_, err := executeCommand(t, cmd, "list", "sim.vcd", "--dialect", "evcd")
	require.NoError(t, err)
}

func TestListCmd_DialectFromEnvironment(t *testing.T) {
	t.Setenv("WAVEDIG_DIALECT", "extended")

	cmd, mockWorkflow := withMockWorkflow(t, newListCmd())

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Dialect == "extended"
	})).Return(nil).Once()

	_, err := executeCommand(t, cmd, "list", "sim.vcd")
	require.NoError(t, err)
}

func TestListCmd_RequiresDump(t *testing.T) {
	cmd, _ := withMockWorkflow(t, newListCmd())

	_, err := executeCommand(t, cmd, "list")
	require.Error(t, err)
}

func TestHistoryCmd(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newHistoryCmd())

	mockWorkflow.On("History", mock.Anything, domain.HistoryArgs{
		DumpArgs: domain.DumpArgs{Dump: "sim.vcd", Dialect: "standard"},
		Signal:   "top/clk",
	}).Return(nil).Once()

	_, err := executeCommand(t, cmd, "history", "sim.vcd", "top/clk")
	require.NoError(t, err)
}

func TestHistoryCmd_WorkflowErrorIsReturned(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newHistoryCmd())

	mockWorkflow.On("History", mock.Anything, mock.Anything).Return(domain.ErrSignalNotFound).Once()

	_, err := executeCommand(t, cmd, "history", "sim.vcd", "top/nope")
	require.ErrorIs(t, err, domain.ErrSignalNotFound)
}

func TestValueCmd(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newValueCmd())

	mockWorkflow.On("Value", mock.Anything, domain.ValueArgs{
		DumpArgs: domain.DumpArgs{Dump: "sim.vcd", Dialect: "standard"},
		Signal:   "top/clk",
		At:       7,
	}).Return(nil).Once()

	_, err := executeCommand(t, cmd, "value", "sim.vcd", "top/clk", "--at", "7")
	require.NoError(t, err)
}

func TestValueCmd_RequiresAt(t *testing.T) {
	cmd, _ := withMockWorkflow(t, newValueCmd())

	_, err := executeCommand(t, cmd, "value", "sim.vcd", "top/clk")
	require.Error(t, err)
}

func TestRangeCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		lenient bool
	}{
		{"strict by default", []string{"range", "sim.vcd", "top/clk", "--start", "0", "--end", "10"}, false},
		{"lenient flag", []string{"range", "sim.vcd", "top/clk", "--start", "0", "--end", "10", "--lenient"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, mockWorkflow := withMockWorkflow(t, newRangeCmd())

			mockWorkflow.On("Range", mock.Anything, domain.RangeArgs{
				DumpArgs: domain.DumpArgs{Dump: "sim.vcd", Dialect: "standard"},
				Signal:   "top/clk",
				Start:    0,
				End:      10,
				Lenient:  tt.lenient,
			}).Return(nil).Once()

			_, err := executeCommand(t, cmd, tt.args...)
			require.NoError(t, err)
		})
	}
}

func TestRangeCmd_LenientFromEnvironment(t *testing.T) {
	t.Setenv("WAVEDIG_QUERY_LENIENT", "true")

	cmd, mockWorkflow := withMockWorkflow(t, newRangeCmd())

	mockWorkflow.On("Range", mock.Anything, mock.MatchedBy(func(args domain.RangeArgs) bool {
		return args.Lenient
	})).Return(nil).Once()

	_, err := executeCommand(t, cmd, "range", "sim.vcd", "top/clk", "--start", "1", "--end", "2")
	require.NoError(t, err)
}

func TestRangeCmd_RequiresWindow(t *testing.T) {
	cmd, _ := withMockWorkflow(t, newRangeCmd())

	_, err := executeCommand(t, cmd, "range", "sim.vcd", "top/clk", "--start", "1")
	require.Error(t, err)
}

func TestBatchCmd_Defaults(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newBatchCmd())

	mockWorkflow.On("Batch", mock.Anything, domain.BatchArgs{
		DumpArgs: domain.DumpArgs{Dump: "sim.vcd", Dialect: "standard"},
		Signals:  []m.SignalPath{"top/clk", "top/rst"},
		Op:       "history",
		Parallel: defaultBatchParallel,
	}).Return(nil).Once()

	_, err := executeCommand(t, cmd, "batch", "sim.vcd", "top/clk", "top/rst")
	require.NoError(t, err)
}

func TestBatchCmd_AllFlags(t *testing.T) {
	cmd, mockWorkflow := withMockWorkflow(t, newBatchCmd())

	// -p stays bound to batch.parallel after the run; hand the key back.
	t.Cleanup(func() {
		bindFlagToConfig(batchCmd.Flags().Lookup(batchParallelFlagName), batchParallelConfigKey)
	})

	mockWorkflow.On("Batch", mock.Anything, domain.BatchArgs{
		DumpArgs:   domain.DumpArgs{Dump: "sim.vcd", Dialect: "extended"},
		Signals:    []m.SignalPath{},
		SignalList: "signals.txt",
		Op:         "range",
		At:         3,
		Start:      5,
		End:        9,
		Lenient:    true,
		Parallel:   2,
	}).Return(nil).Once()

	_, err := executeCommand(t, cmd, "batch", "sim.vcd",
		"--signals", "signals.txt",
		"--op", "range",
		"--at", "3",
		"--start", "5",
		"--end", "9",
		"--lenient",
		"-p", "2",
		"--dialect", "extended",
	)
	require.NoError(t, err)
}

func TestBatchCmd_RequiresDump(t *testing.T) {
	cmd, _ := withMockWorkflow(t, newBatchCmd())

	_, err := executeCommand(t, cmd, "batch")
	require.Error(t, err)
}
