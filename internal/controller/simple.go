package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

const noValueLabel = "-"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// SimpleUI implements UI with plain tables written to the command output.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, styled bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, styled: styled}
}

// DisplaySignals prints every declared signal.
func (s *SimpleUI) DisplaySignals(ctx context.Context, dump m.Path, signals []m.Signal, stats m.DumpStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.title(fmt.Sprintf("%s (%s)", dump, stats.Dialect))

	rows := make([][]string, 0, len(signals))
	for _, signal := range signals {
		rows = append(rows, []string{
			string(signal.Path),
			signal.Variable.Kind,
			fmt.Sprintf("%d", signal.Variable.Width),
			signal.Variable.Code,
		})
	}

	s.printf("%s", renderTable(
		[]string{"Signal", "Kind", "Width", "Code"},
		[]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT},
		rows,
		[]string{fmt.Sprintf("Total %d", len(signals)), "", "", fmt.Sprintf("%d changes", stats.Index.Changes)},
	))

	return nil
}

// DisplayHistory prints one row per sample.
func (s *SimpleUI) DisplayHistory(ctx context.Context, path m.SignalPath, history m.Timeline) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.title(string(path))

	if len(history) == 0 {
		s.printf("no value changes\n")
		return nil
	}

	rows := make([][]string, 0, len(history))
	for _, sample := range history {
		rows = append(rows, []string{fmt.Sprintf("#%d", sample.Time), sample.Value})
	}

	s.printf("%s", renderTable(
		[]string{"Time", "Value"},
		[]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT},
		rows,
		nil,
	))

	return nil
}

// DisplayValue prints the value held at a timestamp.
func (s *SimpleUI) DisplayValue(ctx context.Context, path m.SignalPath, at int64, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s @ #%d = %s\n", path, at, value)

	return nil
}

// DisplayRange prints the distinct values seen in a window.
func (s *SimpleUI) DisplayRange(ctx context.Context, path m.SignalPath, window RangeQuery, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s [#%d, #%d]: %s\n", path, window.Start, window.End, joinValues(values))

	return nil
}

// DisplayBatch prints one row per signal in input order.
func (s *SimpleUI) DisplayBatch(ctx context.Context, report BatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.title(fmt.Sprintf("batch %s (%s)", report.ID, report.Op))

	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		if result.Err != nil {
			rows = append(rows, []string{string(result.Path), noValueLabel, s.errorText(result.Err)})
			continue
		}

		rows = append(rows, []string{string(result.Path), formatResult(result), ""})
	}

	s.printf("%s", renderTable(
		[]string{"Signal", "Result", "Error"},
		[]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT},
		rows,
		[]string{fmt.Sprintf("Total %d", len(report.Results)), "", fmt.Sprintf("%d failed", report.Failed())},
	))

	return nil
}

func formatResult(result m.QueryResult) string {
	switch result.Op {
	case m.OpHistory:
		parts := make([]string, 0, len(result.History))
		for _, sample := range result.History {
			parts = append(parts, fmt.Sprintf("#%d=%s", sample.Time, sample.Value))
		}

		return joinValues(parts)
	case m.OpValue:
		return result.Value
	case m.OpRange:
		return joinValues(result.Values)
	}

	return noValueLabel
}

func joinValues(values []string) string {
	if len(values) == 0 {
		return noValueLabel
	}

	return strings.Join(values, ", ")
}

func renderTable(header []string, alignment []int, rows [][]string, footer []string) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(alignment)
	table.AppendBulk(rows)

	if footer != nil {
		table.SetFooter(footer)
	}

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) title(text string) {
	if s.styled {
		text = titleStyle.Render(text)
	}

	s.printf("%s\n", text)
}

func (s *SimpleUI) errorText(err error) string {
	if s.styled {
		return errorStyle.Render(err.Error())
	}

	return err.Error()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
