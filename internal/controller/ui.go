// Package controller renders query results for the wavedig CLI.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// Format selects the output renderer.
type Format string

// Supported output formats.
const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat converts a user-supplied format name. An empty name means table.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	}

	return "", fmt.Errorf("%w: %q (expected table or yaml)", ErrUnknownFormat, name)
}

// RangeQuery describes the window of a range query for display.
type RangeQuery struct {
	Start   int64
	End     int64
	Lenient bool
}

// BatchReport is the outcome of a batch run, in input order.
type BatchReport struct {
	ID      string
	Op      m.QueryOp
	Results []m.QueryResult
}

// Failed counts results carrying an error.
func (r BatchReport) Failed() int {
	failed := 0

	for _, result := range r.Results {
		if result.Err != nil {
			failed++
		}
	}

	return failed
}

// UI defines how query results reach the user.
// Implementations can use different output methods (tables, YAML, etc).
type UI interface {
	DisplaySignals(ctx context.Context, dump m.Path, signals []m.Signal, stats m.DumpStats) error
	DisplayHistory(ctx context.Context, path m.SignalPath, history m.Timeline) error
	DisplayValue(ctx context.Context, path m.SignalPath, at int64, value string) error
	DisplayRange(ctx context.Context, path m.SignalPath, window RangeQuery, values []string) error
	DisplayBatch(ctx context.Context, report BatchReport) error
}

// NewUI returns the renderer for format writing through cmd. Table output is
// styled only when styled is true.
func NewUI(cmd *cobra.Command, format Format, styled bool) UI {
	if format == FormatYAML {
		return NewYAMLUI(cmd)
	}

	return NewSimpleUI(cmd, styled)
}

// NewConfiguredUI returns a UI that picks its renderer on every call from
// format, so a format chosen by flags after construction still applies.
func NewConfiguredUI(cmd *cobra.Command, format func() Format, styled bool) UI {
	return &configuredUI{
		format: format,
		table:  NewSimpleUI(cmd, styled),
		yaml:   NewYAMLUI(cmd),
	}
}

type configuredUI struct {
	format func() Format
	table  UI
	yaml   UI
}

func (c *configuredUI) current() UI {
	if c.format() == FormatYAML {
		return c.yaml
	}

	return c.table
}

func (c *configuredUI) DisplaySignals(ctx context.Context, dump m.Path, signals []m.Signal, stats m.DumpStats) error {
	return c.current().DisplaySignals(ctx, dump, signals, stats)
}

func (c *configuredUI) DisplayHistory(ctx context.Context, path m.SignalPath, history m.Timeline) error {
	return c.current().DisplayHistory(ctx, path, history)
}

func (c *configuredUI) DisplayValue(ctx context.Context, path m.SignalPath, at int64, value string) error {
	return c.current().DisplayValue(ctx, path, at, value)
}

func (c *configuredUI) DisplayRange(ctx context.Context, path m.SignalPath, window RangeQuery, values []string) error {
	return c.current().DisplayRange(ctx, path, window, values)
}

func (c *configuredUI) DisplayBatch(ctx context.Context, report BatchReport) error {
	return c.current().DisplayBatch(ctx, report)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
