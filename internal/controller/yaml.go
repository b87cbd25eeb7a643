package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// YAMLUI implements UI by writing one YAML document per call.
type YAMLUI struct {
	cmd *cobra.Command
}

// NewYAMLUI creates a new YAMLUI.
func NewYAMLUI(cmd *cobra.Command) *YAMLUI {
	return &YAMLUI{cmd: cmd}
}

type signalDoc struct {
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Width  int    `yaml:"width"`
	Code   string `yaml:"code"`
	Select string `yaml:"select,omitempty"`
}

type signalsDoc struct {
	Dump    string      `yaml:"dump"`
	Stats   m.DumpStats `yaml:"stats"`
	Signals []signalDoc `yaml:"signals"`
}

type historyDoc struct {
	Signal  string     `yaml:"signal"`
	History m.Timeline `yaml:"history"`
}

type valueDoc struct {
	Signal string `yaml:"signal"`
	At     int64  `yaml:"at"`
	Value  string `yaml:"value"`
}

type rangeDoc struct {
	Signal  string   `yaml:"signal"`
	Start   int64    `yaml:"start"`
	End     int64    `yaml:"end"`
	Lenient bool     `yaml:"lenient,omitempty"`
	Values  []string `yaml:"values"`
}

type batchEntryDoc struct {
	Signal  string     `yaml:"signal"`
	History m.Timeline `yaml:"history,omitempty"`
	Value   string     `yaml:"value,omitempty"`
	Values  []string   `yaml:"values,omitempty"`
	Error   string     `yaml:"error,omitempty"`
}

type batchDoc struct {
	ID      string          `yaml:"id"`
	Op      m.QueryOp       `yaml:"op"`
	Failed  int             `yaml:"failed"`
	Results []batchEntryDoc `yaml:"results"`
}

// DisplaySignals writes the signal list with build statistics.
func (y *YAMLUI) DisplaySignals(ctx context.Context, dump m.Path, signals []m.Signal, stats m.DumpStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := signalsDoc{Dump: string(dump), Stats: stats, Signals: make([]signalDoc, 0, len(signals))}
	for _, signal := range signals {
		doc.Signals = append(doc.Signals, signalDoc{
			Path:   string(signal.Path),
			Kind:   signal.Variable.Kind,
			Width:  signal.Variable.Width,
			Code:   signal.Variable.Code,
			Select: signal.Variable.Select,
		})
	}

	return y.encode(doc)
}

// DisplayHistory writes the full timeline.
func (y *YAMLUI) DisplayHistory(ctx context.Context, path m.SignalPath, history m.Timeline) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if history == nil {
		history = m.Timeline{}
	}

	return y.encode(historyDoc{Signal: string(path), History: history})
}

// DisplayValue writes a single value.
func (y *YAMLUI) DisplayValue(ctx context.Context, path m.SignalPath, at int64, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return y.encode(valueDoc{Signal: string(path), At: at, Value: value})
}

// DisplayRange writes the distinct values of a window.
func (y *YAMLUI) DisplayRange(ctx context.Context, path m.SignalPath, window RangeQuery, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if values == nil {
		values = []string{}
	}

	return y.encode(rangeDoc{
		Signal:  string(path),
		Start:   window.Start,
		End:     window.End,
		Lenient: window.Lenient,
		Values:  values,
	})
}

// DisplayBatch writes every result in input order.
func (y *YAMLUI) DisplayBatch(ctx context.Context, report BatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := batchDoc{
		ID:      report.ID,
		Op:      report.Op,
		Failed:  report.Failed(),
		Results: make([]batchEntryDoc, 0, len(report.Results)),
	}

	for _, result := range report.Results {
		entry := batchEntryDoc{Signal: string(result.Path)}

		if result.Err != nil {
			entry.Error = result.Err.Error()
		} else {
			entry.History = result.History
			entry.Value = result.Value
			entry.Values = result.Values
		}

		doc.Results = append(doc.Results, entry)
	}

	return y.encode(doc)
}

func (y *YAMLUI) encode(doc interface{}) error {
	encoder := yaml.NewEncoder(y.cmd.OutOrStdout())
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return encoder.Close()
}
