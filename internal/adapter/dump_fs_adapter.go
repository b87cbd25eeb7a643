// Package adapter contains infrastructure adapters for the wavedig CLI.
package adapter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// ErrNotRegularFile is returned when a dump path names a directory or device.
var ErrNotRegularFile = errors.New("not a regular file")

// DumpFSAdapter hides filesystem access from the domain layer so loading and
// batch logic can be tested without touching the disk.
type DumpFSAdapter interface {
	// Open returns a reader over the dump at path. The caller closes it.
	Open(path m.Path) (io.ReadCloser, error)

	// Stat returns metadata used to key cached builds.
	Stat(path m.Path) (os.FileInfo, error)

	// ReadSignalList reads one signal path per line. Blank lines and lines
	// starting with '#' are skipped.
	ReadSignalList(path m.Path) ([]m.SignalPath, error)
}

// LocalDumpFSAdapter is the os-backed DumpFSAdapter.
type LocalDumpFSAdapter struct{}

// NewLocalDumpFSAdapter constructs a LocalDumpFSAdapter.
func NewLocalDumpFSAdapter() *LocalDumpFSAdapter {
	return &LocalDumpFSAdapter{}
}

// Open opens a regular file for reading.
func (a *LocalDumpFSAdapter) Open(path m.Path) (io.ReadCloser, error) {
	info, err := a.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("open %s: %w", path, ErrNotRegularFile)
	}

	f, err := os.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return f, nil
}

// Stat returns file info for path.
func (a *LocalDumpFSAdapter) Stat(path m.Path) (os.FileInfo, error) {
	if strings.TrimSpace(string(path)) == "" {
		return nil, fmt.Errorf("stat: %w", os.ErrNotExist)
	}

	info, err := os.Stat(string(path))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return info, nil
}

// ReadSignalList loads a newline-delimited list of signal paths.
func (a *LocalDumpFSAdapter) ReadSignalList(path m.Path) ([]m.SignalPath, error) {
	f, err := a.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseSignalList(f)
}

func parseSignalList(r io.Reader) ([]m.SignalPath, error) {
	var signals []m.SignalPath

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		signals = append(signals, m.SignalPath(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read signal list: %w", err)
	}

	return signals, nil
}
