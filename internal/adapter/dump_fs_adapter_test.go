package adapter

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

func TestLocalDumpFSAdapter_Open(t *testing.T) {
	t.Run("reads regular file", func(t *testing.T) {
		adapter := NewLocalDumpFSAdapter()
		path := filepath.Join(t.TempDir(), "dump.vcd")
		writeTestFile(t, path, "$enddefinitions $end\n#0\n")

		rc, err := adapter.Open(m.Path(path))
		require.NoError(t, err)

		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "$enddefinitions $end\n#0\n", string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		adapter := NewLocalDumpFSAdapter()

		_, err := adapter.Open(m.Path(filepath.Join(t.TempDir(), "missing.vcd")))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty path", func(t *testing.T) {
		adapter := NewLocalDumpFSAdapter()

		_, err := adapter.Open("")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory is rejected", func(t *testing.T) {
		adapter := NewLocalDumpFSAdapter()

		_, err := adapter.Open(m.Path(t.TempDir()))
		assert.ErrorIs(t, err, ErrNotRegularFile)
	})
}

func TestLocalDumpFSAdapter_ReadSignalList(t *testing.T) {
	adapter := NewLocalDumpFSAdapter()
	path := filepath.Join(t.TempDir(), "signals.txt")
	writeTestFile(t, path, "# clocks\ntop/clk\n\n  top/cpu/data  \r\n#top/skipped\n")

	signals, err := adapter.ReadSignalList(m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, []m.SignalPath{"top/clk", "top/cpu/data"}, signals)
}

func TestLocalDumpFSAdapter_ReadSignalListEmpty(t *testing.T) {
	adapter := NewLocalDumpFSAdapter()
	path := filepath.Join(t.TempDir(), "signals.txt")
	writeTestFile(t, path, "\n# nothing\n")

	signals, err := adapter.ReadSignalList(m.Path(path))
	require.NoError(t, err)
	assert.Empty(t, signals)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
