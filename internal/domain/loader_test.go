package domain

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "wavedig.dev/pkg/wavedig/internal/adapter/mocks"
	"wavedig.dev/pkg/wavedig/internal/domain/dialects"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

type fakeFileInfo struct {
	size    int64
	modTime time.Time
}

func (f fakeFileInfo) Name() string       { return "dump.vcd" }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() os.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return f.modTime }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() interface{}   { return nil }

func dumpReader(text string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(text))
}

func TestLoader_CachesSuccessfulBuilds(t *testing.T) {
	fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)
	info := fakeFileInfo{size: int64(len(clockDump)), modTime: time.Unix(100, 0)}

	fsAdapter.On("Stat", m.Path("dump.vcd")).Return(info, nil).Twice()
	fsAdapter.On("Open", m.Path("dump.vcd")).Return(dumpReader(clockDump), nil).Once()

	loader := NewLoader(fsAdapter)

	first, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
	require.NoError(t, err)

	second, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestLoader_DialectIsPartOfTheKey(t *testing.T) {
	fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)
	info := fakeFileInfo{size: 1, modTime: time.Unix(100, 0)}

	fsAdapter.On("Stat", m.Path("dump.vcd")).Return(info, nil).Twice()
	fsAdapter.On("Open", m.Path("dump.vcd")).Return(dumpReader(clockDump), nil).Once()
	fsAdapter.On("Open", m.Path("dump.vcd")).Return(dumpReader(clockDump), nil).Once()

	loader := NewLoader(fsAdapter)

	standard, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
	require.NoError(t, err)

	extended, err := loader.Load(context.Background(), "dump.vcd", dialects.Extended)
	require.NoError(t, err)

	assert.NotSame(t, standard, extended)
	assert.Equal(t, "extended", extended.Stats().Dialect)
}

func TestLoader_RebuildsChangedFile(t *testing.T) {
	fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)

	fsAdapter.On("Stat", m.Path("dump.vcd")).Return(fakeFileInfo{size: 1, modTime: time.Unix(100, 0)}, nil).Once()
	fsAdapter.On("Stat", m.Path("dump.vcd")).Return(fakeFileInfo{size: 1, modTime: time.Unix(200, 0)}, nil).Once()
	fsAdapter.On("Open", m.Path("dump.vcd")).Return(dumpReader(clockDump), nil).Once()
	fsAdapter.On("Open", m.Path("dump.vcd")).Return(dumpReader(clockDump), nil).Once()

	loader := NewLoader(fsAdapter)

	first, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
	require.NoError(t, err)

	second, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestLoader_FailuresAreNotCached(t *testing.T) {
	fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)
	info := fakeFileInfo{size: 1, modTime: time.Unix(100, 0)}

	fsAdapter.On("Stat", m.Path("dump.vcd")).Return(info, nil).Twice()
	fsAdapter.On("Open", m.Path("dump.vcd")).Return(dumpReader("$scope module top $end\n"), nil).Once()
	fsAdapter.On("Open", m.Path("dump.vcd")).Return(dumpReader(clockDump), nil).Once()

	loader := NewLoader(fsAdapter)

	_, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
	require.ErrorIs(t, err, ErrMalformedFile)

	engine, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestLoader_StatAndOpenErrors(t *testing.T) {
	t.Run("stat", func(t *testing.T) {
		fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)
		fsAdapter.On("Stat", m.Path("missing.vcd")).Return(nil, os.ErrNotExist).Once()

		_, err := NewLoader(fsAdapter).Load(context.Background(), "missing.vcd", dialects.Standard)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("open", func(t *testing.T) {
		fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)
		fsAdapter.On("Stat", m.Path("dump.vcd")).Return(fakeFileInfo{}, nil).Once()
		fsAdapter.On("Open", m.Path("dump.vcd")).Return(nil, errors.New("permission denied")).Once()

		_, err := NewLoader(fsAdapter).Load(context.Background(), "dump.vcd", dialects.Standard)
		assert.ErrorContains(t, err, "permission denied")
	})
}

func TestLoader_ConcurrentLoadsShareOneBuild(t *testing.T) {
	fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)
	info := fakeFileInfo{size: 1, modTime: time.Unix(100, 0)}

	var opens atomic.Int32

	release := make(chan struct{})

	fsAdapter.On("Stat", m.Path("dump.vcd")).Return(info, nil)
	fsAdapter.On("Open", m.Path("dump.vcd")).
		Run(func(mock.Arguments) {
			opens.Add(1)
			<-release
		}).
		Return(dumpReader(clockDump), nil).
		Once()

	loader := NewLoader(fsAdapter)

	const callers = 8

	engines := make([]*Engine, callers)

	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)

		go func() {
			defer wg.Done()

			engine, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
			assert.NoError(t, err)

			engines[i] = engine
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), opens.Load())

	for _, engine := range engines[1:] {
		assert.Same(t, engines[0], engine)
	}
}

func TestLoader_CanceledWaiterDoesNotFailSharedBuild(t *testing.T) {
	fsAdapter := adaptermocks.NewMockDumpFSAdapter(t)
	info := fakeFileInfo{size: 1, modTime: time.Unix(100, 0)}

	opened := make(chan struct{})
	release := make(chan struct{})

	fsAdapter.On("Stat", m.Path("dump.vcd")).Return(info, nil)
	fsAdapter.On("Open", m.Path("dump.vcd")).
		Run(func(mock.Arguments) {
			close(opened)
			<-release
		}).
		Return(dumpReader(clockDump), nil).
		Once()

	loader := NewLoader(fsAdapter)

	ctx, cancel := context.WithCancel(context.Background())

	firstErr := make(chan error, 1)

	go func() {
		_, err := loader.Load(ctx, "dump.vcd", dialects.Standard)
		firstErr <- err
	}()

	<-opened

	second := make(chan *Engine, 1)

	go func() {
		engine, err := loader.Load(context.Background(), "dump.vcd", dialects.Standard)
		assert.NoError(t, err)

		second <- engine
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)

	engine := <-second
	require.NotNil(t, engine)

	value, err := engine.ValueAt("top/clk", 7)
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}
