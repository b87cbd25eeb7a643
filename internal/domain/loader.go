package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"wavedig.dev/pkg/wavedig/internal/adapter"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

// Loader builds Engines from dump files.
type Loader interface {
	// Load returns the Engine for the dump at path parsed with dialect.
	// Repeated loads of an unchanged file return the same Engine.
	Load(ctx context.Context, path m.Path, dialect m.Dialect) (*Engine, error)
}

type loader struct {
	adapter.DumpFSAdapter

	flight  singleflight.Group
	mu      sync.Mutex
	engines map[string]*Engine
}

// NewLoader creates a Loader reading dumps through fsAdapter.
func NewLoader(fsAdapter adapter.DumpFSAdapter) Loader {
	return &loader{
		DumpFSAdapter: fsAdapter,
		engines:       map[string]*Engine{},
	}
}

// Load deduplicates concurrent builds of the same file with singleflight.
// Only successful builds are kept; a failed build is retried on the next call.
// A caller whose ctx ends returns early without failing the other waiters.
func (l *loader) Load(ctx context.Context, path m.Path, dialect m.Dialect) (*Engine, error) {
	key, err := l.cacheKey(path, dialect)
	if err != nil {
		return nil, err
	}

	if engine, ok := l.cached(key); ok {
		recordCacheLookup(ctx, true)
		slog.Debug("Using cached dump index", "path", path, "dialect", dialect.Name)

		return engine, nil
	}

	recordCacheLookup(ctx, false)

	// The shared build ignores the first caller's cancellation; each caller
	// stops waiting when its own ctx is done.
	buildCtx := context.WithoutCancel(ctx)

	ch := l.flight.DoChan(key, func() (interface{}, error) {
		if engine, ok := l.cached(key); ok {
			return engine, nil
		}

		return l.build(buildCtx, key, path, dialect)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w", path, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		if res.Shared {
			slog.Debug("Shared concurrent dump build", "path", path, "dialect", dialect.Name)
		}

		return res.Val.(*Engine), nil
	}
}

// cacheKey includes size and modification time so a rewritten dump is rebuilt.
func (l *loader) cacheKey(path m.Path, dialect m.Dialect) (string, error) {
	info, err := l.Stat(path)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}

	return fmt.Sprintf("%s|%s|%d|%d", path, dialect.Name, info.Size(), info.ModTime().UnixNano()), nil
}

func (l *loader) cached(key string) (*Engine, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	engine, ok := l.engines[key]

	return engine, ok
}

func (l *loader) build(ctx context.Context, key string, path m.Path, dialect m.Dialect) (*Engine, error) {
	rc, err := l.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer rc.Close()

	engine, err := Build(ctx, rc, dialect)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.mu.Lock()
	l.engines[key] = engine
	l.mu.Unlock()

	return engine, nil
}
