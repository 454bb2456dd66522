package watch_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtn/internal/watch"
	"github.com/yaklabco/rtn/pkg/editbuffer"
)

const waitFor = 5 * time.Second

func start(t *testing.T, opts watch.Options) (<-chan editbuffer.Snapshot, context.CancelFunc, <-chan error) {
	t.Helper()

	snaps := make(chan editbuffer.Snapshot, 16)
	opts.Draw = func(_ io.Writer, snap editbuffer.Snapshot) error {
		snaps <- snap
		return nil
	}
	if opts.Writer == nil {
		opts.Writer = io.Discard
	}

	watcher, err := watch.New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	t.Cleanup(cancel)

	return snaps, cancel, done
}

func next(t *testing.T, snaps <-chan editbuffer.Snapshot) editbuffer.Snapshot {
	t.Helper()

	select {
	case snap := <-snaps:
		return snap
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for a redraw")
		return editbuffer.Snapshot{}
	}
}

func TestWatcher_RedrawsOnWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\n\tB"), 0o600))

	snaps, cancel, done := start(t, watch.Options{Path: path, Debounce: 20 * time.Millisecond})

	first := next(t, snaps)
	assert.Equal(t, "A\n└── B", first.Rendered)

	require.NoError(t, os.WriteFile(path, []byte("A\n\tB\n\tC"), 0o600))

	second := next(t, snaps)
	assert.Equal(t, "A\n├── B\n└── C", second.Rendered)
	assert.Greater(t, second.Version, first.Version)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_SurvivesRenameSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A"), 0o600))

	snaps, _, _ := start(t, watch.Options{Path: path, Debounce: 20 * time.Millisecond})
	next(t, snaps)

	tmp := filepath.Join(dir, "notes.txt.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("A\n\tsee RTN/[0]/"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	snap := next(t, snaps)
	assert.Equal(t, "A\n└── see RTN/[0]/", snap.Rendered)
	require.Len(t, snap.Links, 1)
	assert.True(t, snap.Links[0].Valid)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A"), 0o600))

	snaps, _, _ := start(t, watch.Options{Path: path, Debounce: 10 * time.Millisecond})
	next(t, snaps)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("B\n"), 0o600))

	select {
	case snap := <-snaps:
		t.Fatalf("unexpected redraw: %q", snap.Rendered)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_MissingFile(t *testing.T) {
	t.Parallel()

	watcher, err := watch.New(watch.Options{Path: filepath.Join(t.TempDir(), "missing.txt"), Writer: io.Discard})
	require.NoError(t, err)
	require.ErrorIs(t, watcher.Run(context.Background()), os.ErrNotExist)
}

func TestNew_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := watch.New(watch.Options{})
	require.Error(t, err)
}

// syncBuffer guards a bytes.Buffer shared with the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatcher_DefaultDrawAndClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\n\tB"), 0o600))

	out := &syncBuffer{}
	watcher, err := watch.New(watch.Options{Path: path, Writer: out, Clear: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	require.Eventually(t, func() bool {
		return out.String() == "\x1b[H\x1b[2JA\n└── B\n"
	}, waitFor, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, "A\n\tB", watcher.Buffer().Snapshot().Raw)
}
