// Package watch re-renders an outline file every time it changes on disk.
//
// A Watcher owns an editbuffer.Buffer seeded with the file contents. Write,
// create and rename events for the file are debounced; when the file has been
// quiet for the debounce interval it is read again and pushed through the
// buffer as one SetText edit, and the new snapshot is drawn.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/editbuffer"
	"github.com/yaklabco/rtn/pkg/fsutil"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 150 * time.Millisecond

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// DrawFunc writes one snapshot to w.
type DrawFunc func(w io.Writer, snap editbuffer.Snapshot) error

// Options configures a Watcher.
type Options struct {
	// Path is the outline file to watch. It must exist when Run starts.
	Path string

	// Debounce is how long the file must stay quiet before it is reloaded.
	Debounce time.Duration

	// Buffer configures rendering and link resolution.
	Buffer editbuffer.Options

	// Writer receives the drawn snapshots. Defaults to os.Stdout.
	Writer io.Writer

	// Draw renders a snapshot. Defaults to writing Snapshot.Rendered.
	Draw DrawFunc

	// Clear erases the screen before every redraw. Set it only when Writer
	// is a terminal.
	Clear bool
}

// Watcher follows one file.
type Watcher struct {
	opts   Options
	path   string
	buffer *editbuffer.Buffer
}

// New creates a Watcher. The file is not read until Run.
func New(opts Options) (*Watcher, error) {
	if opts.Path == "" {
		return nil, errors.New("watch: no path")
	}
	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Draw == nil {
		opts.Draw = DrawRendered
	}
	return &Watcher{opts: opts, path: filepath.Clean(abs)}, nil
}

// DrawRendered writes the rendered diagram followed by a newline.
func DrawRendered(w io.Writer, snap editbuffer.Snapshot) error {
	if snap.Rendered == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, snap.Rendered)
	return err
}

// Buffer returns the buffer behind the watcher. It is nil before Run.
func (w *Watcher) Buffer() *editbuffer.Buffer {
	return w.buffer
}

// Run draws the file, then redraws it after every settled change until ctx
// is done. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	ctx = logging.WithFields(ctx, logging.FieldPath, w.path)
	logger := logging.FromContext(ctx)

	content, _, err := fsutil.ReadFile(ctx, w.path)
	if err != nil {
		return err
	}
	w.buffer = editbuffer.New(string(content), w.opts.Buffer)

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	// Editors often save by renaming a new file over the old one, which
	// drops a watch on the file itself. Watching the directory survives it.
	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	logger.Debug("watching", logging.FieldDebounce, w.opts.Debounce)

	if err := w.draw(w.buffer.Snapshot()); err != nil {
		return err
	}

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("file event", logging.FieldEvent, event.Op.String())
			timer.Reset(w.opts.Debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", logging.FieldError, err)

		case <-timer.C:
			if err := w.reload(ctx); err != nil {
				return err
			}
		}
	}
}

// reload reads the file again and redraws it if the text changed. A file
// that is missing between a rename and the following create is skipped.
func (w *Watcher) reload(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	content, _, err := fsutil.ReadFile(ctx, w.path)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("file vanished; waiting for it to return")
			return nil
		}
		return err
	}

	previous := w.buffer.Snapshot()
	snap, err := w.buffer.Apply(ctx, editbuffer.SetText(string(content)))
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("apply change: %w", err)
	}
	if snap.Raw == previous.Raw {
		return nil
	}

	logger.Debug("redraw",
		logging.FieldLines, len(snap.Grid.Rows),
		logging.FieldDefects, len(snap.Grid.Defects),
		logging.FieldLinks, len(snap.Links),
	)
	return w.draw(snap)
}

func (w *Watcher) draw(snap editbuffer.Snapshot) error {
	if w.opts.Clear {
		if _, err := io.WriteString(w.opts.Writer, clearScreen); err != nil {
			return fmt.Errorf("clear screen: %w", err)
		}
	}
	if err := w.opts.Draw(w.opts.Writer, snap); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}
