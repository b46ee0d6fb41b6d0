// Package workspace keeps file-backed text buffers in step with the disk.
//
// A Workspace loads a set of files into buffer.Buffers and, while watched,
// reloads them when they are written and follows them when they are
// renamed. The buffers can be handed to a multibuffer.MultiBuffer, which
// picks the changes up on its next sync.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/multibuffer/buffer"
	"github.com/hupe1980/multibuffer/internal/fs"
)

var (
	// ErrUnknownPath is returned for a path the workspace does not track.
	ErrUnknownPath = errors.New("workspace: unknown path")

	// ErrPathInUse is returned when renaming onto a tracked path.
	ErrPathInUse = errors.New("workspace: path already tracked")
)

type options struct {
	logger      *slog.Logger
	debounce    time.Duration
	concurrency int
	fs          fs.FileSystem
}

// Option configures a Workspace.
type Option func(*options)

// WithLogger sets the logger. Pass nil to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		o.logger = logger
	}
}

// WithDebounce sets how long writes to a file must settle before it is
// reloaded, and how long a vanished file may take to reappear under a new
// name before it counts as removed rather than renamed.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithConcurrency limits the number of files read in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// Workspace is a registry of file-backed buffers keyed by path. It is safe
// for concurrent use.
type Workspace struct {
	opts options

	mu      sync.RWMutex
	buffers map[string]*buffer.Buffer
}

// Open loads every file in paths. Duplicate paths share one buffer.
func Open(ctx context.Context, paths []string, optFns ...Option) (*Workspace, error) {
	o := options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce:    100 * time.Millisecond,
		concurrency: 16,
		fs:          fs.Default,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	unique := make([]string, 0, len(paths))
	for _, p := range paths {
		unique = append(unique, filepath.Clean(p))
	}
	slices.Sort(unique)
	unique = slices.Compact(unique)

	texts := make([]string, len(unique))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, o.concurrency))
	for i, p := range unique {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := o.fs.ReadFile(p)
			if err != nil {
				return fmt.Errorf("workspace: load %s: %w", p, err)
			}
			texts[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w := &Workspace{
		opts:    o,
		buffers: make(map[string]*buffer.Buffer, len(unique)),
	}
	for i, p := range unique {
		w.buffers[p] = buffer.New(texts[i], buffer.WithPath(p))
		o.logger.Debug("file loaded", "path", p, "bytes", len(texts[i]))
	}
	return w, nil
}

// Buffer returns the buffer tracking path.
func (w *Workspace) Buffer(path string) (*buffer.Buffer, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, ok := w.buffers[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	return b, nil
}

// Paths returns the tracked paths in order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Sorted(maps.Keys(w.buffers))
}

// Reload reads path from disk into its buffer. Only the changed regions are
// recorded as edits.
func (w *Workspace) Reload(path string) error {
	b, err := w.Buffer(path)
	if err != nil {
		return err
	}
	data, err := w.opts.fs.ReadFile(b.Path())
	if err != nil {
		return fmt.Errorf("workspace: reload %s: %w", path, err)
	}

	before := b.Snapshot().Version()
	b.SetText(string(data))
	if b.Snapshot().Version() != before {
		w.opts.logger.Debug("file reloaded", "path", b.Path(), "bytes", len(data))
	}
	return nil
}

// Rename moves the buffer tracking oldPath to newPath.
func (w *Workspace) Rename(oldPath, newPath string) error {
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)

	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.buffers[oldPath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPath, oldPath)
	}
	if oldPath == newPath {
		return nil
	}
	if _, ok := w.buffers[newPath]; ok {
		return fmt.Errorf("%w: %s", ErrPathInUse, newPath)
	}

	delete(w.buffers, oldPath)
	w.buffers[newPath] = b
	b.SetPath(newPath)
	w.opts.logger.Info("file renamed", "old_path", oldPath, "new_path", newPath)
	return nil
}

// tracked reports whether path names a tracked buffer.
func (w *Workspace) tracked(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.buffers[path]
	return ok
}

// dirs returns the directories holding tracked files.
func (w *Workspace) dirs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	dirs := make([]string, 0, len(w.buffers))
	for p := range w.buffers {
		dirs = append(dirs, filepath.Dir(p))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}
