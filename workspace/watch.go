package workspace

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeOp is the kind of change a watcher applied.
type ChangeOp int

const (
	// Reloaded means a tracked file was written and its buffer reloaded.
	Reloaded ChangeOp = iota

	// Renamed means a tracked file moved and its buffer followed.
	Renamed

	// Removed means a tracked file disappeared. Its buffer keeps the last
	// loaded text.
	Removed
)

// String returns the string representation of the operation.
func (op ChangeOp) String() string {
	switch op {
	case Reloaded:
		return "reloaded"
	case Renamed:
		return "renamed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes a change applied to a tracked buffer.
type Change struct {
	Op      ChangeOp
	Path    string
	OldPath string // set for Renamed
}

// ChangeHandler is called from the watcher goroutine after each change.
type ChangeHandler func(Change)

// Watcher applies file system events to a workspace.
type Watcher struct {
	ws      *Workspace
	fsw     *fsnotify.Watcher
	handler ChangeHandler

	// written holds tracked files with writes not yet reloaded. vanished
	// holds tracked files that were renamed away or removed, waiting for a
	// matching create.
	written  map[string]time.Time
	vanished map[string]*vanishedFile

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Watch starts watching the directories of all tracked files. Events are
// processed on a separate goroutine until ctx is canceled or Close is
// called.
func (w *Workspace) Watch(ctx context.Context, handler ChangeHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range w.dirs() {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	wt := &Watcher{
		ws:       w,
		fsw:      fsw,
		handler:  handler,
		written:  map[string]time.Time{},
		vanished: map[string]*vanishedFile{},
		done:     make(chan struct{}),
	}
	wt.wg.Add(1)
	go wt.loop(ctx)
	return wt, nil
}

// Close stops the watcher and waits for the event goroutine to exit.
func (wt *Watcher) Close() error {
	var err error
	wt.stopOnce.Do(func() {
		close(wt.done)
		err = wt.fsw.Close()
	})
	wt.wg.Wait()
	return err
}

func (wt *Watcher) loop(ctx context.Context) {
	defer wt.wg.Done()

	ticker := time.NewTicker(wt.ws.opts.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-wt.done:
			return
		case <-ticker.C:
			now := time.Now()
			wt.flush(now)
			wt.expire(now)
		case event, ok := <-wt.fsw.Events:
			if !ok {
				return
			}
			wt.handle(event)
		case err, ok := <-wt.fsw.Errors:
			if !ok {
				return
			}
			wt.ws.opts.logger.Warn("watch error", "error", err)
		}
	}
}

// vanishedFile is a tracked file that disappeared. movedTo names a new file
// with the same content; the buffer follows it only if the original path
// stays gone for the debounce interval, so a save that moves the old file
// to a backup and writes a fresh one keeps the buffer on the original path.
type vanishedFile struct {
	at      time.Time
	movedTo string
}

func (wt *Watcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	switch {
	case event.Has(fsnotify.Create) && wt.ws.tracked(path):
		delete(wt.vanished, path)
		wt.written[path] = time.Now()
	case event.Has(fsnotify.Create):
		if old, ok := wt.match(path); ok {
			wt.vanished[old].movedTo = path
		}
	case event.Has(fsnotify.Write) && wt.ws.tracked(path):
		wt.written[path] = time.Now()
	case (event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) && wt.ws.tracked(path):
		delete(wt.written, path)
		wt.vanished[path] = &vanishedFile{at: time.Now()}
	case event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove):
		for _, v := range wt.vanished {
			if v.movedTo == path {
				v.movedTo = ""
			}
		}
	}
}

// match finds a vanished file without a rename target whose buffer holds
// exactly the content now found at path.
func (wt *Watcher) match(path string) (string, bool) {
	if len(wt.vanished) == 0 {
		return "", false
	}
	data, err := wt.ws.opts.fs.ReadFile(path)
	if err != nil {
		return "", false
	}
	for old, v := range wt.vanished {
		if v.movedTo != "" {
			continue
		}
		b, err := wt.ws.Buffer(old)
		if err == nil && b.Text() == string(data) {
			return old, true
		}
	}
	return "", false
}

func (wt *Watcher) reload(path string) {
	if err := wt.ws.Reload(path); err != nil {
		wt.ws.opts.logger.Warn("reload failed", "path", path, "error", err)
		return
	}
	wt.notify(Change{Op: Reloaded, Path: path})
}

// flush reloads files whose last write settled for the debounce interval.
func (wt *Watcher) flush(now time.Time) {
	for path, at := range wt.written {
		if now.Sub(at) < wt.ws.opts.debounce {
			continue
		}
		delete(wt.written, path)
		wt.reload(path)
	}
}

// expire settles vanished files that did not reappear in time: those with
// a rename target are moved there, the rest are reported as removed.
func (wt *Watcher) expire(now time.Time) {
	log := wt.ws.opts.logger
	for path, v := range wt.vanished {
		if now.Sub(v.at) < wt.ws.opts.debounce {
			continue
		}
		delete(wt.vanished, path)

		if v.movedTo != "" {
			if err := wt.ws.Rename(path, v.movedTo); err != nil {
				log.Warn("rename failed", "old_path", path, "new_path", v.movedTo, "error", err)
				continue
			}
			wt.notify(Change{Op: Renamed, Path: v.movedTo, OldPath: path})
			continue
		}
		log.Info("file removed", "path", path)
		wt.notify(Change{Op: Removed, Path: path})
	}
}

func (wt *Watcher) notify(c Change) {
	if wt.handler != nil {
		wt.handler(c)
	}
}
