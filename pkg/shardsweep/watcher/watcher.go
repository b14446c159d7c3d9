// Package watcher reports changes to a single configuration file.
//
// The parent directory is watched rather than the file itself, since most
// editors save by writing a temporary file and renaming it into place,
// which drops a watch on the original inode.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/logging"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by Run when the watcher was closed.
var ErrClosed = errors.New("watcher closed")

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher watches one file for changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration

	mu     sync.Mutex
	closed bool
}

// New creates a watcher for path. The file need not exist yet, but its
// parent directory must.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		watcher:  fsw,
		target:   abs,
		debounce: debounce,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.target
}

// Run blocks until ctx is cancelled or the watcher is closed, calling
// onChange once per settled burst of changes to the file.
// It returns ctx.Err() on cancellation and ErrClosed after Close.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	log := logging.Get("watcher")

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug("config event", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if onChange != nil {
				onChange(w.target)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}
			log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&relevantOps == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.target
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
