// Package watcher re-ingests the roll file when it changes on disk.
package watcher

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must be quiet before a reload
const DefaultDebounce = 500 * time.Millisecond

// ErrBusy is returned by a ChangeFunc that cannot handle the change yet.
// The watcher retries after another quiet period.
var ErrBusy = errors.New("change handler busy")

// ChangeFunc is called with the watched path once changes settle
type ChangeFunc func(ctx context.Context, path string) error

// Watcher watches the roll file for changes
type Watcher struct {
	path     string
	onChange ChangeFunc
	debounce time.Duration
}

// New creates a new file watcher
func New(path string, onChange ChangeFunc) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: DefaultDebounce,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Watch starts watching the file for changes.
// It blocks until the context is cancelled or the watcher fails to start.
// onChange runs on the watching goroutine, so calls never overlap.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the file
	// This handles cases where the file is replaced (e.g., by editors)
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := watcher.Add(dir); err != nil {
		return err
	}

	log.Printf("Watching %s for changes", w.path)

	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Check if this event is for our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// Restart the quiet period on every write or create
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounceTimer.Reset(w.debounce)
			}

		case <-debounceTimer.C:
			log.Printf("File changed: %s", w.path)
			err := w.onChange(ctx, w.path)
			switch {
			case errors.Is(err, ErrBusy):
				log.Printf("Reload of %s busy, retrying in %s", w.path, w.debounce)
				debounceTimer.Reset(w.debounce)
			case err != nil:
				log.Printf("Failed to reload %s: %v", w.path, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
