package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers a run.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc handles a settled change of one watched file.
type ChangeFunc func(ctx context.Context, path string) error

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce sets the quiet period between the last event and the run.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// Watcher calls a ChangeFunc whenever one of its files is written.
//
// Parent directories are watched rather than the files themselves, so
// editors that save by rename keep triggering runs.
type Watcher struct {
	onChange ChangeFunc
	logger   *slog.Logger
	delay    time.Duration
	files    map[string]struct{}
	cache    *cache

	mu         sync.RWMutex
	active     bool
	runs       int
	unchanged  int
	lastChange *time.Time
}

// NewWatcher creates a Watcher over paths.
func NewWatcher(paths []string, onChange ChangeFunc, opts ...WatchOption) *Watcher {
	w := &Watcher{
		onChange: onChange,
		logger:   slog.New(slog.DiscardHandler),
		delay:    DefaultDebounce,
		files:    make(map[string]struct{}, len(paths)),
		cache:    newCache(),
	}
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		w.files[filepath.Clean(p)] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) (err error) {
	if len(w.files) == 0 {
		return errors.New("nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]struct{}{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for f := range w.files {
		if err := w.cache.seed(f); err != nil {
			w.logger.Warn("failed to fingerprint", "path", f, "error", err)
		}
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", err)
			}
		}
	}()

	w.setActive(true)
	defer w.setActive(false)

	d := newDebouncer(w.delay)
	defer d.stopAndWait(5 * time.Second)

	w.logger.Info("watching for changes", "files", len(w.files))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			path, tracked := w.match(event)
			if !tracked {
				continue
			}
			w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			d.add(path, func() { w.dispatch(ctx, path) })

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (w *Watcher) match(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	path := filepath.Clean(event.Name)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	_, ok := w.files[path]
	return path, ok
}

// dispatch runs the change handler on a supervised goroutine, unless the
// file content is the same as on the previous run.
func (w *Watcher) dispatch(ctx context.Context, path string) {
	if !w.cache.changed(path) {
		w.recordUnchanged()
		w.logger.Debug("content unchanged, skipping", "path", path)
		return
	}
	w.recordChange()
	lifecycle.Go(ctx, func(ctx context.Context) error {
		if err := w.onChange(ctx, path); err != nil {
			// Retry on the next save even if the bytes match.
			w.cache.forget(path)
			w.logger.Error("change handler failed", "path", path, "error", err)
			return err
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("change handler panic", "path", path, "error", err)
	}))
}
