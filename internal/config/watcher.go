package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textcmd/internal/logging"
)

// ReloadFunc receives a freshly loaded, validated configuration.
type ReloadFunc func(*Config)

// Watcher reloads a configuration file when it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename-and-replace keep triggering reloads.
type Watcher struct {
	path     string
	onReload ReloadFunc
	onError  func(error)
	debounce time.Duration
	logger   *logging.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long to wait after the last event before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives reload and watch errors. The default logs them.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher for path. onReload is called with every
// successfully reloaded configuration.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		onReload: onReload,
		debounce: 100 * time.Millisecond,
		logger:   logging.Null(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config")
	if w.onError == nil {
		w.onError = func(err error) {
			w.logger.Warn("config reload: %v", err)
		}
	}
	return w
}

// Run watches until ctx is cancelled. It returns ctx.Err() on cancellation
// or an error if the watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}
	w.logger.Debug("watching %s", absPath)

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			reload = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)

		case <-reload:
			reload = nil
			cfg, err := Load(absPath)
			if err != nil {
				w.onError(err)
				continue
			}
			w.logger.Info("reloaded %s", absPath)
			w.onReload(cfg)
		}
	}
}
