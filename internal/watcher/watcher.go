// Package watcher submits image files as they appear in a directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/ocrsnap/internal/logger"
)

// Handler processes one settled file. Errors are counted and logged; they
// never stop the watcher.
type Handler func(ctx context.Context, path string) error

// Config configures a Watcher
type Config struct {
	// Extensions limits which files are picked up, e.g. ".png". Empty accepts all.
	Extensions []string

	// Debounce is how long a file must go without writes before it is handled
	Debounce time.Duration

	// Recursive also watches subdirectories, including ones created later
	Recursive bool
}

// Watcher watches a directory and hands new image files to a Handler one at
// a time.
type Watcher struct {
	dir     string
	config  Config
	handler Handler
	fsw     *fsnotify.Watcher
	log     *logger.Logger
	stats   *Stats

	// pending maps a path to the time of its last write
	pending map[string]time.Time
}

// Option customizes a Watcher
type Option func(*Watcher)

// WithLogger sets the watcher logger
func WithLogger(l *logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l.WithComponent("watcher")
		}
	}
}

// New creates a watcher on dir. Call Close when done, or let Run close it.
func New(dir string, config Config, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		dir:     dir,
		config:  config,
		handler: handler,
		fsw:     fsw,
		log:     logger.Nop(),
		stats:   newStats(),
		pending: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addDir(dir); err != nil {
		w.Close()
		return nil, err
	}

	return w, nil
}

// Stats returns the watcher counters
func (w *Watcher) Stats() *Stats {
	return w.stats
}

// Close stops watching
func (w *Watcher) Close() {
	if err := w.fsw.Close(); err != nil {
		w.log.Warn("failed to close watcher", logger.Error(err))
	}
}

// addDir watches dir and, when recursive, its subdirectories
func (w *Watcher) addDir(dir string) error {
	if !w.config.Recursive {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.log.Debug("watching directory", logger.F("dir", path))
		return nil
	})
}

// Run watches until ctx is cancelled, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	ticker := time.NewTicker(w.pollInterval())
	defer ticker.Stop()

	w.log.Info("watching", logger.F("dir", w.dir), logger.F("debounce", w.config.Debounce))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error", logger.Error(err))

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

// pollInterval is how often settled files are checked for
func (w *Watcher) pollInterval() time.Duration {
	interval := w.config.Debounce / 2
	if interval < 20*time.Millisecond {
		interval = 20 * time.Millisecond
	}
	return interval
}

// handleEvent records writes and drops files that went away
func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		if event.Has(fsnotify.Create) && w.config.Recursive && isDir(event.Name) {
			if err := w.addDir(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", logger.F("dir", event.Name), logger.Error(err))
			}
			return
		}
		if !w.Matches(event.Name) {
			return
		}
		if _, known := w.pending[event.Name]; !known {
			w.stats.recordSeen()
			w.log.Debug("file detected", logger.F("path", event.Name))
		}
		w.pending[event.Name] = time.Now()

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if _, known := w.pending[event.Name]; known {
			delete(w.pending, event.Name)
			w.stats.recordSkipped()
		}
	}
}

// flush hands every settled file to the handler, oldest first
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.config.Debounce {
			ready = append(ready, path)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		return w.pending[ready[i]].Before(w.pending[ready[j]])
	})

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		delete(w.pending, path)

		start := time.Now()
		err := w.handler(ctx, path)
		elapsed := time.Since(start)
		w.stats.record(elapsed, err)

		if err != nil {
			w.log.Warn("failed to process file", logger.F("path", path), logger.Error(err))
			continue
		}
		w.log.Debug("file processed", logger.F("path", path), logger.Duration(elapsed))
	}
}

// Matches reports whether path has one of the configured extensions
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if len(w.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range w.config.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
