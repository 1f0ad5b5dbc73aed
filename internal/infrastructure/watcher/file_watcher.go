package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"ProjectCatalog/internal/ports"
)

const defaultSettle = 250 * time.Millisecond

// FileWatcher fires a job after a file is written or replaced.
// Bursts of events within the settle window collapse into one run.
type FileWatcher struct {
	path   string
	settle time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	stop    chan struct{}
	done    chan struct{}
}

var _ ports.Watcher = (*FileWatcher)(nil)

// NewFileWatcher watches path; settle <= 0 uses the default window.
func NewFileWatcher(path string, settle time.Duration, logger *slog.Logger) *FileWatcher {
	if settle <= 0 {
		settle = defaultSettle
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileWatcher{path: filepath.Clean(path), settle: settle, logger: logger}
}

// Start begins watching. The parent directory is watched so editors that replace the
// file by rename are still seen.
func (w *FileWatcher) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.watcher = fw
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(ctx, fw, w.stop, w.done, job)
	return nil
}

func (w *FileWatcher) loop(ctx context.Context, fw *fsnotify.Watcher, stop, done chan struct{}, job func(time.Time)) {
	defer close(done)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			pending = time.Now()
			if timer == nil {
				timer = time.NewTimer(w.settle)
			} else {
				timer.Reset(w.settle)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			job(pending)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		case <-ctx.Done():
			return
		case <-stop:
			return
		}
	}
}

// Stop halts the watch loop and waits for it to exit.
func (w *FileWatcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	if w.stop == nil {
		w.mu.Unlock()
		return nil
	}
	close(w.stop)
	fw, done := w.watcher, w.done
	w.stop, w.watcher, w.done = nil, nil, nil
	w.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return fw.Close()
}
