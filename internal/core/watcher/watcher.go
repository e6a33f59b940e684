package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

// Sink receives the path of a file that has settled after a create or write.
type Sink func(path string)

// FolderWatcher hands new outline files in a directory to a Sink.
//
// accept:   filename filter, usually ingestion_engine.SupportedOutline.
// debounce: quiet period after the last write before a file is handed off.
type FolderWatcher struct {
	watcher  *fsnotify.Watcher
	accept   func(name string) bool
	sink     Sink
	debounce time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func New(accept func(string) bool, sink Sink, debounce time.Duration, log *logger.Logger) (*FolderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FolderWatcher{
		watcher:  w,
		accept:   accept,
		sink:     sink,
		debounce: debounce,
		log:      log,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir. It returns once the directory is registered;
// events are processed in the background until ctx is cancelled.
func (w *FolderWatcher) Watch(ctx context.Context, dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info("watching folder for outlines", "dir", dir)

	go func() {
		defer w.stopPending()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if w.accept != nil && !w.accept(event.Name) {
					continue
				}
				w.schedule(event.Name)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watcher error", "error", err)
			}
		}
	}()
	return nil
}

// schedule restarts the quiet-period timer for path.
func (w *FolderWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.log.Debug("outline settled", "path", path)
		w.sink(path)
	})
}

func (w *FolderWatcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, t := range w.pending {
		t.Stop()
		delete(w.pending, p)
	}
}

func (w *FolderWatcher) Close() error {
	return w.watcher.Close()
}
