package fs

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deckforge/deckstore/internal/ports"
)

// defaultDebounceDelay coalesces the burst of fsnotify events a single
// atomic rename produces into one notification.
const defaultDebounceDelay = 100 * time.Millisecond

// StoreWatcher watches the local deck document for writes made outside this
// process (another window or tool editing the same store) and invokes a
// callback so listings can be refreshed. Own writes also trigger it; callers
// treat the notification as a cache invalidation hint, not a diff.
type StoreWatcher struct {
	path     string
	onChange func()
	logger   ports.Logger
	debounce time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	timer  *time.Timer
}

// NewStoreWatcher creates a watcher for the given deck document path.
func NewStoreWatcher(path string, onChange func(), logger ports.Logger) *StoreWatcher {
	return &StoreWatcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
		debounce: defaultDebounceDelay,
	}
}

// Start begins watching in a background goroutine. The watch is on the
// parent directory because atomic rename replaces the file node itself.
func (w *StoreWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer watcher.Close()
		w.run(runCtx, watcher)
	}()

	w.logger.Debug("store watcher started", ports.String("path", w.path))
	return nil
}

// Stop ends the watch and waits for the background goroutine to exit.
func (w *StoreWatcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *StoreWatcher) run(ctx context.Context, watcher *fsnotify.Watcher) {
	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleNotify()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("store watcher error", ports.Err(err))
		}
	}
}

// scheduleNotify debounces change notifications.
func (w *StoreWatcher) scheduleNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}
