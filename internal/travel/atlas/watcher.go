package atlas

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a Store whenever its data file changes.
//
// The data file's directory is watched rather than the file itself so that
// editors which replace files by rename are still seen. Bursts of events are
// collapsed into one reload after the debounce window.
type Watcher struct {
	store    *Store
	debounce time.Duration
	logger   *zap.Logger

	ready    chan struct{}
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a Watcher for store.
//
// Precondition: store must have a data file path; logger must be non-nil.
// Postcondition: Returns a Watcher ready to be started.
func NewWatcher(store *Store, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		store:    store,
		debounce: debounce,
		logger:   logger,
		ready:    make(chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Ready is closed once the watch is established.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Start watches the data file until Stop is called. It blocks.
//
// Postcondition: The underlying fsnotify watcher is closed when Start returns.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer close(w.done)

	if w.store.Path() == "" {
		return fmt.Errorf("store has no data file to watch")
	}
	target, err := filepath.Abs(w.store.Path())
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.store.Path(), err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	close(w.ready)

	w.logger.Info("watching zone data",
		zap.String("path", target),
		zap.Duration("debounce", w.debounce),
	)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.quit:
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("zone data changed",
				zap.String("path", name),
				zap.String("op", ev.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			// Failures are logged by the store and the old snapshot stays live.
			_, _ = w.store.Reload()
		}
	}
}

// Stop ends the watch and waits for Start to return.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.quit)
	})

	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if running {
		<-w.done
	}
}
