// Package watcher reports changes to the direct children of one directory.
package watcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"fastexplorer/internal/logging"
)

var watcherLog = logging.ForComponent(logging.CompWatcher)

// ErrNotDirectory is returned by Start when the path is not a directory
var ErrNotDirectory = errors.New("not a directory")

// DefaultDebounce is the window in which bursts of events collapse into one notification
const DefaultDebounce = 100 * time.Millisecond

// State of a Watcher
type State int

const (
	Stopped State = iota
	Watching
)

func (s State) String() string {
	if s == Watching {
		return "watching"
	}
	return "stopped"
}

// Watcher watches a single directory, non-recursively
type Watcher struct {
	debounce time.Duration

	opMu sync.Mutex // serializes Start and Stop

	mu        sync.Mutex
	state     State
	path      string
	fsw       *fsnotify.Watcher
	stopCh    chan struct{}
	done      chan struct{}
	listeners []func()
}

// New creates a stopped watcher. debounce <= 0 uses DefaultDebounce.
func New(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce}
}

// OnChange registers a listener. Listeners run on the watcher goroutine and
// must not call Start or Stop.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// State returns the current state
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Path returns the watched directory, empty when stopped
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Start watches path. A running subscription is stopped first.
// On failure the watcher is left Stopped.
func (w *Watcher) Start(path string) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.stop()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: %w", path, ErrNotDirectory)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fsw.Add(path); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.mu.Lock()
	w.fsw = fsw
	w.path = path
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	w.state = Watching
	stopCh, done := w.stopCh, w.done
	w.mu.Unlock()

	go w.loop(fsw, stopCh, done)

	watcherLog.Debug("watch_started", slog.String("path", path))
	return nil
}

// Stop ends the subscription: signal, join the worker, then close the handle.
// Safe to call repeatedly and on a watcher that never started.
func (w *Watcher) Stop() {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	w.stop()
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.state != Watching {
		w.mu.Unlock()
		return
	}
	fsw, stopCh, done, path := w.fsw, w.stopCh, w.done, w.path
	w.state = Stopped
	w.fsw = nil
	w.path = ""
	w.mu.Unlock()

	close(stopCh)
	<-done
	if err := fsw.Close(); err != nil {
		watcherLog.Debug("watch_close_failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	watcherLog.Debug("watch_stopped", slog.String("path", path))
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			timer.Reset(w.debounce)
		}
		fire = timer.C
	}

	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			arm()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// events were lost; the listing must be reloaded anyway
				arm()
				continue
			}
			watcherLog.Warn("watch_error", slog.String("error", err.Error()))

		case <-fire:
			fire = nil
			w.notify()
		}
	}
}

func relevant(e fsnotify.Event) bool {
	return e.Has(fsnotify.Create) || e.Has(fsnotify.Remove) ||
		e.Has(fsnotify.Write) || e.Has(fsnotify.Rename)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	listeners := make([]func(), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
