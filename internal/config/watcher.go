package config

import (
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 1500 * time.Millisecond

// Watcher reloads a file after it changes and passes the result to every
// registered handler. The directory is watched instead of the file so that
// atomic saves (write to temp, rename over) are seen.
type Watcher[T any] struct {
	path     string
	debounce time.Duration
	loader   func(path string) (T, error)
	onError  func(error)
	logger   *slog.Logger

	mu       sync.Mutex
	handlers []reloadHandler[T]
	lastID   int
	current  T
	loaded   bool

	fsw  *fsnotify.Watcher
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

type reloadHandler[T any] struct {
	id int
	fn func(T)
}

// WatcherOption configures a Watcher.
type WatcherOption[T any] func(*Watcher[T])

// WithDebounce overrides DefaultDebounce.
func WithDebounce[T any](d time.Duration) WatcherOption[T] {
	return func(w *Watcher[T]) { w.debounce = d }
}

// WithErrorHandler is called when the loader fails. Failures are always logged.
func WithErrorHandler[T any](fn func(error)) WatcherOption[T] {
	return func(w *Watcher[T]) { w.onError = fn }
}

// NewConfigWatcher returns a stopped watcher for path.
func NewConfigWatcher[T any](
	path string,
	loader func(path string) (T, error),
	logger *slog.Logger,
	opts ...WatcherOption[T],
) *Watcher[T] {
	w := &Watcher[T]{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		loader:   loader,
		logger:   logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnReload adds fn to the handlers run after each successful load, in
// registration order. The returned function removes it.
func (w *Watcher[T]) OnReload(fn func(T)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastID++
	id := w.lastID
	w.handlers = append(w.handlers, reloadHandler[T]{id: id, fn: fn})

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.handlers = slices.DeleteFunc(w.handlers, func(h reloadHandler[T]) bool { return h.id == id })
	}
}

// Current returns the value from the most recent successful reload.
func (w *Watcher[T]) Current() (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.loaded
}

// Start begins watching. It returns an error when the directory cannot be watched.
func (w *Watcher[T]) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	w.logger.Info("Watching config file", "path", w.path, "debounce", w.debounce)
	go w.run()
	return nil
}

// Stop ends watching. No handler runs after Stop returns.
func (w *Watcher[T]) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.quit)
		if w.fsw == nil {
			return
		}
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher[T]) run() {
	defer close(w.done)

	settle := time.NewTimer(w.debounce)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-w.quit:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Config file changed", "op", ev.Op.String())
			settle.Reset(w.debounce)

		case <-settle.C:
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "error", err)
		}
	}
}

func (w *Watcher[T]) reload() {
	value, err := w.loader(w.path)
	if err != nil {
		w.logger.Warn("Config reload failed", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	w.current, w.loaded = value, true
	handlers := slices.Clone(w.handlers)
	w.mu.Unlock()

	w.logger.Info("Config reloaded", "path", w.path, "handlers", len(handlers))
	for _, h := range handlers {
		h.fn(value)
	}
}
