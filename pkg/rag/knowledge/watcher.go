package knowledge

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the registry when one of its data files changes.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	debounce time.Duration
	files    map[string]struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewWatcher(registry *Registry, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory so editors that replace files by rename are seen.
	if err := fsWatcher.Add(registry.sources.Dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", registry.sources.Dir, err)
	}

	files := make(map[string]struct{}, 3)
	for _, name := range registry.sources.Files() {
		files[filepath.Base(name)] = struct{}{}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		registry: registry,
		watcher:  fsWatcher,
		debounce: debounce,
		files:    files,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, watched := w.files[filepath.Base(event.Name)]; !watched {
				continue
			}
			w.registry.logger.Info(moduleName, "Data file changed", map[string]interface{}{
				"file":      event.Name,
				"operation": event.Op.String(),
			})
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				// Errors are logged by Load; the old snapshot stays live.
				_, _ = w.registry.Load(ctx)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.registry.logger.Error(moduleName, "File watcher error", map[string]interface{}{"error": err.Error()})

		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
