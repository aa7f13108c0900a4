package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FSNotifyWatcher watches directory hierarchies on the host OS with fsnotify
// and reports debounced changes per watched root
type FSNotifyWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer Debouncer
	errorChan chan error
	config    WatcherConfig
	logger    zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	roots     []string
	started   bool
	closeOnce sync.Once
}

// NewFSNotifyWatcher creates a new fsnotify-based watcher
func NewFSNotifyWatcher(config WatcherConfig, logger zerolog.Logger) (*FSNotifyWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FSNotifyWatcher{
		watcher:   fsWatcher,
		debouncer: NewDebouncer(config.DebounceDelay, config.MaxDebounceDelay, config.QueueCapacity),
		errorChan: make(chan error, 10),
		config:    config,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start begins watching the specified roots. Directory roots are watched
// recursively and directories created later are picked up as they appear.
// Watching stops when ctx is done or the watcher is closed.
func (w *FSNotifyWatcher) Start(ctx context.Context, paths []string) error {
	if err := w.Add(paths...); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	w.started = true

	w.wg.Add(1)
	go w.watchLoop(ctx)

	w.logger.Info().Int("paths", len(paths)).Msg("FSNotify watcher started")
	return nil
}

// Changes returns the debounced change channel
func (w *FSNotifyWatcher) Changes() <-chan Change {
	return w.debouncer.Changes()
}

// Errors returns the error channel
func (w *FSNotifyWatcher) Errors() <-chan error {
	return w.errorChan
}

// Add adds roots to watch
func (w *FSNotifyWatcher) Add(paths ...string) error {
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to add path %s: %w", path, err)
		}
		if err := w.addPathRecursive(abs); err != nil {
			return fmt.Errorf("failed to add path %s: %w", path, err)
		}

		w.mu.Lock()
		w.roots = append(w.roots, abs)
		w.mu.Unlock()
	}

	w.logger.Debug().Int("count", len(paths)).Msg("Added paths to watcher")
	return nil
}

// Roots returns the absolute watched roots
func (w *FSNotifyWatcher) Roots() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.roots...)
}

// Close stops watching and cleans up resources
func (w *FSNotifyWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()

		if cerr := w.watcher.Close(); cerr != nil {
			err = fmt.Errorf("error closing fsnotify watcher: %w", cerr)
		}

		// Wait for the event loop before closing the channels it writes to
		w.wg.Wait()

		w.debouncer.Close()
		close(w.errorChan)

		w.logger.Info().Msg("FSNotify watcher closed")
	})
	return err
}

// addPathRecursive adds a path and all its subdirectories to the watcher
func (w *FSNotifyWatcher) addPathRecursive(rootPath string) error {
	if err := w.watcher.Add(rootPath); err != nil {
		return fmt.Errorf("failed to add root path %s: %w", rootPath, err)
	}

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() && path != rootPath {
			if err := w.watcher.Add(path); err != nil {
				// Keep going; the rest of the hierarchy is still useful
				w.logger.Warn().Err(err).Str("path", path).Msg("Failed to add subdirectory to watcher")
			}
		}
		return nil
	})
}

// rootsFor returns every watched root that contains path
func (w *FSNotifyWatcher) rootsFor(path string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var matches []string
	for _, root := range w.roots {
		if within(root, path) {
			matches = append(matches, root)
		}
	}
	return matches
}

func within(root, path string) bool {
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}

// watchLoop is the main event processing loop
func (w *FSNotifyWatcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			select {
			case w.errorChan <- err:
			default:
				w.logger.Warn().Err(err).Msg("Error channel full, dropping error")
			}
		}
	}
}

func (w *FSNotifyWatcher) handleEvent(event fsnotify.Event) {
	eventType, ok := convertEvent(event)
	if !ok || (eventType == EventChmod && !w.config.IncludeChmod) {
		return
	}

	if eventType == EventCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addPathRecursive(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("path", event.Name).Msg("Failed to watch new directory")
			}
		}
	}

	now := time.Now()
	for _, root := range w.rootsFor(event.Name) {
		w.debouncer.Add(Event{
			Type:      eventType,
			Path:      event.Name,
			Root:      root,
			Timestamp: now,
		})
	}
}

// convertEvent maps an fsnotify operation to an EventType
func convertEvent(event fsnotify.Event) (EventType, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return EventCreate, true
	case event.Has(fsnotify.Write):
		return EventWrite, true
	case event.Has(fsnotify.Remove):
		return EventRemove, true
	case event.Has(fsnotify.Rename):
		return EventRename, true
	case event.Has(fsnotify.Chmod):
		return EventChmod, true
	default:
		return 0, false
	}
}
