package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultConfig returns a default watcher configuration
func DefaultConfig() WatcherConfig {
	return WatcherConfig{
		DebounceDelay:    200 * time.Millisecond,
		MaxDebounceDelay: 2 * time.Second,
		QueueCapacity:    64,
	}
}

// WatchPaths watches paths until ctx is done and calls onChange for every
// debounced change. Watcher errors are logged and watching continues; an
// error from onChange stops watching and is returned.
func WatchPaths(ctx context.Context, config WatcherConfig, logger zerolog.Logger, paths []string, onChange func(context.Context, Change) error) error {
	w, err := NewFSNotifyWatcher(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Start(ctx, paths); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case change, ok := <-w.Changes():
			if !ok {
				return nil
			}
			logger.Debug().
				Str("root", change.Root).
				Int("events", len(change.Events)).
				Msg("Received change")
			if err := onChange(ctx, change); err != nil {
				return err
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("Watcher error")
		}
	}
}
