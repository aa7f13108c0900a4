package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() WatcherConfig {
	return WatcherConfig{
		DebounceDelay:    50 * time.Millisecond,
		MaxDebounceDelay: 200 * time.Millisecond,
		QueueCapacity:    10,
	}
}

func waitForChange(t *testing.T, changes <-chan Change, root string) Change {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case change, ok := <-changes:
			require.True(t, ok, "change channel closed")
			if change.Root == root {
				return change
			}
		case <-deadline:
			t.Fatalf("no change reported for %s", root)
		}
	}
}

func TestDebouncer_CoalescesPerRoot(t *testing.T) {
	d := NewDebouncer(30*time.Millisecond, time.Second, 10)
	defer d.Close()

	for i := 0; i < 5; i++ {
		d.Add(Event{Type: EventWrite, Path: "/a/f", Root: "/a"})
	}
	d.Add(Event{Type: EventCreate, Path: "/b/g", Root: "/b"})

	got := map[string]int{}
	for len(got) < 2 {
		select {
		case change := <-d.Changes():
			got[change.Root] = len(change.Events)
		case <-time.After(2 * time.Second):
			t.Fatal("debounced changes not delivered")
		}
	}

	assert.Equal(t, map[string]int{"/a": 5, "/b": 1}, got)
}

func TestDebouncer_MaxDelay(t *testing.T) {
	d := NewDebouncer(100*time.Millisecond, 150*time.Millisecond, 10)
	defer d.Close()

	start := time.Now()
	stop := time.After(600 * time.Millisecond)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.Add(Event{Type: EventWrite, Path: "/busy/f", Root: "/busy"})
		case change := <-d.Changes():
			assert.Equal(t, "/busy", change.Root)
			assert.Less(t, time.Since(start), 500*time.Millisecond, "A steady stream of events must not hold back a change forever")
			return
		case <-stop:
			t.Fatal("max delay not honoured")
		}
	}
}

func TestDebouncer_Close(t *testing.T) {
	d := NewDebouncer(time.Hour, time.Hour, 1)
	d.Add(Event{Type: EventWrite, Path: "/x/f", Root: "/x"})
	d.Close()
	d.Close()

	_, ok := <-d.Changes()
	assert.False(t, ok, "Pending batches are dropped on close")

	d.Add(Event{Type: EventWrite, Path: "/x/f", Root: "/x"})
}

func TestFSNotifyWatcher_BasicFunctionality(t *testing.T) {
	watcher, err := NewFSNotifyWatcher(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, watcher)

	err = watcher.Start(context.Background(), []string{})
	assert.NoError(t, err)

	assert.NoError(t, watcher.Close())
	assert.NoError(t, watcher.Close(), "Close should be idempotent")
}

func TestFSNotifyWatcher_ReportsChanges(t *testing.T) {
	tempDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "root", "sub"), 0o755))

	watcher, err := NewFSNotifyWatcher(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer watcher.Close()

	root := filepath.Join(tempDir, "root")
	require.NoError(t, watcher.Start(context.Background(), []string{root}))
	assert.Equal(t, []string{root}, watcher.Roots())

	t.Run("file in nested directory", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "a.txt"), []byte("a"), 0o644))

		change := waitForChange(t, watcher.Changes(), root)
		require.NotEmpty(t, change.Events)
		assert.Equal(t, filepath.Join(root, "sub", "a.txt"), change.Events[0].Path)
	})

	t.Run("directory created after start", func(t *testing.T) {
		newDir := filepath.Join(root, "later")
		require.NoError(t, os.Mkdir(newDir, 0o755))
		waitForChange(t, watcher.Changes(), root)

		// Give the watcher a moment to register the new directory
		time.Sleep(100 * time.Millisecond)
		require.NoError(t, os.WriteFile(filepath.Join(newDir, "b.txt"), []byte("b"), 0o644))

		change := waitForChange(t, watcher.Changes(), root)
		var paths []string
		for _, ev := range change.Events {
			paths = append(paths, ev.Path)
		}
		assert.Contains(t, paths, filepath.Join(newDir, "b.txt"))
	})
}

func TestFSNotifyWatcher_MissingPath(t *testing.T) {
	watcher, err := NewFSNotifyWatcher(testConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer watcher.Close()

	err = watcher.Start(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestWithin(t *testing.T) {
	assert.True(t, within("/a/b", "/a/b"))
	assert.True(t, within("/a/b", "/a/b/c"))
	assert.False(t, within("/a/b", "/a/bc"))
	assert.True(t, within("/", "/etc"))
}

func TestWatchPaths(t *testing.T) {
	tempDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan Change, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchPaths(ctx, testConfig(), zerolog.Nop(), []string{tempDir}, func(_ context.Context, c Change) error {
			select {
			case changed <- c:
			default:
			}
			return nil
		})
	}()

	// Keep touching the directory until the watcher is up and reports it
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case c := <-changed:
			assert.Equal(t, tempDir, c.Root)
			cancel()
			assert.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(filepath.Join(tempDir, "touch"), []byte(time.Now().String()), 0o644))
		case <-ctx.Done():
			t.Fatal("no change reported")
		}
	}
}
