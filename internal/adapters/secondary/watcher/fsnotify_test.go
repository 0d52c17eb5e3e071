package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

func createDeckFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func waitEvent(t *testing.T, events <-chan ports.FileChangeEvent) ports.FileChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ports.FileChangeEvent{}
}

func assertNoEvent(t *testing.T, events <-chan ports.FileChangeEvent, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(wait):
	}
}

func TestFSWatcher(t *testing.T) {
	t.Run("detects modification", func(t *testing.T) {
		path := createDeckFile(t, "# One")
		w := NewFSWatcher(20*time.Millisecond, nil)
		defer w.Stop()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("# One\n---\n# Two"), 0o600))

		ev := waitEvent(t, events)
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, ev.Path)
		assert.Equal(t, ports.Modified, ev.Type)
	})

	t.Run("debounces bursts", func(t *testing.T) {
		path := createDeckFile(t, "v0")
		w := NewFSWatcher(150*time.Millisecond, nil)
		defer w.Stop()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		for i := 1; i <= 5; i++ {
			require.NoError(t, os.WriteFile(path, []byte("v"+string(rune('0'+i))), 0o600))
			time.Sleep(10 * time.Millisecond)
		}

		waitEvent(t, events)
		assertNoEvent(t, events, 300*time.Millisecond)
	})

	t.Run("ignores identical rewrites", func(t *testing.T) {
		path := createDeckFile(t, "same")
		w := NewFSWatcher(20*time.Millisecond, nil)
		defer w.Stop()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("same"), 0o600))
		assertNoEvent(t, events, 200*time.Millisecond)
	})

	t.Run("ignores sibling files", func(t *testing.T) {
		path := createDeckFile(t, "deck")
		w := NewFSWatcher(20*time.Millisecond, nil)
		defer w.Stop()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0o600))
		assertNoEvent(t, events, 200*time.Millisecond)
	})

	t.Run("reports deletion", func(t *testing.T) {
		path := createDeckFile(t, "deck")
		w := NewFSWatcher(20*time.Millisecond, nil)
		defer w.Stop()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))
		assert.Equal(t, ports.Deleted, waitEvent(t, events).Type)
	})

	t.Run("missing file", func(t *testing.T) {
		w := NewFSWatcher(20*time.Millisecond, nil)
		defer w.Stop()

		_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initial scan")
	})

	t.Run("context cancel closes channel", func(t *testing.T) {
		path := createDeckFile(t, "deck")
		w := NewFSWatcher(20*time.Millisecond, nil)
		defer w.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		events, err := w.Watch(ctx, path)
		require.NoError(t, err)

		cancel()
		select {
		case _, ok := <-events:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed")
		}
	})

	t.Run("stop is idempotent and blocks new watches", func(t *testing.T) {
		path := createDeckFile(t, "deck")
		w := NewFSWatcher(20*time.Millisecond, nil)

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())

		_, ok := <-events
		assert.False(t, ok)

		_, err = w.Watch(context.Background(), path)
		assert.Error(t, err)
	})
}

func TestChangeType(t *testing.T) {
	assert.Equal(t, ports.Modified, changeType(fsnotify.Write))
	assert.Equal(t, ports.Created, changeType(fsnotify.Create))
	assert.Equal(t, ports.Renamed, changeType(fsnotify.Rename))
	assert.Equal(t, ports.Deleted, changeType(fsnotify.Remove|fsnotify.Write))
	assert.Equal(t, "deleted", ports.Deleted.String())
}
