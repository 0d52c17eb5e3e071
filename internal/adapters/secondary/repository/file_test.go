package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

func writeDeck(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileRepository_Load(t *testing.T) {
	repo := NewFileRepository(parser.NewRegistry(), nil)
	ctx := context.Background()

	t.Run("markdown", func(t *testing.T) {
		path := writeDeck(t, "talk.md", "---\ntitle: Talk\n---\n# One\n---\n# Two\n")
		deck, err := repo.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "Talk", deck.Title)
		assert.Equal(t, path, deck.Source)
		assert.Len(t, deck.Slides, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeDeck(t, "talk.yml", "title: Talk\nslides:\n  - id: a\n    title: A\n")
		deck, err := repo.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "a", deck.Slides[0].ID)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := repo.Load(ctx, writeDeck(t, "talk.txt", "x"))
		assert.ErrorIs(t, err, ports.ErrUnsupportedFormat)
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "deck.md")
		require.NoError(t, os.Mkdir(dir, 0o755))
		_, err := repo.Load(ctx, dir)
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.Load(ctx, filepath.Join(t.TempDir(), "gone.md"))
		assert.Error(t, err)
	})
}

func TestFileRepository_Watch(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, err := NewFileRepository(parser.NewRegistry(), nil).Watch(context.Background(), "x.md")
		assert.Error(t, err)
	})

	t.Run("delegates to the watcher", func(t *testing.T) {
		w := watcher.NewFSWatcher(20*time.Millisecond, nil)
		defer w.Stop()

		path := writeDeck(t, "talk.md", "# One")
		events, err := NewFileRepository(parser.NewRegistry(), w).Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("# Two"), 0o600))
		select {
		case ev := <-events:
			assert.Equal(t, ports.Modified, ev.Type)
		case <-time.After(3 * time.Second):
			t.Fatal("no event")
		}
	})
}
