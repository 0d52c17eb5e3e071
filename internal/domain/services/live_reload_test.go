package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
	"github.com/fredcamaral/stepdeck/internal/test/builders"
)

func TestLiveReloadService_Start(t *testing.T) {
	t.Run("built-in deck cannot be watched", func(t *testing.T) {
		svc := NewLiveReloadService(&MockDeckService{}, newTestSession(t, 2), nil, nil)
		assert.Error(t, svc.Start(context.Background(), ""))
	})

	t.Run("watch error", func(t *testing.T) {
		decks := &MockDeckService{}
		decks.On("WatchDeck", mock.Anything, "deck.md").Return(nil, errors.New("no inotify"))

		svc := NewLiveReloadService(decks, newTestSession(t, 2), nil, nil)
		err := svc.Start(context.Background(), "deck.md")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "starting watcher")
		assert.False(t, svc.IsWatching())
	})

	t.Run("double start", func(t *testing.T) {
		decks := &MockDeckService{}
		events := make(chan ports.FileChangeEvent)
		decks.On("WatchDeck", mock.Anything, "deck.md").Return((<-chan ports.FileChangeEvent)(events), nil)

		svc := NewLiveReloadService(decks, newTestSession(t, 2), nil, nil)
		require.NoError(t, svc.Start(context.Background(), "deck.md"))
		assert.True(t, svc.IsWatching())
		assert.EqualError(t, svc.Start(context.Background(), "deck.md"), "already watching")

		require.NoError(t, svc.Stop())
		assert.False(t, svc.IsWatching())
		require.NoError(t, svc.Stop())
	})
}

func TestLiveReloadService_Reload(t *testing.T) {
	t.Run("replaces the session deck", func(t *testing.T) {
		session := newTestSession(t, 3)
		session.Navigate(entities.ActionNext, 0)
		sub := session.Subscribe("viewer")
		<-sub

		decks := &MockDeckService{}
		events := make(chan ports.FileChangeEvent, 1)
		reloaded := builders.NewDeckBuilder().WithTitle("Edited").WithSlideCount(4).Build()
		decks.On("WatchDeck", mock.Anything, "deck.md").Return((<-chan ports.FileChangeEvent)(events), nil)
		decks.On("LoadDeck", mock.Anything, "deck.md").Return(reloaded, nil)

		svc := NewLiveReloadService(decks, session, nil, nil)
		require.NoError(t, svc.Start(context.Background(), "deck.md"))
		defer svc.Stop()

		events <- ports.FileChangeEvent{Path: "deck.md", Type: ports.Modified, Timestamp: time.Now()}

		select {
		case event := <-sub:
			assert.Equal(t, entities.SyncEventReload, event.Type)
			assert.Equal(t, 1, event.State.Index)
			assert.Equal(t, 4, event.State.Total)
		case <-time.After(2 * time.Second):
			t.Fatal("no reload event")
		}

		assert.Eventually(t, func() bool { return svc.Reloads() == 1 }, time.Second, 10*time.Millisecond)
		assert.Equal(t, "Edited", session.Deck().Title)
	})

	t.Run("failed reload notifies clients and keeps the deck", func(t *testing.T) {
		session := newTestSession(t, 3)
		decks := &MockDeckService{}
		notifier := &MockHTTPServer{}
		events := make(chan ports.FileChangeEvent, 1)
		notified := make(chan ports.UpdateEvent, 1)

		decks.On("WatchDeck", mock.Anything, "deck.md").Return((<-chan ports.FileChangeEvent)(events), nil)
		decks.On("LoadDeck", mock.Anything, "deck.md").Return(nil, errors.New("yaml: line 3"))
		notifier.On("NotifyClients", mock.Anything).Run(func(args mock.Arguments) {
			notified <- args.Get(0).(ports.UpdateEvent)
		}).Return(nil)

		svc := NewLiveReloadService(decks, session, notifier, nil)
		require.NoError(t, svc.Start(context.Background(), "deck.md"))
		defer svc.Stop()

		events <- ports.FileChangeEvent{Path: "deck.md", Type: ports.Modified}

		select {
		case event := <-notified:
			assert.Equal(t, ports.EventTypeError, event.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("no error notification")
		}
		assert.Equal(t, 0, svc.Reloads())
		assert.Equal(t, "Test Deck", session.Deck().Title)
	})

	t.Run("deleted file is ignored", func(t *testing.T) {
		decks := &MockDeckService{}
		events := make(chan ports.FileChangeEvent, 1)
		decks.On("WatchDeck", mock.Anything, "deck.md").Return((<-chan ports.FileChangeEvent)(events), nil)

		svc := NewLiveReloadService(decks, newTestSession(t, 2), nil, nil)
		require.NoError(t, svc.Start(context.Background(), "deck.md"))

		events <- ports.FileChangeEvent{Path: "deck.md", Type: ports.Deleted}
		close(events)

		time.Sleep(50 * time.Millisecond)
		decks.AssertNotCalled(t, "LoadDeck", mock.Anything, mock.Anything)
		require.NoError(t, svc.Stop())
	})
}
