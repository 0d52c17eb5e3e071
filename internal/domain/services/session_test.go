package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/test/builders"
)

func newTestSession(t *testing.T, slides int) *SessionService {
	t.Helper()
	deck := builders.NewDeckBuilder().WithSlideCount(slides).Build()
	require.NoError(t, deck.Validate())
	s, err := NewSessionService(deck, nil)
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s
}

func TestNewSessionService(t *testing.T) {
	_, err := NewSessionService(nil, nil)
	assert.Error(t, err)

	_, err = NewSessionService(&entities.Deck{Title: "x"}, nil)
	assert.ErrorIs(t, err, entities.ErrEmptyDeck)

	s := newTestSession(t, 3)
	assert.Equal(t, 0, s.State().Index)
	assert.Equal(t, "s1", s.CurrentSlide().ID)
	assert.Equal(t, 3, s.Deck().SlideCount())
}

func TestSessionService_Navigate(t *testing.T) {
	t.Run("walkthrough", func(t *testing.T) {
		s := newTestSession(t, 10)

		for i := 0; i < 12; i++ {
			s.Navigate(entities.ActionNext, 0)
		}
		state := s.State()
		assert.Equal(t, 9, state.Index)
		assert.InDelta(t, 100.0, state.Progress, 1e-9)
		assert.True(t, state.AtEnd)

		state, ok := s.Navigate(entities.ActionPrev, 0)
		assert.True(t, ok)
		assert.InDelta(t, 88.89, state.Progress, 0.01)

		state, ok = s.Navigate(entities.ActionGoto, 3)
		assert.True(t, ok)
		assert.InDelta(t, 33.33, state.Progress, 0.01)

		state, ok = s.Navigate(entities.ActionGoto, 15)
		assert.False(t, ok)
		assert.Equal(t, 3, state.Index)
	})

	t.Run("goto by id", func(t *testing.T) {
		s := newTestSession(t, 5)

		state, ok := s.GoToID("s4")
		assert.True(t, ok)
		assert.Equal(t, 3, state.Index)

		state, ok = s.GoToID("missing")
		assert.False(t, ok)
		assert.Equal(t, 3, state.Index)
	})
}

func TestSessionService_Subscribe(t *testing.T) {
	t.Run("initial state then navigation events", func(t *testing.T) {
		s := newTestSession(t, 4)
		ch := s.Subscribe("viewer")

		initial := <-ch
		assert.Equal(t, entities.SyncEventState, initial.Type)
		assert.Equal(t, 0, initial.State.Index)

		s.Navigate(entities.ActionNext, 0)
		event := <-ch
		assert.Equal(t, entities.SyncEventNavigation, event.Type)
		assert.Equal(t, 1, event.State.Index)
	})

	t.Run("no event when position does not move", func(t *testing.T) {
		s := newTestSession(t, 4)
		ch := s.Subscribe("viewer")
		<-ch

		s.Navigate(entities.ActionPrev, 0)
		s.Navigate(entities.ActionGoto, 99)

		assert.Empty(t, ch)
	})

	t.Run("slow subscribers are skipped", func(t *testing.T) {
		s := newTestSession(t, 30)
		ch := s.Subscribe("slow")

		for i := 0; i < 25; i++ {
			s.Navigate(entities.ActionNext, 0)
		}

		assert.Len(t, ch, subscriberBuffer)
		assert.Equal(t, 25, s.State().Index)
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		s := newTestSession(t, 2)
		ch := s.Subscribe("viewer")
		<-ch

		s.Unsubscribe("viewer")
		_, open := <-ch
		assert.False(t, open)
		assert.Equal(t, 0, s.Subscribers())

		s.Unsubscribe("viewer")
	})

	t.Run("resubscribing replaces the old channel", func(t *testing.T) {
		s := newTestSession(t, 2)
		old := s.Subscribe("viewer")
		<-old
		s.Subscribe("viewer")

		_, open := <-old
		assert.False(t, open)
		assert.Equal(t, 1, s.Subscribers())
	})

	t.Run("stop closes everything", func(t *testing.T) {
		s := newTestSession(t, 2)
		a := s.Subscribe("a")
		b := s.Subscribe("b")
		<-a
		<-b

		s.Stop()

		_, openA := <-a
		_, openB := <-b
		assert.False(t, openA)
		assert.False(t, openB)

		late := s.Subscribe("late")
		_, open := <-late
		assert.False(t, open)
	})
}

func TestSessionService_Replace(t *testing.T) {
	t.Run("keeps position when still in range", func(t *testing.T) {
		s := newTestSession(t, 5)
		s.Navigate(entities.ActionGoto, 3)
		ch := s.Subscribe("viewer")
		<-ch

		bigger := builders.NewDeckBuilder().WithTitle("Bigger").WithSlideCount(8).Build()
		require.NoError(t, s.Replace(bigger))

		event := <-ch
		assert.Equal(t, entities.SyncEventReload, event.Type)
		assert.Equal(t, 3, event.State.Index)
		assert.Equal(t, 8, event.State.Total)
		assert.Equal(t, "Bigger", s.Deck().Title)
	})

	t.Run("falls back to the start", func(t *testing.T) {
		s := newTestSession(t, 5)
		s.Navigate(entities.ActionLast, 0)

		require.NoError(t, s.Replace(builders.NewDeckBuilder().WithSlideCount(2).Build()))
		assert.Equal(t, 0, s.State().Index)
	})

	t.Run("rejects empty decks", func(t *testing.T) {
		s := newTestSession(t, 3)
		s.Navigate(entities.ActionNext, 0)

		err := s.Replace(&entities.Deck{Title: "empty"})
		assert.ErrorIs(t, err, entities.ErrEmptyDeck)
		assert.Equal(t, 1, s.State().Index)
		assert.Error(t, s.Replace(nil))
	})
}

func TestSessionService_ConcurrentNavigation(t *testing.T) {
	s := newTestSession(t, 10)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch (i + j) % 3 {
				case 0:
					s.Navigate(entities.ActionNext, 0)
				case 1:
					s.Navigate(entities.ActionPrev, 0)
				default:
					s.Navigate(entities.ActionGoto, j%12)
				}
				state := s.State()
				if state.Index < 0 || state.Index > 9 {
					t.Errorf("index out of range: %d", state.Index)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestSessionService_GoToIDDuringReplace(t *testing.T) {
	deckWith := func(ids ...string) *entities.Deck {
		b := builders.NewDeckBuilder()
		for _, id := range ids {
			b.WithSlide(builders.NewSlideBuilder().WithID(id).WithTitle(id).Build())
		}
		deck := b.Build()
		require.NoError(t, deck.Validate())
		return deck
	}
	forward := deckWith("a", "b", "c")
	reversed := deckWith("c", "b", "a")

	s, err := NewSessionService(forward, nil)
	require.NoError(t, err)
	t.Cleanup(s.Stop)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			deck := forward
			if i%2 == 0 {
				deck = reversed
			}
			if err := s.Replace(deck); err != nil {
				t.Errorf("replace: %v", err)
			}
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				state, ok := s.GoToID("a")
				if !ok {
					t.Errorf("goto a rejected on slide %q", state.SlideID)
					return
				}
				if state.SlideID != "a" {
					t.Errorf("goto a landed on %q", state.SlideID)
					return
				}
			}
		}()
	}
	wg.Wait()
}
