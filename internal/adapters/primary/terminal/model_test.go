package terminal

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/services"
	"github.com/fredcamaral/stepdeck/internal/test/builders"
)

func newTestModel(t *testing.T, deck *entities.Deck) (*Model, *services.SessionService) {
	t.Helper()
	require.NoError(t, deck.Validate())

	session, err := services.NewSessionService(deck, nil)
	require.NoError(t, err)
	t.Cleanup(session.Stop)

	m := NewModel(session, Options{Style: "notty"})
	t.Cleanup(m.Close)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, session
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{name: "right arrow", keys: []tea.KeyMsg{{Type: tea.KeyRight}}, want: 1},
		{name: "l", keys: []tea.KeyMsg{runes("l")}, want: 1},
		{name: "space", keys: []tea.KeyMsg{{Type: tea.KeySpace, Runes: []rune{' '}}}, want: 1},
		{name: "next then prev", keys: []tea.KeyMsg{runes("n"), runes("n"), {Type: tea.KeyLeft}}, want: 1},
		{name: "prev at start", keys: []tea.KeyMsg{runes("h")}, want: 0},
		{name: "last", keys: []tea.KeyMsg{runes("G")}, want: 9},
		{name: "next at end", keys: []tea.KeyMsg{runes("G"), runes("l")}, want: 9},
		{name: "first", keys: []tea.KeyMsg{runes("G"), runes("g")}, want: 0},
		{name: "digit jump", keys: []tea.KeyMsg{runes("4")}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, session := newTestModel(t, builders.TenSlideDeck())
			press(m, tt.keys...)
			assert.Equal(t, tt.want, session.State().Index)
		})
	}
}

func TestModel_DigitOutOfRange(t *testing.T) {
	m, session := newTestModel(t, builders.NewDeckBuilder().WithTitle("Three").WithSlideCount(3).Build())

	press(m, runes("2"), runes("7"))

	assert.Equal(t, 1, session.State().Index)
	assert.Contains(t, m.View(), "there is no slide 7")

	press(m, runes("l"))
	assert.NotContains(t, m.View(), "there is no slide 7")
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, builders.TenSlideDeck())

	view := m.View()
	assert.Contains(t, view, "Ten Slides")
	assert.Contains(t, view, "Slide 1 of 10")
	assert.Contains(t, view, "0%")
	assert.Contains(t, view, "Body of slide 1")

	press(m, runes("G"))
	view = m.View()
	assert.Contains(t, view, "Slide 10 of 10")
	assert.Contains(t, view, "100%")
	assert.Contains(t, view, "Body of slide 10")
}

func TestModel_NotReady(t *testing.T) {
	deck := builders.MinimalDeck()
	require.NoError(t, deck.Validate())
	session, err := services.NewSessionService(deck, nil)
	require.NoError(t, err)
	defer session.Stop()

	m := NewModel(session, Options{Style: "notty"})
	defer m.Close()

	assert.Equal(t, "loading…", m.View())
}

func TestModel_Overlays(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		m, session := newTestModel(t, builders.TenSlideDeck())

		press(m, runes("?"))
		assert.Contains(t, m.View(), "previous slide")

		press(m, runes("l"))
		assert.Equal(t, 0, session.State().Index, "keys are swallowed while help is open")

		press(m, tea.KeyMsg{Type: tea.KeyEsc}, runes("l"))
		assert.Equal(t, 1, session.State().Index)
	})

	t.Run("slide list", func(t *testing.T) {
		m, session := newTestModel(t, builders.TenSlideDeck())

		press(m, runes("t"))
		view := m.View()
		assert.Contains(t, view, "Slide 5")
		assert.Contains(t, view, "(current)")

		press(m, runes("j"), runes("j"), runes("k"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, 2, session.State().Index)
		assert.Contains(t, m.View(), "Slide 3 of 10")
	})
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, builders.TenSlideDeck())

	assert.True(t, isQuit(press(m, runes("q"))))
	assert.True(t, isQuit(press(m, tea.KeyMsg{Type: tea.KeyCtrlC})))
	assert.False(t, isQuit(press(m, runes("l"))))
}

func TestModel_SessionEvents(t *testing.T) {
	t.Run("follows other views", func(t *testing.T) {
		m, session := newTestModel(t, builders.TenSlideDeck())

		// another view moves the shared session
		session.Navigate(entities.ActionGoto, 6)

		_, cmd := m.Update(syncMsg{event: entities.NewSyncEvent(entities.SyncEventNavigation, session.State())})
		assert.NotNil(t, cmd, "keeps listening for events")
		assert.Contains(t, m.View(), "Slide 7 of 10")
		assert.Contains(t, m.View(), "Body of slide 7")
	})

	t.Run("reload", func(t *testing.T) {
		m, session := newTestModel(t, builders.TenSlideDeck())
		press(m, runes("3"))

		reloaded := builders.NewDeckBuilder().
			WithTitle("Edited").
			WithSlideCount(3).
			Build()
		require.NoError(t, reloaded.Validate())
		reloaded.Slides[2].Body = "Fresh body"
		require.NoError(t, session.Replace(reloaded))

		m.Update(syncMsg{event: entities.NewSyncEvent(entities.SyncEventReload, session.State())})

		view := m.View()
		assert.Contains(t, view, "Edited")
		assert.Contains(t, view, "Slide 3 of 3")
		assert.Contains(t, view, "Fresh body")
		assert.Contains(t, view, "deck reloaded")
	})

	t.Run("waits on the subscription", func(t *testing.T) {
		m, _ := newTestModel(t, builders.TenSlideDeck())

		msg := m.Init()()
		event, ok := msg.(syncMsg)
		require.True(t, ok)
		assert.Equal(t, entities.SyncEventState, event.event.Type)
	})

	t.Run("quits when the session stops", func(t *testing.T) {
		m, session := newTestModel(t, builders.TenSlideDeck())
		session.Stop()

		// drain the initial state event, then the channel is closed
		msg := m.Init()()
		require.IsType(t, syncMsg{}, msg)
		msg = m.waitForEvent()()
		assert.Equal(t, sessionClosedMsg{}, msg)

		_, cmd := m.Update(msg)
		assert.True(t, isQuit(cmd))
	})
}

func TestModel_BodyCache(t *testing.T) {
	m, _ := newTestModel(t, builders.TenSlideDeck())

	press(m, runes("l"), runes("h"))

	stats := m.bodies.Stats()
	assert.Equal(t, 2, stats.Size, "one rendered body per visited slide")
	assert.Equal(t, int64(1), stats.Hits, "revisiting a slide reuses its body")

	m.Update(syncMsg{event: entities.NewSyncEvent(entities.SyncEventReload, m.session.State())})
	assert.Equal(t, 1, m.bodies.Stats().Size, "reload drops stale bodies")
}

func TestModel_BodyCacheFollowsDeck(t *testing.T) {
	m, session := newTestModel(t, builders.TenSlideDeck())
	press(m, runes("l"), runes("h"))
	require.Contains(t, m.View(), "Body of slide 1")

	b := builders.NewDeckBuilder()
	for i := 1; i <= 3; i++ {
		b.WithSlide(builders.NewSlideBuilder().
			WithID(fmt.Sprintf("s%d", i)).
			WithTitle(fmt.Sprintf("Slide %d", i)).
			WithBody(fmt.Sprintf("Rewritten slide %d", i)).
			Build())
	}
	require.NoError(t, session.Replace(b.Build()))

	// no reload message reaches the model, as when the event was dropped
	press(m, runes("l"), runes("h"))

	view := m.View()
	assert.Contains(t, view, "Rewritten slide 1")
	assert.NotContains(t, view, "Body of slide 1")
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		progress float64
		filled   int
	}{
		{progress: 0, filled: 0},
		{progress: 50, filled: 10},
		{progress: 33.33, filled: 7},
		{progress: 100, filled: 20},
	}

	for _, tt := range tests {
		bar := progressBar(tt.progress, barWidth)
		assert.Equal(t, tt.filled, countRune(bar, '█'), "progress %.2f", tt.progress)
		assert.Equal(t, barWidth-tt.filled, countRune(bar, '░'), "progress %.2f", tt.progress)
	}
}

func TestRenderDots(t *testing.T) {
	dots := renderDots(entities.NavigationState{Index: 2, Total: 5})
	assert.Equal(t, 1, countRune(dots, '●'))
	assert.Equal(t, 4, countRune(dots, '○'))
}

func TestRenderBody(t *testing.T) {
	out, err := renderBody("# Heading\n\nSome *text*", "notty", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "text")

	out, err = renderBody("  \n", "notty", 60)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = renderBody("text", "no-such-style", 60)
	assert.Error(t, err)
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}
