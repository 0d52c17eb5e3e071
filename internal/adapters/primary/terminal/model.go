// Package terminal presents a deck in the terminal with bubbletea.
// It is a view over the same session the HTTP presenter uses.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/cache"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// ClientID is the subscription id the terminal view uses on the session
const ClientID = "terminal"

const (
	headerHeight = 5
	footerHeight = 3
	barWidth     = 20
	maxWrap      = 100
	cachedBodies = 64
)

// Options tune the presenter
type Options struct {
	// Style is a glamour standard style name
	Style string
	// WordWrap caps the body width; 0 follows the terminal
	WordWrap int
}

type syncMsg struct{ event entities.SyncEvent }

type sessionClosedMsg struct{}

// Model is the bubbletea model for the terminal presenter
type Model struct {
	session ports.SessionService
	events  <-chan entities.SyncEvent
	opts    Options

	viewport viewport.Model
	bodies   *cache.MemoryCache[string]
	// deck the cached bodies were rendered from
	bodiesDeck *entities.Deck
	width    int
	height   int
	ready    bool

	// what the viewport currently shows
	shownDeck  *entities.Deck
	shownIndex int
	shownWidth int

	showHelp  bool
	showTOC   bool
	tocCursor int
	status    string
	err       error
}

// NewModel subscribes to session and returns a model positioned on its
// current slide
func NewModel(session ports.SessionService, opts Options) *Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Padding(0, 1)

	return &Model{
		session:    session,
		events:     session.Subscribe(ClientID),
		opts:       opts,
		viewport:   vp,
		bodies:     cache.NewMemoryCache[string](cachedBodies, 0),
		shownIndex: -1,
	}
}

// Close detaches the model from the session
func (m *Model) Close() {
	m.session.Unsubscribe(ClientID)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent turns the next session event into a tea.Msg
func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return sessionClosedMsg{}
		}
		return syncMsg{event: event}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncMsg:
		if msg.event.Type == entities.SyncEventReload {
			m.status = "deck reloaded"
			m.shownDeck = nil
			m.bodies.Clear()
		}
		m.refresh()
		return m, m.waitForEvent()

	case sessionClosedMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch key {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showTOC {
		return m, m.handleTOCKey(key)
	}

	m.status = ""
	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "t":
		m.showTOC = true
		m.tocCursor = m.session.State().Index
	case "right", "l", "n", " ", "space", "pgdown":
		m.navigate(entities.ActionNext, 0)
	case "left", "h", "p", "pgup":
		m.navigate(entities.ActionPrev, 0)
	case "home", "g":
		m.navigate(entities.ActionFirst, 0)
	case "end", "G":
		m.navigate(entities.ActionLast, 0)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(key[0] - '0')
		if _, ok := m.navigate(entities.ActionGoto, n-1); !ok {
			m.status = fmt.Sprintf("there is no slide %d", n)
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTOCKey(key string) tea.Cmd {
	total := m.session.State().Total

	switch key {
	case "j", "down":
		if m.tocCursor < total-1 {
			m.tocCursor++
		}
	case "k", "up":
		if m.tocCursor > 0 {
			m.tocCursor--
		}
	case "g", "home":
		m.tocCursor = 0
	case "G", "end":
		m.tocCursor = total - 1
	case "enter", " ", "space":
		m.navigate(entities.ActionGoto, m.tocCursor)
		m.showTOC = false
	case "t", "esc":
		m.showTOC = false
	case "q":
		return tea.Quit
	}
	return nil
}

// navigate goes through the session so other views follow, then redraws
// without waiting for the echoed event
func (m *Model) navigate(action entities.NavigationAction, target int) (entities.NavigationState, bool) {
	state, ok := m.session.Navigate(action, target)
	m.refresh()
	return state, ok
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= headerHeight+footerHeight {
		return
	}

	m.width = width
	m.height = height
	m.ready = true

	m.viewport.Width = width
	m.viewport.Height = height - headerHeight - footerHeight
	m.refresh()
}

// refresh re-renders the body when the slide, deck or width changed
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	deck := m.session.Deck()
	state := m.session.State()
	wrap := m.wrapWidth()

	if deck == m.shownDeck && state.Index == m.shownIndex && wrap == m.shownWidth {
		return
	}

	// a reload event may have been dropped for a slow subscriber
	if deck != m.bodiesDeck {
		m.bodies.Clear()
		m.bodiesDeck = deck
	}

	slide := m.session.CurrentSlide()
	key := fmt.Sprintf("%d/%s/%d", state.Index, slide.ID, wrap)

	body, ok := m.bodies.Get(key)
	if !ok {
		var err error
		body, err = renderBody(slide.Body, m.opts.Style, wrap)
		if err != nil {
			m.err = err
			return
		}
		m.bodies.Set(key, body)
	}

	m.err = nil
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
	m.shownDeck = deck
	m.shownIndex = state.Index
	m.shownWidth = wrap
}

func (m *Model) wrapWidth() int {
	wrap := m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize()
	if wrap > maxWrap {
		wrap = maxWrap
	}
	if m.opts.WordWrap > 0 && m.opts.WordWrap < wrap {
		wrap = m.opts.WordWrap
	}
	if wrap < 0 {
		wrap = 0
	}
	return wrap
}

// renderBody renders slide markdown for the terminal
func renderBody(markdown, style string, wrap int) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	if style == "" {
		style = "tokyo-night"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", fmt.Errorf("creating %s renderer: %w", style, err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering slide body: %w", err)
	}
	return out, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading…"
	}

	if m.showHelp {
		return m.overlay(helpText())
	}
	if m.showTOC {
		return m.overlay(m.renderTOC())
	}

	state := m.session.State()
	slide := m.session.CurrentSlide()

	parts := []string{
		m.renderHeader(state),
		m.renderSlideHeading(slide),
		m.viewport.View(),
		renderDots(state),
		m.renderFooter(state),
	}

	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	} else if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) overlay(content string) string {
	box := overlayStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderHeader shows the deck title, "Slide i of N" and a progress bar
func (m *Model) renderHeader(state entities.NavigationState) string {
	deck := m.session.Deck()
	title := titleStyle.Render(deck.Title)
	if deck.Description != "" {
		title += " " + subtleStyle.Render(deck.Description)
	}

	counter := counterStyle.Render(fmt.Sprintf("Slide %d of %d", state.Position, state.Total))
	return title + "\n" + counter + " " + progressBar(state.Progress, barWidth) +
		" " + subtleStyle.Render(fmt.Sprintf("%.0f%%", state.Progress))
}

func (m *Model) renderSlideHeading(slide entities.Slide) string {
	heading := slideTitle.Render(renderer.IconGlyph(slide.Icon) + " " + slide.DisplayTitle())
	if slide.Subtitle != "" {
		heading += "\n" + subtitleStyle.Render(slide.Subtitle)
	} else {
		heading += "\n"
	}

	if slide.IsCover() && m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, heading)
	}
	return heading
}

// progressBar draws progress (0-100) as a █░ bar of the given width
func progressBar(progress float64, width int) string {
	filled := int(progress/100*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}

// renderDots draws one selector per slide, the current one highlighted
func renderDots(state entities.NavigationState) string {
	dots := make([]string, state.Total)
	for i := range dots {
		if i == state.Index {
			dots[i] = activeDot.Render("●")
		} else {
			dots[i] = inactiveDot.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

// renderFooter shows key hints; prev/next are struck out at the boundaries
func (m *Model) renderFooter(state entities.NavigationState) string {
	hint := func(keys, desc string, enabled bool) string {
		if !enabled {
			return disabledStyle.Render(keys + " " + desc)
		}
		return keyStyle.Render(keys) + descStyle.Render(" "+desc)
	}

	hints := []string{
		hint("←/h", "previous", !state.AtStart),
		hint("→/l/space", "next", !state.AtEnd),
		hint("1-9", "jump", true),
		hint("t", "slides", true),
		hint("?", "help", true),
		hint("q", "quit", true),
	}
	return strings.Join(hints, subtleStyle.Render(" │ "))
}

func (m *Model) renderTOC() string {
	deck := m.session.Deck()
	current := m.session.State().Index

	var b strings.Builder
	b.WriteString(titleStyle.Render("Slides") + "\n\n")
	for i := range deck.Slides {
		marker := "  "
		line := fmt.Sprintf("%2d. %s", i+1, deck.Slides[i].DisplayTitle())
		if i == current {
			line += " " + subtleStyle.Render("(current)")
		}
		if i == m.tocCursor {
			marker = cursorStyle.Render("▸ ")
			line = cursorStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}
	b.WriteString("\n" + subtleStyle.Render("j/k select · enter open · esc close"))
	return b.String()
}

func helpText() string {
	return strings.Join([]string{
		titleStyle.Render("Keys"),
		"",
		"→ / l / n / space : next slide",
		"← / h / p         : previous slide",
		"1-9               : jump to slide",
		"g / G             : first / last slide",
		"j / k             : scroll the slide body",
		"t                 : slide list",
		"?                 : close this help",
		"q / ctrl+c        : quit",
	}, "\n")
}
