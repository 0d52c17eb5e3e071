package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

const subscriberBuffer = 10

// SessionService owns the navigator for one presentation session. Every
// view (HTTP handlers, websocket peers, the terminal presenter) goes through
// it, so navigator access is serialized here.
type SessionService struct {
	mu      sync.Mutex
	deck    *entities.Deck
	nav     *entities.Navigator
	clients map[string]chan entities.SyncEvent
	stopped bool
	logger  *logging.Logger
}

// NewSessionService starts a session on the first slide of deck
func NewSessionService(deck *entities.Deck, logger *logging.Logger) (*SessionService, error) {
	if deck == nil {
		return nil, errors.New("deck cannot be nil")
	}

	nav, err := entities.NewNavigator(deck.Slides)
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &SessionService{
		deck:    deck,
		nav:     nav,
		clients: make(map[string]chan entities.SyncEvent),
		logger:  logger,
	}, nil
}

var _ ports.SessionService = (*SessionService)(nil)

// Navigate applies action and broadcasts the new state when the position moved
func (s *SessionService) Navigate(action entities.NavigationAction, target int) (entities.NavigationState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(action, target)
}

// GoToID jumps to the slide with the given id. The id is resolved against
// the deck held under the same lock, so a concurrent Replace cannot slip in
// between lookup and jump.
func (s *SessionService) GoToID(id string) (entities.NavigationState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.deck.SlideByID(id)
	if !ok {
		s.logger.Debug("rejected goto unknown slide %q", id)
		return s.nav.State(), false
	}
	return s.navigateLocked(entities.ActionGoto, idx)
}

func (s *SessionService) navigateLocked(action entities.NavigationAction, target int) (entities.NavigationState, bool) {
	before := s.nav.CurrentIndex()
	accepted := s.nav.Apply(action, target)
	state := s.nav.State()

	if !accepted {
		s.logger.Debug("rejected %s (target %d) on slide %d of %d", action, target, state.Position, state.Total)
		return state, false
	}

	if state.Index != before {
		s.broadcastLocked(entities.NewSyncEvent(entities.SyncEventNavigation, state))
	}

	return state, true
}

// State returns the current navigation state
func (s *SessionService) State() entities.NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.State()
}

// CurrentSlide returns the slide at the current position
func (s *SessionService) CurrentSlide() entities.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.CurrentSlide()
}

// Deck returns the deck being presented. Callers must not modify it.
func (s *SessionService) Deck() *entities.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck
}

// Subscribe adds a client to receive sync events. The new subscriber
// immediately receives the current state.
func (s *SessionService) Subscribe(clientID string) <-chan entities.SyncEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan entities.SyncEvent, subscriberBuffer)
	if s.stopped {
		close(ch)
		return ch
	}

	if old, exists := s.clients[clientID]; exists {
		close(old)
	}
	s.clients[clientID] = ch
	ch <- entities.NewSyncEvent(entities.SyncEventState, s.nav.State())

	return ch
}

// Unsubscribe removes a client from sync events
func (s *SessionService) Unsubscribe(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, exists := s.clients[clientID]; exists {
		close(ch)
		delete(s.clients, clientID)
	}
}

// Replace swaps in a reloaded deck. Slides are fixed per navigator, so a new
// navigator is built and the previous position restored when still in range.
func (s *SessionService) Replace(deck *entities.Deck) error {
	if deck == nil {
		return errors.New("deck cannot be nil")
	}

	nav, err := entities.NewNavigator(deck.Slides)
	if err != nil {
		return fmt.Errorf("replacing deck: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.nav.CurrentIndex()
	if !nav.JumpTo(previous) {
		s.logger.Info("slide %d no longer exists after reload, returning to start", previous+1)
	}

	s.deck = deck
	s.nav = nav
	s.broadcastLocked(entities.NewSyncEvent(entities.SyncEventReload, nav.State()))

	return nil
}

// Subscribers returns the number of attached clients
func (s *SessionService) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Stop closes every subscription; later subscribers get a closed channel
func (s *SessionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for clientID, ch := range s.clients {
		close(ch)
		delete(s.clients, clientID)
	}
}

func (s *SessionService) broadcastLocked(event entities.SyncEvent) {
	for clientID, ch := range s.clients {
		select {
		case ch <- event:
		default:
			s.logger.Warn("client %s is slow, skipping %s event", clientID, event.Type)
		}
	}
}
