package ports

import (
	"context"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

// DeckService defines the main service interface for decks
type DeckService interface {
	// LoadDeck loads, validates and renders a deck; an empty path selects
	// the built-in deck
	LoadDeck(ctx context.Context, path string) (*entities.Deck, error)

	// ParseDeck runs the same pipeline over in-memory content
	ParseDeck(ctx context.Context, name string, content []byte) (*entities.Deck, error)

	// WatchDeck watches a deck file for changes
	WatchDeck(ctx context.Context, path string) (<-chan FileChangeEvent, error)
}

// SessionService owns the navigator for one presentation session and
// fans state changes out to every attached view
type SessionService interface {
	// Navigate applies an action and reports whether it was accepted
	Navigate(action entities.NavigationAction, target int) (entities.NavigationState, bool)

	// State returns the current navigation state
	State() entities.NavigationState

	// CurrentSlide returns the slide at the current position
	CurrentSlide() entities.Slide

	// Deck returns the deck being presented
	Deck() *entities.Deck

	// Subscribe adds a client to receive sync events
	Subscribe(clientID string) <-chan entities.SyncEvent

	// Unsubscribe removes a client from sync events
	Unsubscribe(clientID string)

	// Replace swaps in a reloaded deck, keeping the position when possible
	Replace(deck *entities.Deck) error

	// Stop closes every subscription
	Stop()
}
