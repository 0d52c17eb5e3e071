package ports

import (
	"context"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

// DeckRepository defines the interface for loading and watching deck files
type DeckRepository interface {
	// Load reads, parses and returns the deck at path (not yet validated)
	Load(ctx context.Context, path string) (*entities.Deck, error)

	// Watch monitors a deck file for changes and sends events
	Watch(ctx context.Context, path string) (<-chan FileChangeEvent, error)
}

// DeckSource provides the built-in deck used when no file is given
type DeckSource interface {
	DefaultDeck() (name string, content []byte)
}
