package ports

import (
	"context"
	"errors"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

// ErrUnsupportedFormat is returned when no parser handles a deck file
var ErrUnsupportedFormat = errors.New("unsupported deck format")

// DeckParser turns a deck file's bytes into an unvalidated deck
type DeckParser interface {
	// Parse decodes content; name is the file name and is used for
	// format detection and error messages
	Parse(ctx context.Context, name string, content []byte) (*entities.Deck, error)

	// Supports reports whether the parser handles files with this name
	Supports(name string) bool
}
