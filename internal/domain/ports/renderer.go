package ports

import (
	"context"
	"io"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

// BodyRenderer converts a slide's markdown body to HTML
type BodyRenderer interface {
	RenderBody(ctx context.Context, markdown string) (string, error)
}

// PageRenderer renders the full slideshow page for a navigation state
type PageRenderer interface {
	RenderPage(ctx context.Context, deck *entities.Deck, state entities.NavigationState) ([]byte, error)
}

// ProgressRenderer draws a standalone progress indicator
type ProgressRenderer interface {
	RenderProgress(w io.Writer, state entities.NavigationState) error
}
