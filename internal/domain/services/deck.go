package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

// DeckService implements the business logic for loading decks
type DeckService struct {
	repo     ports.DeckRepository
	parser   ports.DeckParser
	source   ports.DeckSource
	renderer ports.BodyRenderer
	logger   *logging.Logger
}

// NewDeckService creates a new deck service instance
func NewDeckService(
	repo ports.DeckRepository,
	parser ports.DeckParser,
	source ports.DeckSource,
	renderer ports.BodyRenderer,
	logger *logging.Logger,
) *DeckService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DeckService{
		repo:     repo,
		parser:   parser,
		source:   source,
		renderer: renderer,
		logger:   logger,
	}
}

var _ ports.DeckService = (*DeckService)(nil)

// LoadDeck loads a deck from a file path, or the built-in deck when path is empty
func (s *DeckService) LoadDeck(ctx context.Context, path string) (*entities.Deck, error) {
	if path == "" {
		if s.source == nil {
			return nil, errors.New("no deck path given and no built-in deck available")
		}
		name, content := s.source.DefaultDeck()
		s.logger.Debug("loading built-in deck %s", name)
		return s.ParseDeck(ctx, name, content)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deck file not found: %s", path)
		}
		return nil, fmt.Errorf("checking deck file: %w", err)
	}

	deck, err := s.repo.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading deck: %w", err)
	}
	deck.Source = path

	if err := s.prepare(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.Debug("loaded %q from %s (%d slides)", deck.Title, path, deck.SlideCount())
	return deck, nil
}

// ParseDeck parses in-memory deck content
func (s *DeckService) ParseDeck(ctx context.Context, name string, content []byte) (*entities.Deck, error) {
	if len(content) == 0 {
		return nil, errors.New("deck content cannot be empty")
	}

	if !s.parser.Supports(name) {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnsupportedFormat, name)
	}

	deck, err := s.parser.Parse(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("parsing deck: %w", err)
	}

	if err := s.prepare(ctx, deck); err != nil {
		return nil, err
	}

	return deck, nil
}

// LoadDeckFromReader parses a deck read from r
func (s *DeckService) LoadDeckFromReader(ctx context.Context, name string, r io.Reader) (*entities.Deck, error) {
	if r == nil {
		return nil, errors.New("reader cannot be nil")
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	return s.ParseDeck(ctx, name, content)
}

// WatchDeck watches a deck file for changes
func (s *DeckService) WatchDeck(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	if path == "" {
		return nil, errors.New("deck path cannot be empty")
	}
	return s.repo.Watch(ctx, path)
}

// prepare validates the deck and renders every slide body
func (s *DeckService) prepare(ctx context.Context, deck *entities.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}

	if s.renderer == nil {
		return nil
	}

	for i := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		html, err := s.renderer.RenderBody(ctx, deck.Slides[i].Body)
		if err != nil {
			return fmt.Errorf("rendering slide %d: %w", i+1, err)
		}
		deck.Slides[i].HTML = html
	}

	return nil
}
