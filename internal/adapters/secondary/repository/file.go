package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// maxDeckSize bounds how much of a deck file is read
const maxDeckSize = 10 << 20

// FileRepository loads decks from disk
type FileRepository struct {
	parser  ports.DeckParser
	watcher ports.FileWatcher
}

// NewFileRepository creates a repository. watcher may be nil when the
// caller never watches.
func NewFileRepository(parser ports.DeckParser, watcher ports.FileWatcher) *FileRepository {
	return &FileRepository{
		parser:  parser,
		watcher: watcher,
	}
}

var _ ports.DeckRepository = (*FileRepository)(nil)

// Load reads and parses the deck at path
func (r *FileRepository) Load(ctx context.Context, path string) (*entities.Deck, error) {
	name := filepath.Base(path)
	if !r.parser.Supports(name) {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnsupportedFormat, name)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat deck: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxDeckSize {
		return nil, fmt.Errorf("deck file too large: %d bytes", info.Size())
	}

	// #nosec G304 - deck paths come from the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}

	deck, err := r.parser.Parse(ctx, name, content)
	if err != nil {
		return nil, err
	}
	deck.Source = path

	return deck, nil
}

// Watch monitors the deck file for changes
func (r *FileRepository) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	if r.watcher == nil {
		return nil, fmt.Errorf("watching is not enabled")
	}
	return r.watcher.Watch(ctx, path)
}
