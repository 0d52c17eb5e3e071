package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// Registry dispatches to the first parser that supports a file name
type Registry struct {
	parsers []ports.DeckParser
}

// NewRegistry creates a registry over parsers; with none given it uses the
// markdown, YAML and TOML parsers
func NewRegistry(parsers ...ports.DeckParser) *Registry {
	if len(parsers) == 0 {
		parsers = []ports.DeckParser{NewMarkdownParser(), NewYAMLParser(), NewTOMLParser()}
	}
	return &Registry{parsers: parsers}
}

var _ ports.DeckParser = (*Registry)(nil)

// Supports reports whether any parser handles name
func (r *Registry) Supports(name string) bool {
	return r.find(name) != nil
}

// Parse parses content with the matching parser
func (r *Registry) Parse(ctx context.Context, name string, content []byte) (*entities.Deck, error) {
	p := r.find(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnsupportedFormat, name)
	}
	return p.Parse(ctx, name, content)
}

// ParseFile reads and parses the deck at path
func (r *Registry) ParseFile(ctx context.Context, path string) (*entities.Deck, error) {
	if !r.Supports(path) {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnsupportedFormat, path)
	}

	// #nosec G304 - deck paths come from the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}

	return r.Parse(ctx, filepath.Base(path), content)
}

// Extensions lists the supported file extensions
func Extensions() []string {
	return []string{".md", ".markdown", ".yaml", ".yml", ".toml"}
}

func (r *Registry) find(name string) ports.DeckParser {
	for _, p := range r.parsers {
		if p.Supports(name) {
			return p
		}
	}
	return nil
}

func extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
