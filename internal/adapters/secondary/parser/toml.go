package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// TOMLParser reads decks stored as TOML with [[slides]] tables
type TOMLParser struct{}

// NewTOMLParser creates a new TOML deck parser
func NewTOMLParser() *TOMLParser {
	return &TOMLParser{}
}

var _ ports.DeckParser = (*TOMLParser)(nil)

// Supports reports whether name is a TOML file
func (p *TOMLParser) Supports(name string) bool {
	return extension(name) == ".toml"
}

// Parse decodes a TOML deck
func (p *TOMLParser) Parse(_ context.Context, name string, content []byte) (*entities.Deck, error) {
	var deck entities.Deck
	md, err := toml.Decode(string(content), &deck)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decoding %s: unknown keys %s", name, strings.Join(keys, ", "))
	}

	return &deck, nil
}
