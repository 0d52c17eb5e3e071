package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// YAMLParser reads decks stored as a YAML data table
type YAMLParser struct{}

// NewYAMLParser creates a new YAML deck parser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

var _ ports.DeckParser = (*YAMLParser)(nil)

// Supports reports whether name is a YAML file
func (p *YAMLParser) Supports(name string) bool {
	switch extension(name) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Parse decodes a YAML deck. Unknown keys are rejected so typos in slide
// fields surface instead of silently dropping content.
func (p *YAMLParser) Parse(_ context.Context, name string, content []byte) (*entities.Deck, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var deck entities.Deck
	if err := dec.Decode(&deck); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s is empty", name)
		}
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	return &deck, nil
}
