// Package content holds the built-in deck shipped inside the binary.
package content

import (
	_ "embed"

	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// DefaultDeckName is the file name the built-in deck is parsed and exported as
const DefaultDeckName = "portfolio.yaml"

// PortfolioYAML is the portfolio website tutorial deck.
//
//go:embed portfolio.yaml
var PortfolioYAML []byte

// Source serves the embedded deck
type Source struct{}

// NewSource creates a source for the embedded deck
func NewSource() *Source {
	return &Source{}
}

var _ ports.DeckSource = (*Source)(nil)

// DefaultDeck returns the embedded deck. The returned slice is a copy.
func (s *Source) DefaultDeck() (string, []byte) {
	out := make([]byte, len(PortfolioYAML))
	copy(out, PortfolioYAML)
	return DefaultDeckName, out
}
