package entities

import (
	"errors"
	"fmt"
)

// ErrInvalidDeck is wrapped by every deck validation failure
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is an ordered, non-empty list of slides plus display metadata.
// A deck is loaded once and treated as read-only afterwards.
type Deck struct {
	// Title is the deck title
	Title string `yaml:"title" toml:"title" json:"title"`

	// Author is the deck creator
	Author string `yaml:"author" toml:"author" json:"author,omitempty"`

	// Description is a one-line summary
	Description string `yaml:"description" toml:"description" json:"description,omitempty"`

	// Theme is a hint for rendering layers
	Theme string `yaml:"theme" toml:"theme" json:"theme"`

	// Slides contains all slides in order
	Slides []Slide `yaml:"slides" toml:"slides" json:"slides"`

	// Source is the file the deck was loaded from ("" for the built-in deck)
	Source string `yaml:"-" toml:"-" json:"-"`
}

// Validate ensures the deck has valid required fields and normalizes
// slide indices, kinds and the theme
func (d *Deck) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("%w: deck title is required", ErrInvalidDeck)
	}

	if len(d.Slides) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDeck, ErrEmptyDeck)
	}

	seen := make(map[string]int, len(d.Slides))
	for i := range d.Slides {
		slide := &d.Slides[i]
		slide.Index = i
		if slide.Kind == "" {
			slide.Kind = SlideKindContent
		}

		if err := slide.Validate(); err != nil {
			return fmt.Errorf("%w: slide %d: %w", ErrInvalidDeck, i+1, err)
		}

		if prev, dup := seen[slide.ID]; dup {
			return fmt.Errorf("%w: slide %d reuses id %q from slide %d", ErrInvalidDeck, i+1, slide.ID, prev+1)
		}
		seen[slide.ID] = i
	}

	if d.Theme == "" {
		d.Theme = "default"
	}

	return nil
}

// SlideCount returns the total number of slides
func (d *Deck) SlideCount() int {
	return len(d.Slides)
}

// SlideByID returns the index of the slide with the given id
func (d *Deck) SlideByID(id string) (int, bool) {
	for i := range d.Slides {
		if d.Slides[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
