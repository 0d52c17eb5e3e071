package builders

import (
	"fmt"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

// DeckBuilder helps build Deck entities for testing
type DeckBuilder struct {
	deck *entities.Deck
}

// NewDeckBuilder creates a new deck builder with sensible defaults
func NewDeckBuilder() *DeckBuilder {
	return &DeckBuilder{
		deck: &entities.Deck{
			Title:  "Test Deck",
			Author: "Test Author",
			Theme:  "default",
			Slides: []entities.Slide{},
		},
	}
}

// WithTitle sets the deck title
func (b *DeckBuilder) WithTitle(title string) *DeckBuilder {
	b.deck.Title = title
	return b
}

// WithAuthor sets the deck author
func (b *DeckBuilder) WithAuthor(author string) *DeckBuilder {
	b.deck.Author = author
	return b
}

// WithSource sets the file the deck pretends to come from
func (b *DeckBuilder) WithSource(path string) *DeckBuilder {
	b.deck.Source = path
	return b
}

// WithSlide appends a slide, fixing up its index
func (b *DeckBuilder) WithSlide(slide entities.Slide) *DeckBuilder {
	slide.Index = len(b.deck.Slides)
	b.deck.Slides = append(b.deck.Slides, slide)
	return b
}

// WithSlideCount appends count generated slides ("s1", "s2", ...)
func (b *DeckBuilder) WithSlideCount(count int) *DeckBuilder {
	for i := 0; i < count; i++ {
		n := len(b.deck.Slides) + 1
		b.WithSlide(NewSlideBuilder().
			WithID(fmt.Sprintf("s%d", n)).
			WithTitle(fmt.Sprintf("Slide %d", n)).
			WithBody(fmt.Sprintf("Body of slide %d", n)).
			Build())
	}
	return b
}

// Build returns a copy of the deck
func (b *DeckBuilder) Build() *entities.Deck {
	deck := *b.deck
	deck.Slides = make([]entities.Slide, len(b.deck.Slides))
	copy(deck.Slides, b.deck.Slides)
	return &deck
}

// SlideBuilder helps build Slide entities for testing
type SlideBuilder struct {
	slide entities.Slide
}

// NewSlideBuilder creates a new slide builder
func NewSlideBuilder() *SlideBuilder {
	return &SlideBuilder{
		slide: entities.Slide{
			ID:    "slide",
			Title: "Test Slide",
			Kind:  entities.SlideKindContent,
		},
	}
}

// WithID sets the slide id
func (b *SlideBuilder) WithID(id string) *SlideBuilder {
	b.slide.ID = id
	return b
}

// WithTitle sets the slide title
func (b *SlideBuilder) WithTitle(title string) *SlideBuilder {
	b.slide.Title = title
	return b
}

// WithSubtitle sets the slide subtitle
func (b *SlideBuilder) WithSubtitle(subtitle string) *SlideBuilder {
	b.slide.Subtitle = subtitle
	return b
}

// WithIcon sets the slide icon name
func (b *SlideBuilder) WithIcon(icon string) *SlideBuilder {
	b.slide.Icon = icon
	return b
}

// AsCover marks the slide as a cover slide
func (b *SlideBuilder) AsCover() *SlideBuilder {
	b.slide.Kind = entities.SlideKindCover
	return b
}

// WithBody sets the markdown body
func (b *SlideBuilder) WithBody(body string) *SlideBuilder {
	b.slide.Body = body
	return b
}

// WithHTML sets the rendered body
func (b *SlideBuilder) WithHTML(html string) *SlideBuilder {
	b.slide.HTML = html
	return b
}

// WithNotes sets the speaker notes
func (b *SlideBuilder) WithNotes(notes string) *SlideBuilder {
	b.slide.Notes = notes
	return b
}

// Build returns the slide
func (b *SlideBuilder) Build() entities.Slide {
	return b.slide
}

// MinimalDeck returns a valid single-slide deck
func MinimalDeck() *entities.Deck {
	return NewDeckBuilder().
		WithTitle("Minimal Deck").
		WithSlideCount(1).
		Build()
}

// TenSlideDeck returns a valid ten-slide deck
func TenSlideDeck() *entities.Deck {
	return NewDeckBuilder().
		WithTitle("Ten Slides").
		WithSlideCount(10).
		Build()
}
