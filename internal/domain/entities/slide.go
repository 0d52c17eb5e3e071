package entities

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SlideKind controls how a slide header is laid out
type SlideKind string

const (
	// SlideKindCover is a title slide with a large centered icon
	SlideKindCover SlideKind = "cover"

	// SlideKindContent is a regular slide with a heading row
	SlideKindContent SlideKind = "content"
)

// Label returns the kind formatted for display ("Cover", "Content")
func (k SlideKind) Label() string {
	if k == "" {
		k = SlideKindContent
	}
	return cases.Title(language.English).String(string(k))
}

// Slide represents a single slide in a deck.
//
// The navigator only ever reads ID; everything else is author content
// that the rendering layers display as-is.
type Slide struct {
	// ID is a stable identifier, used as the key for per-slide selectors
	ID string `json:"id" yaml:"id" toml:"id"`

	// Index is the slide position in the deck (0-based)
	Index int `json:"index" yaml:"-" toml:"-"`

	// Title is the display title
	Title string `json:"title" yaml:"title" toml:"title"`

	// Subtitle is shown beneath the title
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle" toml:"subtitle"`

	// Icon is a symbolic icon name (see renderer.IconGlyph)
	Icon string `json:"icon,omitempty" yaml:"icon" toml:"icon"`

	// Kind selects the header layout
	Kind SlideKind `json:"type" yaml:"type" toml:"type"`

	// Body is the markdown body content
	Body string `json:"body" yaml:"body" toml:"body"`

	// HTML is the rendered body (populated by the deck service)
	HTML string `json:"html,omitempty" yaml:"-" toml:"-"`

	// Notes contains speaker notes for this slide
	Notes string `json:"notes,omitempty" yaml:"notes" toml:"notes"`
}

// Validate ensures the slide can be keyed and displayed
func (s *Slide) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("slide id cannot be empty")
	}

	if strings.TrimSpace(s.Title) == "" && strings.TrimSpace(s.Body) == "" {
		return errors.New("slide must have a title or a body")
	}

	if s.Index < 0 {
		return errors.New("slide index must be non-negative")
	}

	switch s.Kind {
	case "", SlideKindCover, SlideKindContent:
	default:
		return errors.New("slide type must be cover or content")
	}

	return nil
}

// DisplayTitle returns the title, falling back to the first H1 in the body
// and finally to "Slide N"
func (s *Slide) DisplayTitle() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}

	for _, line := range strings.Split(s.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimPrefix(trimmed, "# ")
		}
	}

	return "Slide " + strconv.Itoa(s.Index+1)
}

// IsCover returns true for cover slides
func (s *Slide) IsCover() bool {
	return s.Kind == SlideKindCover
}

// HasNotes returns true if the slide has speaker notes
func (s *Slide) HasNotes() bool {
	return strings.TrimSpace(s.Notes) != ""
}
