package entities

import "errors"

// ErrEmptyDeck is returned when a navigator is built without slides
var ErrEmptyDeck = errors.New("deck must have at least one slide")

// NavigationAction names a navigation request coming from a rendering layer
type NavigationAction string

const (
	ActionNext  NavigationAction = "next"
	ActionPrev  NavigationAction = "prev"
	ActionGoto  NavigationAction = "goto"
	ActionFirst NavigationAction = "first"
	ActionLast  NavigationAction = "last"
)

// Navigator tracks the current position in a fixed, ordered slide list.
//
// The slide list is copied at construction and never changes afterwards;
// the current index is only moved by Advance, Retreat and JumpTo and always
// stays within [0, Len()-1]. A Navigator is not safe for concurrent use.
type Navigator struct {
	slides  []Slide
	current int
}

// NewNavigator creates a navigator positioned on the first slide
func NewNavigator(slides []Slide) (*Navigator, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyDeck
	}

	owned := make([]Slide, len(slides))
	copy(owned, slides)

	return &Navigator{slides: owned}, nil
}

// Advance moves to the next slide. It is a no-op on the last slide and
// reports whether the position changed.
func (n *Navigator) Advance() bool {
	if n.current >= len(n.slides)-1 {
		return false
	}
	n.current++
	return true
}

// Retreat moves to the previous slide. It is a no-op on the first slide and
// reports whether the position changed.
func (n *Navigator) Retreat() bool {
	if n.current <= 0 {
		return false
	}
	n.current--
	return true
}

// JumpTo moves to index. Out-of-range targets are rejected without touching
// the current position; the return value reports whether the jump was accepted.
func (n *Navigator) JumpTo(index int) bool {
	if index < 0 || index >= len(n.slides) {
		return false
	}
	n.current = index
	return true
}

// Apply dispatches a named action. target is only read by ActionGoto.
// It reports whether the action was recognized and accepted.
func (n *Navigator) Apply(action NavigationAction, target int) bool {
	switch action {
	case ActionNext:
		n.Advance()
	case ActionPrev:
		n.Retreat()
	case ActionGoto:
		return n.JumpTo(target)
	case ActionFirst:
		n.current = 0
	case ActionLast:
		n.current = len(n.slides) - 1
	default:
		return false
	}
	return true
}

// CurrentSlide returns the slide at the current position
func (n *Navigator) CurrentSlide() Slide {
	return n.slides[n.current]
}

// CurrentIndex returns the 0-based current position
func (n *Navigator) CurrentIndex() int {
	return n.current
}

// Position returns the 1-based display position
func (n *Navigator) Position() int {
	return n.current + 1
}

// Len returns the number of slides
func (n *Navigator) Len() int {
	return len(n.slides)
}

// Slides returns a copy of the slide list
func (n *Navigator) Slides() []Slide {
	out := make([]Slide, len(n.slides))
	copy(out, n.slides)
	return out
}

// Progress returns how far through the deck the current position is, in
// [0, 100]. A single-slide deck reports 0.
func (n *Navigator) Progress() float64 {
	if len(n.slides) <= 1 {
		return 0
	}
	return float64(n.current) / float64(len(n.slides)-1) * 100
}

// IsAtStart reports whether Retreat would be a no-op
func (n *Navigator) IsAtStart() bool {
	return n.current == 0
}

// IsAtEnd reports whether Advance would be a no-op
func (n *Navigator) IsAtEnd() bool {
	return n.current == len(n.slides)-1
}

// State returns a snapshot of the derived display state
func (n *Navigator) State() NavigationState {
	slide := n.slides[n.current]
	return NavigationState{
		Index:      n.current,
		Position:   n.current + 1,
		Total:      len(n.slides),
		Progress:   n.Progress(),
		AtStart:    n.IsAtStart(),
		AtEnd:      n.IsAtEnd(),
		SlideID:    slide.ID,
		SlideTitle: slide.DisplayTitle(),
	}
}

// NavigationState is what rendering layers observe after every change
type NavigationState struct {
	Index      int     `json:"index"`
	Position   int     `json:"position"`
	Total      int     `json:"total"`
	Progress   float64 `json:"progress"`
	AtStart    bool    `json:"atStart"`
	AtEnd      bool    `json:"atEnd"`
	SlideID    string  `json:"slideId"`
	SlideTitle string  `json:"slideTitle"`
}
