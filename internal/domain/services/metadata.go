package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

const (
	defaultSlideDuration = time.Minute
	defaultCategory      = "Education"
	maxTags              = 15
	rule                 = "----------------------------------------"
)

// commonTags are appended after the deck's own tags when room is left
var commonTags = []string{
	"tutorial", "how to", "learn", "beginner", "guide",
	"programming", "coding", "development", "software",
}

// MetadataOptions tunes BuildMetadata
type MetadataOptions struct {
	// SlideDuration is the time each slide stays on screen in the recording
	SlideDuration time.Duration
	// Durations overrides SlideDuration per slide id
	Durations map[string]time.Duration
	Tags      []string
	Category  string
	Links     []entities.Link
	Now       func() time.Time
}

// BuildMetadata derives upload metadata for a recorded run through deck:
// one chapter per slide, a description listing the chapters and tags
// seeded from the deck title.
func BuildMetadata(deck *entities.Deck, opts MetadataOptions) (*entities.VideoMetadata, error) {
	if deck == nil {
		return nil, errors.New("deck cannot be nil")
	}
	if deck.SlideCount() == 0 {
		return nil, entities.ErrEmptyDeck
	}

	step := opts.SlideDuration
	if step <= 0 {
		step = defaultSlideDuration
	}
	category := opts.Category
	if category == "" {
		category = defaultCategory
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	for id := range opts.Durations {
		if _, ok := deck.SlideByID(id); !ok {
			return nil, fmt.Errorf("duration given for unknown slide %q", id)
		}
	}

	chapters := make([]entities.Chapter, 0, deck.SlideCount())
	var offset time.Duration
	for i := range deck.Slides {
		slide := &deck.Slides[i]
		chapters = append(chapters, entities.Chapter{
			Time:    entities.FormatTimestamp(offset),
			Label:   slide.DisplayTitle(),
			SlideID: slide.ID,
			Offset:  offset,
		})

		d, ok := opts.Durations[slide.ID]
		if !ok || d <= 0 {
			d = step
		}
		offset += d
	}

	meta := &entities.VideoMetadata{
		Title:         deck.Title,
		Description:   buildDescription(deck, chapters, opts.Links),
		Tags:          SEOTags(opts.Tags, deck.Title),
		Category:      category,
		Chapters:      chapters,
		Links:         opts.Links,
		PrivacyStatus: "public",
		Embeddable:    true,
		Language:      "en",
		RecordingDate: now().Format("2006-01-02"),
	}

	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("building metadata: %w", err)
	}
	return meta, nil
}

func buildDescription(deck *entities.Deck, chapters []entities.Chapter, links []entities.Link) string {
	intro := strings.TrimSpace(deck.Description)
	if intro == "" {
		intro = deck.Title
	}

	lines := []string{intro, ""}

	lines = append(lines, "TIMESTAMPS", rule)
	for _, ch := range chapters {
		lines = append(lines, ch.Time+" - "+ch.Label)
	}

	if len(links) > 0 {
		lines = append(lines, "", "LINKS & RESOURCES", rule)
		for _, link := range links {
			lines = append(lines, link.Label+": "+link.URL)
		}
	}

	return strings.Join(lines, "\n")
}

// SEOTags extends base with the longer words of topic and a set of common
// tags, dropping duplicates and keeping at most 15.
func SEOTags(base []string, topic string) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0, maxTags)

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] || len(tags) == maxTags {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, tag := range base {
		add(tag)
	}
	for _, word := range strings.FieldsFunc(topic, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(word)) > 3 {
			add(word)
		}
	}
	for _, tag := range commonTags {
		add(tag)
	}

	return tags
}
