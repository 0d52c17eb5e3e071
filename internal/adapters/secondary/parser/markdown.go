package parser

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

const notePrefix = "Note:"

var attrComment = regexp.MustCompile(`^<!--\s*(.*?)\s*-->$`)

// deckMeta is the frontmatter block of a markdown deck
type deckMeta struct {
	Title       string `yaml:"title" toml:"title" json:"title"`
	Author      string `yaml:"author" toml:"author" json:"author"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Theme       string `yaml:"theme" toml:"theme" json:"theme"`
}

// MarkdownParser reads decks written as a single markdown file: optional
// frontmatter, slides separated by "---" lines, an optional attribute
// comment at the top of each slide and "Note:" lines for speaker notes.
type MarkdownParser struct{}

// NewMarkdownParser creates a new markdown deck parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

var _ ports.DeckParser = (*MarkdownParser)(nil)

// Supports reports whether name is a markdown file
func (p *MarkdownParser) Supports(name string) bool {
	switch extension(name) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Parse parses a markdown deck
func (p *MarkdownParser) Parse(ctx context.Context, name string, content []byte) (*entities.Deck, error) {
	var meta deckMeta
	rest, err := frontmatter.Parse(bytes.NewReader(normalizeNewlines(content)), &meta)
	if err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", name, err)
	}

	chunks := splitSlides(rest)
	deck := &entities.Deck{
		Title:       meta.Title,
		Author:      meta.Author,
		Description: meta.Description,
		Theme:       meta.Theme,
		Slides:      make([]entities.Slide, 0, len(chunks)),
	}

	derived := make([]bool, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slide, err := parseSlide(chunk, i)
		if err != nil {
			return nil, fmt.Errorf("parsing slide %d in %s: %w", i+1, name, err)
		}
		derived = append(derived, slide.ID == "")
		deck.Slides = append(deck.Slides, slide)
	}
	assignIDs(deck.Slides, derived)

	if deck.Title == "" && len(deck.Slides) > 0 {
		deck.Title = deck.Slides[0].DisplayTitle()
	}

	return deck, nil
}

// parseSlide turns one slide chunk into a slide
func parseSlide(chunk string, index int) (entities.Slide, error) {
	slide := entities.Slide{Index: index}

	lines := strings.Split(chunk, "\n")
	if len(lines) > 0 && !notesBlock.MatchString(lines[0]) {
		if m := attrComment.FindStringSubmatch(strings.TrimSpace(lines[0])); m != nil {
			if err := applyAttributes(&slide, m[1]); err != nil {
				return slide, err
			}
			lines = lines[1:]
		}
	}

	body, notes := extractNotes(strings.Join(lines, "\n"))
	title, body := extractTitle(body)

	if slide.Title == "" {
		slide.Title = title
	}
	slide.Body = strings.TrimSpace(body)
	slide.Notes = notes

	return slide, nil
}

// assignIDs gives every slide without an "id" attribute a slug of its title,
// suffixed "-2", "-3", ... when the slug is already taken. Explicit ids are
// left alone so duplicates among them still fail validation.
func assignIDs(slides []entities.Slide, derived []bool) {
	taken := make(map[string]bool, len(slides))
	for i := range slides {
		if !derived[i] {
			taken[slides[i].ID] = true
		}
	}

	for i := range slides {
		if !derived[i] {
			continue
		}
		base := slugify(slides[i].Title)
		if base == "" {
			base = "slide-" + strconv.Itoa(i+1)
		}
		id := base
		for n := 2; taken[id]; n++ {
			id = base + "-" + strconv.Itoa(n)
		}
		taken[id] = true
		slides[i].ID = id
	}
}

// applyAttributes reads "key: value | key: value" pairs
func applyAttributes(slide *entities.Slide, attrs string) error {
	for _, pair := range strings.Split(attrs, "|") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("malformed slide attribute %q", pair)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "id":
			slide.ID = value
		case "title":
			slide.Title = value
		case "subtitle":
			slide.Subtitle = value
		case "icon":
			slide.Icon = value
		case "type", "kind":
			slide.Kind = entities.SlideKind(strings.ToLower(value))
		default:
			return fmt.Errorf("unknown slide attribute %q", key)
		}
	}
	return nil
}

// notesBlock matches "<!-- NOTES: -->" sections, closed by "<!-- END NOTES -->"
// or the end of the slide
var notesBlock = regexp.MustCompile(`(?is)<!--\s*notes:?\s*-->(.*?)(?:<!--\s*end\s*notes\s*-->|\z)`)

// extractNotes separates speaker notes from the slide body: NOTES blocks
// first, then "Note:" lines
func extractNotes(content string) (body string, notes string) {
	var bodyLines, noteParts []string

	if notesBlock.MatchString(content) {
		for _, match := range notesBlock.FindAllStringSubmatch(content, -1) {
			if note := strings.TrimSpace(match[1]); note != "" {
				noteParts = append(noteParts, note)
			}
		}
		content = strings.TrimSpace(notesBlock.ReplaceAllString(content, ""))
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, notePrefix) {
			if note := strings.TrimSpace(strings.TrimPrefix(trimmed, notePrefix)); note != "" {
				noteParts = append(noteParts, note)
			}
			continue
		}
		bodyLines = append(bodyLines, line)
	}

	return strings.Join(bodyLines, "\n"), strings.Join(noteParts, "\n\n")
}

// extractTitle pulls the first level-one heading out of the body
func extractTitle(body string) (title string, rest string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			return title, strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		}
		break
	}
	return "", body
}

// splitSlides splits content on "---" separator lines
func splitSlides(content []byte) []string {
	var slides []string
	var current []string

	flush := func() {
		if s := strings.TrimSpace(strings.Join(current, "\n")); s != "" {
			slides = append(slides, s)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return slides
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}

// slugify lowercases s and joins its alphanumeric runs with dashes
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}
