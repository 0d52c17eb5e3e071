package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MetadataFormat is the encoding used when writing video metadata
type MetadataFormat string

const (
	MetadataFormatJSON MetadataFormat = "json"
	MetadataFormatYAML MetadataFormat = "yaml"
)

// ErrInvalidMetadata is wrapped by every metadata validation failure
var ErrInvalidMetadata = errors.New("invalid metadata")

// Chapter marks where a slide starts in a recorded walkthrough of the deck
type Chapter struct {
	Time    string        `json:"time" yaml:"time"`
	Label   string        `json:"label" yaml:"label"`
	SlideID string        `json:"slideId" yaml:"slide_id"`
	Offset  time.Duration `json:"-" yaml:"-"`
}

// Link is an extra resource listed under the description
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// VideoMetadata describes the upload of a recorded presentation
type VideoMetadata struct {
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description" yaml:"description"`
	Tags          []string  `json:"tags" yaml:"tags"`
	Category      string    `json:"category" yaml:"category"`
	Chapters      []Chapter `json:"chapters" yaml:"chapters"`
	Links         []Link    `json:"links,omitempty" yaml:"links,omitempty"`
	PrivacyStatus string    `json:"privacyStatus" yaml:"privacy_status"`
	MadeForKids   bool      `json:"madeForKids" yaml:"made_for_kids"`
	Embeddable    bool      `json:"embeddable" yaml:"embeddable"`
	Language      string    `json:"language" yaml:"language"`
	RecordingDate string    `json:"recordingDate" yaml:"recording_date"`
}

// Validate checks the fields an upload cannot do without
func (m *VideoMetadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: metadata title is required", ErrInvalidMetadata)
	}
	if len(m.Chapters) > 0 && m.Chapters[0].Offset != 0 {
		return fmt.Errorf("%w: first chapter must start at 0:00", ErrInvalidMetadata)
	}
	for i := 1; i < len(m.Chapters); i++ {
		if m.Chapters[i].Offset <= m.Chapters[i-1].Offset {
			return fmt.Errorf("%w: chapter %d does not start after chapter %d", ErrInvalidMetadata, i+1, i)
		}
	}
	return nil
}

// FormatTimestamp renders d as "m:ss", or "h:mm:ss" from one hour on
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
