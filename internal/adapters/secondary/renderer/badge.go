package renderer

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// ProgressBadge draws the deck progress as a small SVG bar with a caption
type ProgressBadge struct {
	Width  int
	Height int
}

// NewProgressBadge creates a badge with the default 240x36 size
func NewProgressBadge() *ProgressBadge {
	return &ProgressBadge{Width: 240, Height: 36}
}

var _ ports.ProgressRenderer = (*ProgressBadge)(nil)

// RenderProgress writes the SVG for state to w
func (b *ProgressBadge) RenderProgress(w io.Writer, state entities.NavigationState) error {
	width, height := b.Width, b.Height
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid badge size %dx%d", width, height)
	}

	barHeight := height / 4
	barY := height - barHeight
	fill := int(float64(width) * clampPercent(state.Progress) / 100)

	canvas := svg.New(w)
	canvas.Start(width, height, `role="img"`, fmt.Sprintf(`aria-label="Slide %d of %d"`, state.Position, state.Total))
	canvas.Def()
	canvas.LinearGradient("progress", 0, 0, 100, 0, []svg.Offcolor{
		{Offset: 0, Color: "#22d3ee", Opacity: 1},
		{Offset: 50, Color: "#3b82f6", Opacity: 1},
		{Offset: 100, Color: "#9333ea", Opacity: 1},
	})
	canvas.DefEnd()
	canvas.Rect(0, 0, width, height, "fill:#0f172a")
	canvas.Text(6, barY-6, fmt.Sprintf("Slide %d of %d · %.0f%%", state.Position, state.Total, state.Progress),
		"fill:#ffffff;font-family:sans-serif;font-size:12px")
	canvas.Rect(0, barY, width, barHeight, "fill:#ffffff;fill-opacity:0.1")
	if fill > 0 {
		canvas.Rect(0, barY, fill, barHeight, "fill:url(#progress)")
	}
	canvas.End()

	return nil
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
