package renderer

import (
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	svg "github.com/ajstarks/svgo"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// TitleCard draws a video thumbnail for a deck: a flat background with the
// title centered in the upper third and an optional subtitle below it
type TitleCard struct {
	Width      int
	Height     int
	Background string
}

// NewTitleCard creates a 1280x720 card on a near-black background
func NewTitleCard() *TitleCard {
	return &TitleCard{Width: 1280, Height: 720, Background: "#1e1e1e"}
}

// Render writes the card as SVG to w
func (c *TitleCard) Render(w io.Writer, title, subtitle string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title card needs a title")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid title card size %dx%d", c.Width, c.Height)
	}
	if !hexColor.MatchString(c.Background) {
		return fmt.Errorf("invalid background color %q (use #rgb or #rrggbb)", c.Background)
	}

	// font sizes follow the 1280x720 layout
	titleSize := c.Height / 8
	subtitleSize := c.Height * 5 / 72
	cx := c.Width / 2
	titleY := c.Height/3 + titleSize/2
	subtitleY := c.Height/2 + 50 + subtitleSize/2
	band := c.Height / 60

	canvas := svg.New(w)
	canvas.Start(c.Width, c.Height, `role="img"`, `aria-label="`+html.EscapeString(title)+`"`)
	canvas.Def()
	canvas.LinearGradient("accent", 0, 0, 100, 0, []svg.Offcolor{
		{Offset: 0, Color: "#22d3ee", Opacity: 1},
		{Offset: 50, Color: "#3b82f6", Opacity: 1},
		{Offset: 100, Color: "#9333ea", Opacity: 1},
	})
	canvas.DefEnd()

	canvas.Rect(0, 0, c.Width, c.Height, "fill:"+c.Background)

	titleStyle := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-weight:bold;font-size:%dpx", titleSize)
	canvas.Text(cx+4, titleY+4, title, titleStyle+";fill:#000000")
	canvas.Text(cx, titleY, title, titleStyle+";fill:#ffffff")

	if subtitle = strings.TrimSpace(subtitle); subtitle != "" {
		subStyle := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx", subtitleSize)
		canvas.Text(cx+3, subtitleY+3, subtitle, subStyle+";fill:#000000")
		canvas.Text(cx, subtitleY, subtitle, subStyle+";fill:#c8c8c8")
	}

	canvas.Rect(0, c.Height-band, c.Width, band, "fill:url(#accent)")
	canvas.End()

	return nil
}
