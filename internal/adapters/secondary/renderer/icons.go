package renderer

// icons maps the symbolic icon names decks use to display glyphs
var icons = map[string]string{
	"sparkles":       "✨",
	"settings":       "⚙️",
	"message-square": "💬",
	"rocket":         "🚀",
	"lightbulb":      "💡",
	"alert-circle":   "⚠️",
	"check":          "✅",
	"code":           "💻",
	"github":         "🐙",
	"globe":          "🌐",
	"monitor":        "🖥️",
	"smartphone":     "📱",
	"home":           "🏠",
}

const fallbackIcon = "•"

// IconGlyph returns the glyph for an icon name; "" stays "" and unknown
// names fall back to a bullet
func IconGlyph(name string) string {
	if name == "" {
		return ""
	}
	if glyph, ok := icons[name]; ok {
		return glyph
	}
	return fallbackIcon
}
