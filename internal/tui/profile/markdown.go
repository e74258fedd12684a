package profile

import (
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"

	"github.com/openavatar/openavatar/internal/tui/theme"
)

// maxMarkdownWidth caps bio wrapping for readability.
const maxMarkdownWidth = 100

// renderMarkdown renders a bio with glamour in the active theme's style.
// Falls back to plain wrapping if rendering fails.
func renderMarkdown(content string, width int) string {
	width = min(width, maxMarkdownWidth)
	if width <= 0 {
		return content
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.Current().GlamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wrapText(content, width)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return wrapText(content, width)
	}

	return strings.Trim(rendered, "\n")
}

func wrapText(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(content)
}
