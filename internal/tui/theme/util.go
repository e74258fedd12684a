package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ApplyGradient colours each visible rune of s along a blend from colorA to
// colorB. Spaces are left unstyled and do not consume a stop.
func ApplyGradient(s, colorA, colorB string) string {
	visible := 0
	for _, r := range s {
		if r != ' ' {
			visible++
		}
	}
	if visible == 0 {
		return s
	}

	stops := lipgloss.Blend1D(max(visible, 2), lipgloss.Color(colorA), lipgloss.Color(colorB))
	var b strings.Builder
	i := 0
	for _, r := range s {
		if r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(stops[i]).Render(string(r)))
		i++
	}
	return b.String()
}
