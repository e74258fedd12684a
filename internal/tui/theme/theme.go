// Package theme holds the TUI colour palettes and the styles built from them.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	Primary   string
	Secondary string
	Accent    string

	BgBase     string
	BgSurface0 string
	BgSurface1 string

	FgMuted  string
	FgSubtle string
	FgBase   string

	BorderDefault string
	BorderFocused string

	Success string
	Warning string
	Error   string
	Info    string

	// GlamourStyle is the markdown style matching the palette.
	GlamourStyle string

	styles     *Styles
	stylesOnce sync.Once
}

// S returns the styles for this theme, built on first use.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

var (
	mu      sync.RWMutex
	current = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set activates the theme with the given name and reports whether it exists.
func Set(name string) bool {
	var t *Theme
	switch name {
	case "catppuccin-mocha", "dark":
		t = NewCatppuccinMocha()
	case "catppuccin-latte", "light":
		t = NewCatppuccinLatte()
	default:
		return false
	}
	mu.Lock()
	current = t
	mu.Unlock()
	return true
}

func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		Heading: lipgloss.NewStyle().
			Foreground(c(t.FgBase)).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),
		Muted: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),
		Text: lipgloss.NewStyle().
			Foreground(c(t.FgBase)),
		Label: lipgloss.NewStyle().
			Foreground(c(t.Secondary)).
			Bold(true),
		Link: lipgloss.NewStyle().
			Foreground(c(t.Info)).
			Underline(true),
		Error: lipgloss.NewStyle().
			Foreground(c(t.Error)),
		Warning: lipgloss.NewStyle().
			Foreground(c(t.Warning)),
		Success: lipgloss.NewStyle().
			Foreground(c(t.Success)),
		Badge: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Accent)).
			Bold(true).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		Modal: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderDefault)),
		ErrorModal: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Error)),
	}
}
