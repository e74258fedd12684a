package theme

import "charm.land/lipgloss/v2"

// Styles are the pre-built lipgloss styles shared by every screen.
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Text     lipgloss.Style
	Label    lipgloss.Style
	Link     lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Badge    lipgloss.Style
	Selected lipgloss.Style

	Modal      lipgloss.Style
	ErrorModal lipgloss.Style
}
