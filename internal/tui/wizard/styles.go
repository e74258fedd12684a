package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/openavatar/openavatar/internal/tui/theme"
)

// ModalStyle returns the container every wizard screen is drawn in.
func ModalStyle(width int) lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderFocused)).
		Padding(1, 2).
		Width(width)
}

// TitleStyle renders a screen title.
func TitleStyle() lipgloss.Style {
	return theme.Current().S().Title
}

// RenderHintBar renders key/description pairs.
// Example: RenderHintBar("↑↓", "navigate", "enter", "select")
// Returns: "↑↓ navigate • enter select"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}
	t := theme.Current()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	sep := " " + lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface1)).Render("•") + " "

	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(keyStyle.Render(pairs[i]))
		b.WriteString(" ")
		b.WriteString(descStyle.Render(pairs[i+1]))
	}
	return b.String()
}

// InputStyles returns textinput styles for the active theme.
func InputStyles() textinput.Styles {
	t := theme.Current()
	c := lipgloss.Color
	return textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(c(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(c(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(c(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(c(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: c(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
}

// NewInput returns a themed, prompt-less text input.
func NewInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.SetStyles(InputStyles())
	in.SetWidth(width)
	return in
}

// NewTextArea returns a themed multi-line input.
func NewTextArea(placeholder string, width, height int) textarea.Model {
	t := theme.Current()
	c := lipgloss.Color

	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)

	styles := textarea.DefaultDarkStyles()
	if !t.IsDark {
		styles = textarea.DefaultLightStyles()
	}
	styles.Focused.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c(t.BorderFocused))
	styles.Blurred.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c(t.BorderDefault))
	styles.Focused.Text = lipgloss.NewStyle().Foreground(c(t.FgBase))
	styles.Focused.Placeholder = lipgloss.NewStyle().Foreground(c(t.FgMuted))
	styles.Focused.CursorLine = lipgloss.NewStyle()
	styles.Cursor.Color = c(t.Primary)
	ta.SetStyles(styles)
	return ta
}

func themeStyles() *theme.Styles {
	return theme.Current().S()
}
