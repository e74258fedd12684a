package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/openavatar/openavatar/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled, not focused
	ButtonDisabled                    // Grayed out, skipped by focus
	ButtonFocused                     // Highlighted
)

// ButtonID identifies a button independently of its label.
type ButtonID int

const (
	ButtonBack ButtonID = iota
	ButtonNext
	ButtonSecondary
)

// Button is a single entry in a ButtonBar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar renders a row of buttons and tracks which one has focus.
type ButtonBar struct {
	buttons []Button
	focused int // -1 when the bar has no focus
	width   int
}

// NewButtonBar creates a button bar. No button is focused.
func NewButtonBar(buttons []Button) *ButtonBar {
	b := &ButtonBar{
		buttons: buttons,
		focused: -1,
		width:   60,
	}
	for i := range b.buttons {
		if b.buttons[i].State == ButtonFocused {
			b.buttons[i].State = ButtonNormal
		}
	}
	return b
}

// SetWidth updates the width the bar is centred in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// IsFocused reports whether any button holds focus.
func (b *ButtonBar) IsFocused() bool {
	return b.focused >= 0
}

// FocusedButton returns the focused button's ID. ok is false when the bar
// is not focused.
func (b *ButtonBar) FocusedButton() (id ButtonID, ok bool) {
	if b.focused < 0 || b.focused >= len(b.buttons) {
		return 0, false
	}
	return b.buttons[b.focused].ID, true
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() bool {
	return b.focusFrom(0, 1)
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() bool {
	return b.focusFrom(len(b.buttons)-1, -1)
}

// FocusNext moves focus right. It returns false, leaving the bar
// unfocused, when there is no enabled button to the right.
func (b *ButtonBar) FocusNext() bool {
	if b.focused < 0 {
		return b.FocusFirst()
	}
	return b.focusFrom(b.focused+1, 1)
}

// FocusPrev moves focus left. It returns false, leaving the bar
// unfocused, when there is no enabled button to the left.
func (b *ButtonBar) FocusPrev() bool {
	if b.focused < 0 {
		return b.FocusLast()
	}
	return b.focusFrom(b.focused-1, -1)
}

// Focus focuses the button with the given ID if it is enabled.
func (b *ButtonBar) Focus(id ButtonID) bool {
	for i, btn := range b.buttons {
		if btn.ID == id && btn.State != ButtonDisabled {
			b.setFocus(i)
			return true
		}
	}
	return false
}

// Blur removes focus from every button.
func (b *ButtonBar) Blur() {
	b.setFocus(-1)
}

func (b *ButtonBar) focusFrom(start, dir int) bool {
	for i := start; i >= 0 && i < len(b.buttons); i += dir {
		if b.buttons[i].State != ButtonDisabled {
			b.setFocus(i)
			return true
		}
	}
	b.setFocus(-1)
	return false
}

func (b *ButtonBar) setFocus(idx int) {
	for i := range b.buttons {
		if b.buttons[i].State == ButtonFocused {
			b.buttons[i].State = ButtonNormal
		}
	}
	b.focused = idx
	if idx >= 0 {
		b.buttons[idx].State = ButtonFocused
	}
}

// Render renders the button bar centred in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	t := theme.Current()
	base := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)
	normalStyle := base.
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface0))
	disabledStyle := base.
		Foreground(lipgloss.Color(t.FgMuted)).
		Background(lipgloss.Color(t.BgBase))
	focusedStyle := base.
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.BorderFocused)).
		Bold(true)

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, disabledStyle.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, focusedStyle.Render(btn.Label))
		default:
			rendered = append(rendered, normalStyle.Render(btn.Label))
		}
	}

	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates the standard Back/Next pair.
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	return []Button{
		{ID: ButtonBack, Label: "← Back", State: enabledState(backEnabled)},
		{ID: ButtonNext, Label: nextLabel, State: enabledState(nextEnabled)},
	}
}

// CreateCancelNextButtons creates the Cancel/Next pair shown on a first step.
func CreateCancelNextButtons(nextEnabled bool, nextLabel string) []Button {
	return []Button{
		{ID: ButtonBack, Label: "Cancel", State: ButtonNormal},
		{ID: ButtonNext, Label: nextLabel, State: enabledState(nextEnabled)},
	}
}

func enabledState(enabled bool) ButtonState {
	if enabled {
		return ButtonNormal
	}
	return ButtonDisabled
}
