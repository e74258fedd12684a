package onboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/openavatar/openavatar/internal/onboarding"
	"github.com/openavatar/openavatar/internal/tui/theme"
	"github.com/openavatar/openavatar/internal/tui/wizard"
	"github.com/openavatar/openavatar/internal/validate"
)

var stepTitles = map[onboarding.Step]string{
	onboarding.StepWelcome:    "Welcome to Openavatar",
	onboarding.StepNickname:   "Pick a nickname",
	onboarding.StepName:       "What's your name?",
	onboarding.StepEmail:      "What's your email?",
	onboarding.StepPassword:   "Create a password",
	onboarding.StepBio:        "Write a short bio",
	onboarding.StepReview:     "Review your details",
	onboarding.StepSubmitting: "You're all set!",
}

func modalStyle() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().
		Width(modalWidth).
		Padding(1, modalPadding).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderDefault))
}

func (m *Model) renderStep() string {
	s := theme.Current().S()
	step := m.state.Step

	title := s.Title.Render(stepTitles[step])
	if step.DataEntry() {
		progress := s.Muted.Render(fmt.Sprintf("Step %d of %d", step.Index(), onboarding.DataEntryCount))
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", progress)
	}

	var body string
	switch step {
	case onboarding.StepWelcome:
		body = m.viewWelcome()
	case onboarding.StepNickname:
		body = m.viewNickname()
	case onboarding.StepName:
		body = m.viewName()
	case onboarding.StepEmail:
		body = m.viewEmail()
	case onboarding.StepPassword:
		body = m.viewPassword()
	case onboarding.StepBio:
		body = m.viewBio()
	case onboarding.StepReview:
		body = m.viewReview()
	case onboarding.StepSubmitting:
		body = m.viewDone()
	}

	if m.notice != "" {
		body += "\n" + s.Warning.Render(m.notice)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		"",
		m.buttons.Render(),
		"",
		m.hints(),
	)
	return modalStyle().Render(content)
}

func (m *Model) hints() string {
	switch m.state.Step {
	case onboarding.StepWelcome:
		return wizard.RenderHintBar("enter", "get started", "tab", "buttons", "esc", "quit")
	case onboarding.StepBio:
		if wizard.EditorAvailable() {
			return wizard.RenderHintBar("ctrl+j", "new line", "ctrl+e", "editor", "tab", "buttons", "esc", "back")
		}
		return wizard.RenderHintBar("ctrl+j", "new line", "tab", "buttons", "esc", "back")
	case onboarding.StepReview:
		return wizard.RenderHintBar("↑↓", "select", "enter", "edit", "tab", "buttons", "esc", "start over")
	case onboarding.StepSubmitting:
		return wizard.RenderHintBar("enter", "finish")
	}
	return wizard.RenderHintBar("tab", "navigate", "enter", "next", "esc", "back")
}

func labeled(label, input string) string {
	return theme.Current().S().Label.Render(label) + "\n" + input
}

func (m *Model) viewWelcome() string {
	s := theme.Current().S()
	return strings.Join([]string{
		s.Text.Render("Openavatar is your profile in one link."),
		s.Text.Render("Share who you are, how to reach you and what you're into."),
		"",
		s.Muted.Render("Setting up takes about a minute."),
	}, "\n")
}

func (m *Model) viewNickname() string {
	s := theme.Current().S()
	nick := m.state.Fields.Nickname
	lines := []string{labeled("Nickname", m.inputs[onboarding.FieldNickname].View())}
	if nick != "" {
		lines = append(lines, "", s.Subtitle.Render("You'll appear as ")+s.Selected.Render("@"+nick))
	}
	if nick != "" && !validate.Nickname(nick) {
		lines = append(lines, s.Muted.Render(fmt.Sprintf("At least %d characters, no spaces or @", validate.MinNicknameLength)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewName() string {
	s := theme.Current().S()
	f := m.state.Fields
	lines := []string{
		labeled("First name", m.inputs[onboarding.FieldFirstName].View()),
		"",
		labeled("Last name", m.inputs[onboarding.FieldLastName].View()),
		"",
	}
	switch {
	case !validate.Name(f.FirstName, f.LastName):
		lines = append(lines, s.Muted.Render("Fill in both names, or leave both empty"))
	case !validate.HasName(f.FirstName, f.LastName):
		lines = append(lines, s.Muted.Render("Optional: you can skip this step"))
	default:
		lines = append(lines, s.Subtitle.Render(onboarding.TitleName(f.FirstName, f.LastName)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewEmail() string {
	s := theme.Current().S()
	email := strings.TrimSpace(m.state.Fields.Email)
	lines := []string{labeled("Email", m.inputs[onboarding.FieldEmail].View())}
	if email != "" && !validate.Email(email) {
		lines = append(lines, "", s.Muted.Render("Enter an address like jane@example.com"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewPassword() string {
	t := theme.Current()
	s := t.S()
	status := m.ctrl.PasswordStatus()

	header := s.Label
	var note string
	switch status {
	case validate.PasswordMismatch:
		header = header.Foreground(lipgloss.Color(t.Error))
		note = s.Error.Render("Passwords must match and be at least 6 characters")
	case validate.PasswordValid:
		header = header.Foreground(lipgloss.Color(t.Success))
		note = s.Success.Render("✓ Passwords match")
	}

	lines := []string{
		header.Render("Password"),
		m.inputs[onboarding.FieldPassword].View(),
		"",
		header.Render("Confirm password"),
		m.inputs[onboarding.FieldConfirmPassword].View(),
	}
	if note != "" {
		lines = append(lines, "", note)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewBio() string {
	return labeled("Bio (optional)", m.bio.View())
}

func (m *Model) viewReview() string {
	s := theme.Current().S()
	rows := m.ctrl.ReviewRows()

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}

	var lines []string
	for i, r := range rows {
		label := s.Label.Width(labelWidth + 2).Render(r.Label)
		value := r.Value
		if r.Step == onboarding.StepBio {
			value = firstLine(value, modalContentWidth-labelWidth-6)
		}
		line := label + s.Text.Render(value)
		if i == m.reviewIdx && !m.buttonFocused && !m.state.Submitting {
			line = s.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	switch {
	case m.state.Submitting:
		lines = append(lines, "", m.spinner.View()+" "+s.Muted.Render("Creating your account..."))
	case m.state.Err != "":
		lines = append(lines, "", s.Error.Render("✗ "+m.state.Err))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewDone() string {
	s := theme.Current().S()
	return strings.Join([]string{
		s.Success.Render("Your account has been created."),
		"",
		s.Text.Render("Welcome aboard, ") + s.Selected.Render("@"+m.state.Fields.Nickname) + s.Text.Render("!"),
		s.Muted.Render("Run `openavatar profile` to see your profile."),
	}, "\n")
}

// firstLine returns the first line of s, truncated to width runes.
func firstLine(s string, width int) string {
	line, _, more := strings.Cut(s, "\n")
	r := []rune(line)
	if width > 1 && len(r) > width {
		return string(r[:width-1]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}
