package onboard

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/tui/theme"
	"github.com/openavatar/openavatar/internal/tui/wizard"
	"github.com/openavatar/openavatar/internal/validate"
)

const (
	loginEmail = iota
	loginPassword
)

// loginForm is the "I have an account" screen.
type loginForm struct {
	inputs  [2]textinput.Model
	focus   int
	buttons *wizard.ButtonBar
	busy    bool
	err     string
	info    string
}

func newLoginForm(email string) *loginForm {
	f := &loginForm{}
	f.inputs[loginEmail] = wizard.NewInput("jane@example.com", modalContentWidth-4)
	f.inputs[loginPassword] = wizard.NewInput("password", modalContentWidth-4)
	f.inputs[loginPassword].EchoMode = textinput.EchoPassword
	f.inputs[loginPassword].EchoCharacter = '•'
	f.inputs[loginEmail].SetValue(email)
	f.inputs[loginEmail].CursorEnd()
	f.rebuildButtons()
	return f
}

func (f *loginForm) email() string {
	return strings.TrimSpace(f.inputs[loginEmail].Value())
}

func (f *loginForm) password() string {
	return f.inputs[loginPassword].Value()
}

func (f *loginForm) valid() bool {
	return validate.Login(f.email(), f.password())
}

func (f *loginForm) rebuildButtons() {
	var prev wizard.ButtonID
	hadFocus := false
	if f.buttons != nil {
		prev, hadFocus = f.buttons.FocusedButton()
	}
	f.buttons = wizard.NewButtonBar([]wizard.Button{
		{ID: wizard.ButtonBack, Label: "← Back"},
		{ID: wizard.ButtonSecondary, Label: "Forgot password"},
		{ID: wizard.ButtonNext, Label: "Log in", State: stateFor(f.valid() && !f.busy)},
	})
	f.buttons.SetWidth(modalContentWidth)
	if hadFocus && !f.buttons.Focus(prev) {
		f.buttons.FocusFirst()
	}
}

func stateFor(enabled bool) wizard.ButtonState {
	if enabled {
		return wizard.ButtonNormal
	}
	return wizard.ButtonDisabled
}

func (f *loginForm) focusInput(idx int) tea.Cmd {
	f.buttons.Blur()
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *loginForm) blurInputs() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// openLogin switches to the login screen, pre-filling the typed email.
func (m *Model) openLogin() tea.Cmd {
	if m.opts.Login == nil {
		return nil
	}
	m.screen = screenLogin
	m.login = newLoginForm(m.state.Fields.Email)
	return m.login.focusInput(loginEmail)
}

func (m *Model) closeLogin() tea.Cmd {
	m.screen = screenWizard
	m.login = nil
	m.buttonFocused = false
	if m.buttons != nil {
		m.buttons.Blur()
	}
	return nil
}

func (m *Model) updateLogin(msg tea.Msg) tea.Cmd {
	f := m.login
	switch msg := msg.(type) {
	case LoginDoneMsg:
		f.busy = false
		if msg.Err != nil {
			f.err = loginError(msg.Err)
			f.rebuildButtons()
			return nil
		}
		m.outcome = OutcomeLoggedIn
		return tea.Quit

	case ResetSentMsg:
		f.busy = false
		if msg.Err != nil {
			f.err = msg.Err.Error()
		} else {
			f.info = "Password reset email sent to " + msg.Email
		}
		f.rebuildButtons()
		return nil

	case tea.KeyPressMsg:
		if f.busy {
			return nil
		}
		if f.buttons.IsFocused() {
			switch msg.String() {
			case "tab", "right":
				if !f.buttons.FocusNext() {
					return f.focusInput(loginEmail)
				}
			case "shift+tab", "left":
				if !f.buttons.FocusPrev() {
					return f.focusInput(loginPassword)
				}
			case "enter", "space":
				id, _ := f.buttons.FocusedButton()
				return m.activateLogin(id)
			case "esc":
				return m.closeLogin()
			}
			return nil
		}

		switch msg.String() {
		case "esc":
			return m.closeLogin()
		case "tab", "shift+tab":
			forward := msg.String() == "tab"
			switch {
			case forward && f.focus == loginEmail:
				return f.focusInput(loginPassword)
			case !forward && f.focus == loginPassword:
				return f.focusInput(loginEmail)
			}
			f.blurInputs()
			if forward {
				f.buttons.FocusFirst()
			} else {
				f.buttons.FocusLast()
			}
			return nil
		case "enter":
			if f.focus == loginEmail {
				return f.focusInput(loginPassword)
			}
			return m.activateLogin(wizard.ButtonNext)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	switch msg.(type) {
	case tea.KeyPressMsg, tea.PasteMsg:
		f.err = ""
		f.rebuildButtons()
	}
	return cmd
}

func (m *Model) activateLogin(id wizard.ButtonID) tea.Cmd {
	f := m.login
	switch id {
	case wizard.ButtonBack:
		return m.closeLogin()

	case wizard.ButtonSecondary:
		email := f.email()
		if !validate.Email(email) {
			f.err = "Enter your email address first"
			return nil
		}
		if m.opts.ResetPassword == nil {
			return nil
		}
		f.busy = true
		f.info = ""
		reset, ctx := m.opts.ResetPassword, m.ctx
		return func() tea.Msg {
			return ResetSentMsg{Email: email, Err: reset(ctx, email)}
		}

	case wizard.ButtonNext:
		if !f.valid() {
			f.err = "Enter a valid email and a password of at least 6 characters"
			return nil
		}
		f.busy = true
		f.err = ""
		f.rebuildButtons()
		login, ctx := m.opts.Login, m.ctx
		email, password := f.email(), f.password()
		return func() tea.Msg {
			return LoginDoneMsg{Err: login(ctx, email, password)}
		}
	}
	return nil
}

func loginError(err error) string {
	if errors.Is(err, account.ErrInvalidCredentials) {
		return "Incorrect email or password"
	}
	return err.Error()
}

func (f *loginForm) render() string {
	s := theme.Current().S()
	lines := []string{
		s.Title.Render("Log in"),
		"",
		labeled("Email", f.inputs[loginEmail].View()),
		"",
		labeled("Password", f.inputs[loginPassword].View()),
	}
	switch {
	case f.busy:
		lines = append(lines, "", s.Muted.Render("Signing in..."))
	case f.err != "":
		lines = append(lines, "", s.Error.Render("✗ "+f.err))
	case f.info != "":
		lines = append(lines, "", s.Success.Render(f.info))
	}
	lines = append(lines,
		"",
		f.buttons.Render(),
		"",
		wizard.RenderHintBar("tab", "navigate", "enter", "log in", "esc", "back"),
	)
	return modalStyle().Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
