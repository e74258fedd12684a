package wizard

import (
	"net/url"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/openavatar/openavatar/internal/config"
)

const (
	inputProject = iota
	inputAPIKey
	inputBucket
	inputShareURL
	inputCount
)

var inputLabels = [inputCount]string{
	"Firebase Project ID",
	"Web API Key",
	"Storage Bucket (optional)",
	"Share Link Base URL",
}

// ConfigStep collects the Firebase project settings.
type ConfigStep struct {
	inputs     [inputCount]textinput.Model
	errors     [inputCount]string
	focusIndex int
	width      int
	height     int
}

// NewConfigStep creates the form pre-filled from base.
func NewConfigStep(base *config.Config) *ConfigStep {
	c := &ConfigStep{width: 60, height: 10}
	placeholders := [inputCount]string{
		"my-project-1234",
		"AIza...",
		"my-project-1234.appspot.com",
		config.DefaultShareBaseURL,
	}
	for i := range c.inputs {
		c.inputs[i] = NewInput(placeholders[i], 50)
	}
	c.inputs[inputAPIKey].EchoMode = textinput.EchoPassword
	c.inputs[inputAPIKey].EchoCharacter = '•'

	if base != nil {
		c.inputs[inputProject].SetValue(base.ProjectID)
		c.inputs[inputAPIKey].SetValue(base.APIKey)
		c.inputs[inputBucket].SetValue(base.StorageBucket)
		c.inputs[inputShareURL].SetValue(base.ShareBaseURL)
	}
	if c.inputs[inputShareURL].Value() == "" {
		c.inputs[inputShareURL].SetValue(config.DefaultShareBaseURL)
	}
	return c
}

// Init focuses the first input.
func (c *ConfigStep) Init() tea.Cmd {
	return c.Focus()
}

// Focus gives focus to the first input.
func (c *ConfigStep) Focus() tea.Cmd {
	c.focusIndex = inputProject
	return c.updateFocus()
}

// FocusLast gives focus to the last input.
func (c *ConfigStep) FocusLast() tea.Cmd {
	c.focusIndex = inputCount - 1
	return c.updateFocus()
}

// Blur removes focus from every input.
func (c *ConfigStep) Blur() {
	for i := range c.inputs {
		c.inputs[i].Blur()
	}
}

// SetSize updates the dimensions for the form.
func (c *ConfigStep) SetSize(width, height int) {
	c.width = width
	c.height = height
	for i := range c.inputs {
		c.inputs[i].SetWidth(max(width-10, 20))
	}
}

// Update handles messages for the config step.
func (c *ConfigStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			if c.focusIndex == inputCount-1 {
				return func() tea.Msg { return TabExitForwardMsg{} }
			}
			c.focusIndex++
			return c.updateFocus()
		case "shift+tab", "up":
			if c.focusIndex == 0 {
				return func() tea.Msg { return TabExitBackwardMsg{} }
			}
			c.focusIndex--
			return c.updateFocus()
		case "enter":
			if c.validate() {
				return func() tea.Msg { return ConfigCompleteMsg{} }
			}
			return nil
		}
		c.errors[c.focusIndex] = ""
	}

	var cmd tea.Cmd
	c.inputs[c.focusIndex], cmd = c.inputs[c.focusIndex].Update(msg)
	return cmd
}

func (c *ConfigStep) updateFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range c.inputs {
		if i == c.focusIndex {
			cmd = c.inputs[i].Focus()
		} else {
			c.inputs[i].Blur()
		}
	}
	return cmd
}

// View renders the form.
func (c *ConfigStep) View() string {
	s := themeStyles()
	var b strings.Builder
	for i := range c.inputs {
		b.WriteString(s.Muted.Render(inputLabels[i]))
		b.WriteString("\n")
		b.WriteString(c.inputs[i].View())
		b.WriteString("\n")
		if c.errors[i] != "" {
			b.WriteString(s.Error.Render("✗ " + c.errors[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(RenderHintBar(
		"tab", "next/buttons",
		"enter", "finish",
		"esc", "back",
	))
	return b.String()
}

func (c *ConfigStep) value(i int) string {
	return strings.TrimSpace(c.inputs[i].Value())
}

// validate sets per-input errors and reports whether the form is valid.
func (c *ConfigStep) validate() bool {
	c.errors = [inputCount]string{}
	if msg := validProjectID(c.value(inputProject)); msg != "" {
		c.errors[inputProject] = msg
	}
	if c.value(inputAPIKey) == "" {
		c.errors[inputAPIKey] = "API key is required for password sign-in"
	}
	if u, err := url.Parse(c.value(inputShareURL)); err != nil || u.Scheme == "" || u.Host == "" {
		c.errors[inputShareURL] = "Must be an absolute URL"
	}
	for _, e := range c.errors {
		if e != "" {
			return false
		}
	}
	return true
}

// validProjectID returns an error message for ids Firebase would reject.
func validProjectID(id string) string {
	if id == "" {
		return "Project ID cannot be empty"
	}
	if len(id) < 6 || len(id) > 30 {
		return "Project ID must be 6 to 30 characters"
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return "Use only lowercase letters, digits and hyphens"
		}
	}
	return ""
}

// IsValid reports whether the form currently validates.
func (c *ConfigStep) IsValid() bool {
	return c.validate()
}

// Apply copies the form values into cfg.
func (c *ConfigStep) Apply(cfg *config.Config) {
	cfg.ProjectID = c.value(inputProject)
	cfg.APIKey = c.value(inputAPIKey)
	cfg.StorageBucket = c.value(inputBucket)
	cfg.ShareBaseURL = strings.TrimRight(c.value(inputShareURL), "/")
}

// ConfigCompleteMsg is sent when the form is submitted and valid.
type ConfigCompleteMsg struct{}

// TabExitForwardMsg is sent when Tab is pressed on the last input.
// The parent should move focus to its buttons.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent when Shift+Tab is pressed on the first input.
// The parent should move focus to its buttons from the end.
type TabExitBackwardMsg struct{}
