// Package wizard holds the shared form widgets (button bar, inputs, file
// picker, hint bar) and the interactive setup wizard built from them.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/openavatar/openavatar/internal/config"
)

// ErrCancelled is returned by RunSetup when the user quits.
var ErrCancelled = errors.New("setup cancelled by user")

const (
	stepProject = iota
	stepCredentials
	stepCount
)

var stepNames = [stepCount]string{
	"Firebase Project",
	"Service Account Credentials",
}

// SetupModel is the BubbleTea model for `openavatar setup`.
// Flow: project form → credentials file picker (skippable).
type SetupModel struct {
	step      int
	cancelled bool
	done      bool
	result    config.Config
	width     int
	height    int

	configStep *ConfigStep
	picker     *FilePicker
	buttons    *ButtonBar
}

// NewSetupModel starts the wizard pre-filled from base.
func NewSetupModel(base *config.Config) *SetupModel {
	m := &SetupModel{}
	if base != nil {
		m.result = *base
	}
	m.configStep = NewConfigStep(base)
	m.picker = NewFilePicker("", CredentialExts)
	m.rebuildButtons()
	return m
}

// RunSetup runs the wizard and returns the completed configuration.
func RunSetup(base *config.Config) (*config.Config, error) {
	p := tea.NewProgram(NewSetupModel(base))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("setup wizard failed: %w", err)
	}
	m, ok := finalModel.(*SetupModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if m.cancelled || !m.done {
		return nil, ErrCancelled
	}
	return m.Result(), nil
}

// Result returns the configuration collected so far.
func (m *SetupModel) Result() *config.Config {
	cfg := m.result
	return &cfg
}

// Done reports whether the wizard completed.
func (m *SetupModel) Done() bool {
	return m.done
}

// Cancelled reports whether the user quit.
func (m *SetupModel) Cancelled() bool {
	return m.cancelled
}

// Init focuses the first form input.
func (m *SetupModel) Init() tea.Cmd {
	return m.configStep.Init()
}

func (m *SetupModel) rebuildButtons() {
	var buttons []Button
	switch m.step {
	case stepProject:
		buttons = CreateCancelNextButtons(true, "Next →")
	case stepCredentials:
		buttons = []Button{
			{ID: ButtonBack, Label: "← Back"},
			{ID: ButtonSecondary, Label: "Skip"},
		}
	}
	m.buttons = NewButtonBar(buttons)
	m.buttons.SetWidth(m.contentWidth())
}

// Update handles messages for the wizard.
func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			return m, m.back()
		}
		if m.buttons.IsFocused() {
			return m, m.updateButtons(msg)
		}
		if m.step == stepCredentials && msg.String() == "tab" {
			m.buttons.FocusFirst()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.configStep.SetSize(m.contentWidth(), m.height-10)
		m.picker.SetSize(m.contentWidth(), m.height-12)
		m.buttons.SetWidth(m.contentWidth())
		return m, nil

	case TabExitForwardMsg:
		m.configStep.Blur()
		m.buttons.FocusFirst()
		return m, nil

	case TabExitBackwardMsg:
		m.configStep.Blur()
		m.buttons.FocusLast()
		return m, nil

	case ConfigCompleteMsg:
		return m, m.next()

	case FileSelectedMsg:
		m.result.CredentialsFile = msg.Path
		return m, m.finish()
	}

	switch m.step {
	case stepProject:
		return m, m.configStep.Update(msg)
	case stepCredentials:
		return m, m.picker.Update(msg)
	}
	return m, nil
}

func (m *SetupModel) updateButtons(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "right":
		if !m.buttons.FocusNext() {
			return m.focusContent(false)
		}
	case "shift+tab", "left":
		if !m.buttons.FocusPrev() {
			return m.focusContent(true)
		}
	case "enter", "space":
		id, _ := m.buttons.FocusedButton()
		switch id {
		case ButtonBack:
			return m.back()
		case ButtonNext:
			if m.configStep.IsValid() {
				return m.next()
			}
			return m.focusContent(false)
		case ButtonSecondary:
			return m.finish()
		}
	}
	return nil
}

// focusContent returns focus from the buttons to the step body.
func (m *SetupModel) focusContent(last bool) tea.Cmd {
	m.buttons.Blur()
	if m.step != stepProject {
		return nil
	}
	if last {
		return m.configStep.FocusLast()
	}
	return m.configStep.Focus()
}

func (m *SetupModel) next() tea.Cmd {
	m.configStep.Apply(&m.result)
	m.configStep.Blur()
	m.step = stepCredentials
	m.rebuildButtons()
	return nil
}

func (m *SetupModel) back() tea.Cmd {
	if m.step == stepProject {
		m.cancelled = true
		return tea.Quit
	}
	m.step = stepProject
	m.rebuildButtons()
	return m.configStep.Focus()
}

func (m *SetupModel) finish() tea.Cmd {
	m.done = true
	return tea.Quit
}

func (m *SetupModel) contentWidth() int {
	return min(max(m.width-10, 60), 100)
}

// View renders the wizard.
func (m *SetupModel) View() tea.View {
	var view tea.View
	view.AltScreen = true
	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	var stepContent string
	switch m.step {
	case stepProject:
		stepContent = m.configStep.View()
	case stepCredentials:
		stepContent = m.picker.View()
	}

	title := TitleStyle().Render(fmt.Sprintf("Setup - Step %d of %d: %s", m.step+1, stepCount, stepNames[m.step]))
	body := strings.Join([]string{title, "", stepContent, "", m.buttons.Render()}, "\n")
	modal := ModalStyle(m.contentWidth()).Render(body)
	content := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
