// Package onboard is the terminal presentation of the registration wizard.
// It renders onboarding.Controller snapshots, writes typed values back
// through SetField and maps keys and buttons onto the controller's
// transitions. A login screen is reachable from Welcome.
package onboard

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/onboarding"
	"github.com/openavatar/openavatar/internal/tui/wizard"
)

// ErrCancelled is returned by Run when the user quits before finishing.
var ErrCancelled = errors.New("onboarding cancelled by user")

// Modal layout constants
const (
	modalWidth        = 70
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2)
)

// Outcome reports how the program ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeRegistered
	OutcomeLoggedIn
)

// Options wires the login screen. With Login nil the Welcome screen offers
// no "I have an account" button.
type Options struct {
	Login         func(ctx context.Context, email, password string) error
	ResetPassword func(ctx context.Context, email string) error
}

type screen int

const (
	screenWizard screen = iota
	screenLogin
)

// Model is the BubbleTea model for onboarding.
type Model struct {
	ctx     context.Context
	ctrl    *onboarding.Controller
	opts    Options
	state   onboarding.State
	updates chan onboarding.State
	unsub   func()

	width     int
	height    int
	cancelled bool
	outcome   Outcome
	screen    screen

	inputs    [onboarding.FieldBio]textinput.Model
	bio       textarea.Model
	focus     int // index into the current step's inputs
	shownStep onboarding.Step

	buttons       *wizard.ButtonBar
	buttonFocused bool

	reviewIdx int
	spinner   spinner.Model
	notice    string // transient status line, e.g. editor failures

	login *loginForm
}

// New builds the model around ctrl and subscribes to its snapshots.
func New(ctx context.Context, ctrl *onboarding.Controller, opts Options) *Model {
	m := &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		opts:    opts,
		updates: make(chan onboarding.State, 32),
		state:   ctrl.State(),
	}
	m.unsub = ctrl.Subscribe(func(s onboarding.State) {
		select {
		case m.updates <- s:
		default:
			// The model re-reads State() on every message it handles.
		}
	})

	placeholders := [onboarding.FieldBio]string{
		onboarding.FieldNickname:        "janedoe",
		onboarding.FieldFirstName:       "Jane",
		onboarding.FieldLastName:        "Doe",
		onboarding.FieldEmail:           "jane@example.com",
		onboarding.FieldPassword:        "at least 6 characters",
		onboarding.FieldConfirmPassword: "repeat your password",
	}
	for i := range m.inputs {
		m.inputs[i] = wizard.NewInput(placeholders[i], modalContentWidth-4)
	}
	for _, f := range []onboarding.Field{onboarding.FieldPassword, onboarding.FieldConfirmPassword} {
		m.inputs[f].EchoMode = textinput.EchoPassword
		m.inputs[f].EchoCharacter = '•'
	}

	m.bio = wizard.NewTextArea("Tell people a little about yourself...", modalContentWidth-2, 6)
	m.bio.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j", "shift+enter"))

	s := spinner.New()
	s.Spinner = spinner.Dot
	m.spinner = s

	m.shownStep = m.state.Step
	m.rebuildButtons()
	return m
}

// Run starts the program and blocks until the user finishes or quits.
func Run(ctx context.Context, ctrl *onboarding.Controller, opts Options) (Outcome, error) {
	m := New(ctx, ctrl, opts)
	defer m.Close()

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return OutcomeNone, fmt.Errorf("onboarding failed: %w", err)
	}
	fm, ok := finalModel.(*Model)
	if !ok {
		return OutcomeNone, fmt.Errorf("unexpected model type")
	}
	if fm.cancelled || fm.outcome == OutcomeNone {
		return OutcomeNone, ErrCancelled
	}
	return fm.outcome, nil
}

// Close removes the controller subscription.
func (m *Model) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// Outcome returns how the program ended so far.
func (m *Model) Outcome() Outcome {
	return m.outcome
}

// Cancelled reports whether the user quit.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Init starts listening for controller snapshots.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), textinput.Blink)
}

// listen waits for the next published snapshot.
func (m *Model) listen() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return StateMsg{State: <-updates}
	}
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StateMsg:
		m.sync()
		return m, m.listen()

	case SubmitDoneMsg:
		m.sync()
		if msg.Err == nil {
			m.outcome = OutcomeRegistered
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case wizard.EditorFinishedMsg:
		if msg.Err != nil {
			logger.Warn("onboard: editor failed: %v", msg.Err)
			m.notice = "Editor failed: " + msg.Err.Error()
			return m, nil
		}
		m.notice = ""
		m.bio.SetValue(msg.Content)
		m.ctrl.SetField(onboarding.FieldBio, msg.Content)
		m.sync()
		return m, nil

	case LoginDoneMsg, ResetSentMsg:
		if m.login != nil {
			return m, m.updateLogin(msg)
		}
		return m, nil

	case tea.PasteMsg:
		content := wizard.SanitizePaste(msg.Content)
		if m.screen == screenLogin {
			return m, m.updateLogin(tea.PasteMsg{Content: wizard.SingleLine(content)})
		}
		if !m.bioFocused() {
			content = wizard.SingleLine(content)
		}
		return m, m.updateContent(tea.PasteMsg{Content: content})

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			return m, m.updateLogin(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.screen == screenLogin {
		return m, m.updateLogin(msg)
	}
	return m, m.updateContent(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.buttonFocused && m.buttons != nil {
		switch msg.String() {
		case "tab", "right":
			if !m.buttons.FocusNext() {
				return m.focusContent(0)
			}
			return nil
		case "shift+tab", "left":
			if !m.buttons.FocusPrev() {
				return m.focusContent(len(m.stepInputs()) - 1)
			}
			return nil
		case "enter", "space":
			if id, ok := m.buttons.FocusedButton(); ok {
				return m.activate(id)
			}
			return nil
		case "esc":
			return m.back()
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		return m.back()
	case "tab":
		if m.focus < len(m.stepInputs())-1 {
			return m.focusContent(m.focus + 1)
		}
		return m.focusButtons(false)
	case "shift+tab":
		if m.focus > 0 {
			return m.focusContent(m.focus - 1)
		}
		return m.focusButtons(true)
	case "enter":
		return m.enter()
	}

	switch m.state.Step {
	case onboarding.StepReview:
		switch msg.String() {
		case "up", "k":
			if m.reviewIdx > 0 {
				m.reviewIdx--
			}
		case "down", "j":
			if m.reviewIdx < len(m.ctrl.ReviewRows())-1 {
				m.reviewIdx++
			}
		}
		return nil
	case onboarding.StepBio:
		if msg.String() == "ctrl+e" && wizard.EditorAvailable() {
			return wizard.OpenEditor(m.bio.Value(), "openavatar_bio_*.md")
		}
	case onboarding.StepSubmitting:
		return nil
	}
	return m.updateContent(msg)
}

// enter performs the step's primary action from the content area.
func (m *Model) enter() tea.Cmd {
	switch m.state.Step {
	case onboarding.StepReview:
		rows := m.ctrl.ReviewRows()
		if m.reviewIdx < len(rows) && m.ctrl.EditStep(rows[m.reviewIdx].Step) {
			m.sync()
		}
		return m.focusCmd()
	case onboarding.StepSubmitting:
		return tea.Quit
	}
	if m.focus < len(m.stepInputs())-1 {
		return m.focusContent(m.focus + 1)
	}
	return m.advance()
}

func (m *Model) activate(id wizard.ButtonID) tea.Cmd {
	switch id {
	case wizard.ButtonBack:
		return m.back()
	case wizard.ButtonSecondary:
		return m.openLogin()
	case wizard.ButtonNext:
		switch m.state.Step {
		case onboarding.StepReview:
			return m.submit()
		case onboarding.StepSubmitting:
			return tea.Quit
		}
		return m.advance()
	}
	return nil
}

func (m *Model) advance() tea.Cmd {
	if !m.ctrl.Advance() {
		return nil
	}
	m.sync()
	return m.focusCmd()
}

// back maps Esc and the Back button onto the controller.
func (m *Model) back() tea.Cmd {
	switch step := m.state.Step; step {
	case onboarding.StepWelcome:
		m.cancelled = true
		return tea.Quit
	case onboarding.StepSubmitting:
		return tea.Quit
	case onboarding.StepReview:
		if m.ctrl.Restart() {
			m.sync()
		}
		return m.focusCmd()
	default:
		if m.ctrl.GoBack(step - 1) {
			m.sync()
		}
		return m.focusCmd()
	}
}

func (m *Model) submit() tea.Cmd {
	results, err := m.ctrl.Submit(m.ctx)
	if err != nil {
		logger.Debug("onboard: submit rejected: %v", err)
		return nil
	}
	m.sync()
	wait := func() tea.Msg {
		res, ok := <-results
		if !ok {
			return SubmitDoneMsg{}
		}
		return SubmitDoneMsg{Err: res.Err}
	}
	return tea.Batch(wait, m.spinner.Tick)
}

// sync pulls the latest snapshot and rebuilds step-dependent widgets.
func (m *Model) sync() {
	m.state = m.ctrl.State()
	if m.state.Step != m.shownStep {
		m.shownStep = m.state.Step
		m.enterStep()
	}
	m.rebuildButtons()
}

// enterStep loads field values into the inputs and focuses the first one.
func (m *Model) enterStep() {
	m.notice = ""
	m.buttonFocused = false
	for i := range m.inputs {
		m.inputs[i].SetValue(m.state.Fields.Get(onboarding.Field(i)))
		m.inputs[i].CursorEnd()
		m.inputs[i].Blur()
	}
	m.bio.SetValue(m.state.Fields.Bio)
	m.bio.Blur()
	m.focus = 0
	if m.state.Step == onboarding.StepReview {
		m.reviewIdx = 0
	}
	m.applyFocus()
}

// stepInputs lists the fields edited on the current step.
func (m *Model) stepInputs() []onboarding.Field {
	switch m.state.Step {
	case onboarding.StepNickname:
		return []onboarding.Field{onboarding.FieldNickname}
	case onboarding.StepName:
		return []onboarding.Field{onboarding.FieldFirstName, onboarding.FieldLastName}
	case onboarding.StepEmail:
		return []onboarding.Field{onboarding.FieldEmail}
	case onboarding.StepPassword:
		return []onboarding.Field{onboarding.FieldPassword, onboarding.FieldConfirmPassword}
	case onboarding.StepBio:
		return []onboarding.Field{onboarding.FieldBio}
	}
	return nil
}

func (m *Model) applyFocus() tea.Cmd {
	fields := m.stepInputs()
	var cmd tea.Cmd
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.bio.Blur()
	if m.buttonFocused || m.focus >= len(fields) {
		return nil
	}
	if f := fields[m.focus]; f == onboarding.FieldBio {
		cmd = m.bio.Focus()
	} else {
		cmd = m.inputs[f].Focus()
	}
	return cmd
}

func (m *Model) focusCmd() tea.Cmd {
	return m.applyFocus()
}

func (m *Model) focusContent(idx int) tea.Cmd {
	if m.buttons != nil {
		m.buttons.Blur()
	}
	m.buttonFocused = false
	m.focus = max(idx, 0)
	return m.applyFocus()
}

func (m *Model) focusButtons(fromEnd bool) tea.Cmd {
	if m.buttons == nil {
		return nil
	}
	ok := m.buttons.FocusFirst()
	if fromEnd {
		ok = m.buttons.FocusLast()
	}
	if !ok {
		return nil
	}
	m.buttonFocused = true
	return m.applyFocus()
}

// updateContent forwards input to the focused field and writes the value
// back to the controller.
func (m *Model) bioFocused() bool {
	fields := m.stepInputs()
	return !m.buttonFocused && m.focus < len(fields) && fields[m.focus] == onboarding.FieldBio
}

func (m *Model) updateContent(msg tea.Msg) tea.Cmd {
	fields := m.stepInputs()
	if m.buttonFocused || m.focus >= len(fields) {
		return nil
	}
	f := fields[m.focus]

	var cmd tea.Cmd
	if f == onboarding.FieldBio {
		m.bio, cmd = m.bio.Update(msg)
		if m.bio.Value() != m.state.Fields.Bio {
			m.ctrl.SetField(f, m.bio.Value())
			m.sync()
		}
		return cmd
	}

	m.inputs[f], cmd = m.inputs[f].Update(msg)
	if v := m.inputs[f].Value(); v != m.state.Fields.Get(f) {
		m.ctrl.SetField(f, v)
		m.sync()
		if stored := m.state.Fields.Get(f); stored != v {
			m.inputs[f].SetValue(stored)
			m.inputs[f].CursorEnd()
		}
	}
	return cmd
}

// rebuildButtons recreates the bar for the current step, keeping focus on
// the same button when it is still enabled.
func (m *Model) rebuildButtons() {
	var prev wizard.ButtonID
	hadFocus := false
	if m.buttons != nil {
		prev, hadFocus = m.buttons.FocusedButton()
	}

	s := m.state
	next := onboarding.AdvanceLabel(s.Step, s.Fields)
	var buttons []wizard.Button
	switch s.Step {
	case onboarding.StepWelcome:
		if m.opts.Login != nil {
			buttons = append(buttons, wizard.Button{ID: wizard.ButtonSecondary, Label: "I have an account"})
		}
		buttons = append(buttons, wizard.Button{ID: wizard.ButtonNext, Label: next})
	case onboarding.StepReview:
		buttons = []wizard.Button{{ID: wizard.ButtonBack, Label: "← Start over"}}
		state := wizard.ButtonNormal
		if s.Submitting {
			state = wizard.ButtonDisabled
		}
		buttons = append(buttons, wizard.Button{ID: wizard.ButtonNext, Label: next, State: state})
	case onboarding.StepSubmitting:
		buttons = []wizard.Button{{ID: wizard.ButtonNext, Label: "Done"}}
	default:
		buttons = wizard.CreateBackNextButtons(true, s.CanAdvance(), next)
	}

	m.buttons = wizard.NewButtonBar(buttons)
	m.buttons.SetWidth(modalContentWidth)
	if m.buttonFocused {
		if !hadFocus || !m.buttons.Focus(prev) {
			m.buttonFocused = false
			m.applyFocus()
		}
	}
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.Render())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// Render returns the modal for the current screen.
func (m *Model) Render() string {
	if m.screen == screenLogin {
		return m.login.render()
	}
	return m.renderStep()
}
