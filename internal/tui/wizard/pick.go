package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// PickModel runs a FilePicker on its own inside a titled modal.
type PickModel struct {
	title     string
	picker    *FilePicker
	selected  string
	cancelled bool
	width     int
	height    int
}

// NewPickModel lists dir, showing only files with one of exts.
func NewPickModel(title, dir string, exts []string) *PickModel {
	return &PickModel{title: title, picker: NewFilePicker(dir, exts)}
}

// RunFilePicker lets the user choose a file and returns its path.
func RunFilePicker(title, dir string, exts []string) (string, error) {
	finalModel, err := tea.NewProgram(NewPickModel(title, dir, exts)).Run()
	if err != nil {
		return "", fmt.Errorf("file picker failed: %w", err)
	}
	m, ok := finalModel.(*PickModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if m.cancelled || m.selected == "" {
		return "", ErrCancelled
	}
	return m.selected, nil
}

// Selected returns the chosen path.
func (m *PickModel) Selected() string {
	return m.selected
}

// Cancelled reports whether the user quit without choosing.
func (m *PickModel) Cancelled() bool {
	return m.cancelled
}

func (m *PickModel) Init() tea.Cmd {
	return nil
}

func (m *PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetSize(m.contentWidth(), m.height-8)
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		}

	case FileSelectedMsg:
		m.selected = msg.Path
		return m, tea.Quit
	}
	return m, m.picker.Update(msg)
}

func (m *PickModel) contentWidth() int {
	return min(max(m.width-10, 50), 90)
}

// Render returns the modal without placement.
func (m *PickModel) Render() string {
	body := strings.Join([]string{TitleStyle().Render(m.title), "", m.picker.View()}, "\n")
	return ModalStyle(m.contentWidth()).Render(body)
}

func (m *PickModel) View() tea.View {
	var view tea.View
	view.AltScreen = true
	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.Render())
	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
