// Package profile is the full-screen profile viewer and the renderers the CLI
// shares with it.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/tui/theme"
	"github.com/openavatar/openavatar/internal/tui/wizard"
)

// statusTimeout is how long footer notices stay up.
const statusTimeout = 3 * time.Second

// Source is the slice of the account service the viewer reads from.
type Source interface {
	CurrentSession(ctx context.Context) (*account.Session, error)
	MyProfile(ctx context.Context) (*account.Profile, error)
	OpenLink(ctx context.Context, link string) (*account.Profile, error)
	ShareLink(ctx context.Context) (string, error)
	WatchMyProfile(ctx context.Context, fn func(*account.Profile)) error
}

// Options configures the viewer.
type Options struct {
	// Link opens a share link instead of your own profile.
	Link string
	// ShowPrompts lists suggestions for empty sections on your own profile.
	ShowPrompts bool
	// OnTheme is called with the new theme name when the user switches it.
	OnTheme func(name string)
	// OnPrompts is called when the user toggles the suggestions.
	OnPrompts func(show bool)
}

type loadedMsg struct {
	session   *account.Session
	profile   *account.Profile
	shareLink string
	err       error
}

type updatedMsg struct {
	profile *account.Profile
}

type watchEndedMsg struct {
	err error
}

type clearStatusMsg struct {
	seq int
}

// Model is the profile viewer.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	src    Source
	opts   Options

	session   *account.Session
	profile   *account.Profile
	shareLink string
	loading   bool
	err       error

	watching bool
	updates  chan *account.Profile

	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int

	status    string
	statusSeq int
}

// New returns a viewer over src. Call Close when done.
func New(ctx context.Context, src Source, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		src:      src,
		opts:     opts,
		loading:  true,
		updates:  make(chan *account.Profile, 8),
		viewport: vp,
		spinner:  s,
	}
}

// Run shows the viewer until the user quits.
func Run(ctx context.Context, src Source, opts Options) error {
	m := New(ctx, src, opts)
	defer m.Close()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("profile viewer failed: %w", err)
	}
	return nil
}

// Close stops the live update listener.
func (m *Model) Close() {
	m.cancel()
}

// Profile returns the profile on screen, if any.
func (m *Model) Profile() *account.Profile {
	return m.profile
}

// Shared reports whether the profile on screen belongs to someone else.
func (m *Model) Shared() bool {
	return m.profile != nil && account.IsShared(m.profile, m.session)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

func (m *Model) load() tea.Cmd {
	src, ctx, link := m.src, m.ctx, m.opts.Link
	return func() tea.Msg {
		sess, err := src.CurrentSession(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		if link != "" {
			p, err := src.OpenLink(ctx, link)
			if err != nil {
				return loadedMsg{session: sess, err: err}
			}
			if account.IsShared(p, sess) {
				return loadedMsg{session: sess, profile: p}
			}
		}
		p, err := src.MyProfile(ctx)
		if err != nil {
			return loadedMsg{session: sess, err: err}
		}
		shareLink, err := src.ShareLink(ctx)
		if err != nil {
			logger.Warn("profile: share link unavailable: %v", err)
		}
		return loadedMsg{session: sess, profile: p, shareLink: shareLink}
	}
}

// watch runs the snapshot listener until the viewer closes. Profiles are
// handed to listen through the updates channel.
func (m *Model) watch() tea.Cmd {
	m.watching = true
	src, ctx, updates := m.src, m.ctx, m.updates
	return func() tea.Msg {
		err := src.WatchMyProfile(ctx, func(p *account.Profile) {
			select {
			case updates <- p:
			case <-ctx.Done():
			}
		})
		return watchEndedMsg{err: err}
	}
}

func (m *Model) listen() tea.Cmd {
	ctx, updates := m.ctx, m.updates
	return func() tea.Msg {
		select {
		case p := <-updates:
			return updatedMsg{profile: p}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(max(msg.Height-2, 1))
		m.refresh()
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			logger.Warn("profile: load failed: %v", msg.err)
			return m, nil
		}
		m.session = msg.session
		m.profile = msg.profile
		m.shareLink = msg.shareLink
		m.refresh()
		m.viewport.GotoTop()
		if !m.Shared() && !m.watching {
			return m, tea.Batch(m.watch(), m.listen())
		}
		return m, nil

	case updatedMsg:
		if msg.profile == nil || m.Shared() {
			return m, m.listen()
		}
		m.profile = msg.profile
		m.err = nil
		m.refresh()
		return m, tea.Batch(m.listen(), m.setStatus("Profile updated"))

	case watchEndedMsg:
		m.watching = false
		if msg.err != nil {
			logger.Warn("profile: live updates stopped: %v", msg.err)
			return m, m.setStatus("Live updates stopped")
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit

	case "r":
		if m.loading {
			return nil
		}
		m.loading = true
		return tea.Batch(m.load(), m.spinner.Tick)

	case "t":
		name := "catppuccin-latte"
		if theme.Current().Name == "catppuccin-latte" {
			name = "catppuccin-mocha"
		}
		theme.Set(name)
		m.refresh()
		if m.opts.OnTheme != nil {
			m.opts.OnTheme(name)
		}
		return nil

	case "p":
		if m.Shared() {
			return nil
		}
		m.opts.ShowPrompts = !m.opts.ShowPrompts
		m.refresh()
		if m.opts.OnPrompts != nil {
			m.opts.OnPrompts(m.opts.ShowPrompts)
		}
		return nil

	case "y":
		if m.shareLink == "" || m.Shared() {
			return nil
		}
		return tea.Batch(tea.SetClipboard(m.shareLink), m.setStatus("Share link copied"))
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) refresh() {
	if m.profile == nil || m.width == 0 {
		return
	}
	card := Card(m.profile, CardOptions{
		Shared:      m.Shared(),
		ShareLink:   m.shareLink,
		ShowPrompts: m.opts.ShowPrompts,
		Width:       cardWidth(m.width),
	})
	m.viewport.SetContent(lipgloss.NewStyle().Padding(1, 2).Render(card))
}

func errorText(err error) string {
	switch {
	case errors.Is(err, account.ErrNotSignedIn):
		return "You're not signed in. Run `openavatar login` or `openavatar onboard` first."
	case errors.Is(err, account.ErrProfileNotFound):
		return "That profile doesn't exist."
	case errors.Is(err, account.ErrInvalidLink):
		return "That doesn't look like a share link."
	}
	return err.Error()
}

func (m *Model) footer() string {
	s := theme.Current().S()
	pairs := []string{"↑↓", "scroll", "r", "refresh", "t", "theme"}
	if m.profile != nil && !m.Shared() {
		pairs = append(pairs, "p", "suggestions")
		if m.shareLink != "" {
			pairs = append(pairs, "y", "copy link")
		}
	}
	pairs = append(pairs, "q", "quit")
	hints := wizard.RenderHintBar(pairs...)
	if m.status != "" {
		return s.Success.Render(m.status) + "  " + hints
	}
	return hints
}

// Render returns the viewer body without the alt-screen canvas.
func (m *Model) Render() string {
	s := theme.Current().S()
	var body string
	switch {
	case m.loading && m.profile == nil:
		body = lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+s.Muted.Render("Loading profile..."))
	case m.err != nil && m.profile == nil:
		body = lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center,
			s.Error.Render("✗ "+errorText(m.err)))
	default:
		body = m.viewport.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", m.footer())
}

func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.Render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
