package wizard

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/openavatar/openavatar/internal/tui/theme"
)

// Extension sets accepted by the pickers in this package.
var (
	CredentialExts = []string{".json"}
	ImageExts      = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
)

// FileItem is a file or directory row in the picker.
type FileItem struct {
	name  string
	path  string
	isDir bool
}

// Render returns the row text truncated to width.
func (f *FileItem) Render(width int) string {
	icon := "📄"
	if f.isDir {
		icon = "📁"
	}
	display := icon + " " + f.name
	if width > 5 && len(display) > width-2 {
		display = display[:width-5] + "..."
	}
	return display
}

// FilePicker browses the filesystem and selects a file whose extension is
// in exts. Directories are always listed for navigation.
type FilePicker struct {
	exts        []string
	currentPath string
	items       []*FileItem
	selectedIdx int
	offset      int
	width       int
	height      int
	err         string
}

// NewFilePicker starts in dir, or the working directory when dir is empty.
func NewFilePicker(dir string, exts []string) *FilePicker {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		dir = cwd
	}
	fp := &FilePicker{
		exts:   exts,
		width:  60,
		height: 10,
	}
	if err := fp.loadDirectory(dir); err != nil {
		fp.err = err.Error()
		fp.currentPath = dir
	}
	return fp
}

func (f *FilePicker) accepts(name string) bool {
	return slices.Contains(f.exts, strings.ToLower(filepath.Ext(name)))
}

func (f *FilePicker) loadDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	f.items = f.items[:0]
	if abs, err := filepath.Abs(path); err == nil && abs != filepath.Dir(abs) {
		f.items = append(f.items, &FileItem{name: "..", path: filepath.Dir(abs), isDir: true})
	}

	var dirs, files []*FileItem
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		item := &FileItem{name: entry.Name(), path: filepath.Join(path, entry.Name()), isDir: entry.IsDir()}
		switch {
		case entry.IsDir():
			dirs = append(dirs, item)
		case f.accepts(entry.Name()):
			files = append(files, item)
		}
	}
	byName := func(items []*FileItem) {
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].name) < strings.ToLower(items[j].name)
		})
	}
	byName(dirs)
	byName(files)

	f.items = append(f.items, dirs...)
	f.items = append(f.items, files...)
	f.currentPath = path
	f.selectedIdx = 0
	f.offset = 0
	f.err = ""
	return nil
}

// SetSize updates the picker's dimensions.
func (f *FilePicker) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// CurrentPath returns the directory being listed.
func (f *FilePicker) CurrentPath() string {
	return f.currentPath
}

func (f *FilePicker) open(path string) {
	if err := f.loadDirectory(path); err != nil {
		f.err = err.Error()
	}
}

// Update handles navigation keys. Selecting a file emits FileSelectedMsg.
func (f *FilePicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if f.selectedIdx > 0 {
			f.selectedIdx--
		}
	case "down", "j":
		if f.selectedIdx < len(f.items)-1 {
			f.selectedIdx++
		}
	case "enter":
		if f.selectedIdx >= len(f.items) {
			return nil
		}
		item := f.items[f.selectedIdx]
		if item.isDir {
			f.open(item.path)
			return nil
		}
		return func() tea.Msg {
			return FileSelectedMsg{Path: item.path}
		}
	case "backspace":
		if parent := filepath.Dir(f.currentPath); parent != f.currentPath {
			f.open(parent)
		}
	}
	f.keepSelectionVisible()
	return nil
}

func (f *FilePicker) visibleRows() int {
	return max(f.height-4, 3)
}

func (f *FilePicker) keepSelectionVisible() {
	rows := f.visibleRows()
	if f.selectedIdx < f.offset {
		f.offset = f.selectedIdx
	}
	if f.selectedIdx >= f.offset+rows {
		f.offset = f.selectedIdx - rows + 1
	}
}

// View renders the listing.
func (f *FilePicker) View() string {
	t := theme.Current()
	s := t.S()
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Primary)).
		Background(lipgloss.Color(t.BgSurface0)).
		Bold(true)

	var b strings.Builder
	b.WriteString(s.Muted.Render(f.currentPath))
	b.WriteString("\n\n")

	hasFiles := slices.ContainsFunc(f.items, func(i *FileItem) bool { return !i.isDir })
	if !hasFiles {
		b.WriteString(s.Muted.Italic(true).Render("No " + strings.Join(f.exts, " ") + " files in this directory"))
		b.WriteString("\n")
	}

	end := min(f.offset+f.visibleRows(), len(f.items))
	for i := f.offset; i < end; i++ {
		line := f.items[i].Render(f.width)
		if i == f.selectedIdx {
			line = selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString(s.Error.Render("✗ " + f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHintBar(
		"↑↓/j/k", "navigate",
		"enter", "select",
		"backspace", "up",
		"esc", "cancel",
	))
	return b.String()
}

// SelectedPath returns the highlighted file, or "" for a directory.
func (f *FilePicker) SelectedPath() string {
	if f.selectedIdx >= 0 && f.selectedIdx < len(f.items) && !f.items[f.selectedIdx].isDir {
		return f.items[f.selectedIdx].path
	}
	return ""
}

// FileSelectedMsg is sent when a file is chosen.
type FileSelectedMsg struct {
	Path string
}
