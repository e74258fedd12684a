package wizard

import (
	"fmt"
	"os"
	"os/exec"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
)

// EditorFinishedMsg carries the text saved in the external editor.
type EditorFinishedMsg struct {
	Content string
	Err     error
}

// EditorAvailable reports whether $EDITOR or $VISUAL is set.
func EditorAvailable() bool {
	return os.Getenv("EDITOR") != "" || os.Getenv("VISUAL") != ""
}

// editorCommand writes content to a temp file and prepares the editor on it.
// The caller removes the returned path.
func editorCommand(content, pattern string) (*exec.Cmd, string, error) {
	tmpfile, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmpfile.Name()
	if _, err := tmpfile.WriteString(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(path)
		return nil, "", fmt.Errorf("writing temp file: %w", err)
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("openavatar", path)
	if err != nil {
		_ = os.Remove(path)
		return nil, "", fmt.Errorf("finding editor: %w", err)
	}
	return cmd, path, nil
}

// OpenEditor suspends the program, opens content in the user's editor and
// delivers the result as an EditorFinishedMsg.
func OpenEditor(content, pattern string) tea.Cmd {
	cmd, path, err := editorCommand(content, pattern)
	if err != nil {
		return func() tea.Msg { return EditorFinishedMsg{Content: content, Err: err} }
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return EditorFinishedMsg{Content: content, Err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return EditorFinishedMsg{Content: content, Err: err}
		}
		return EditorFinishedMsg{Content: string(data)}
	})
}

// EditText opens content in the user's editor outside of a program and
// returns what was saved.
func EditText(content, pattern string) (string, error) {
	cmd, path, err := editorCommand(content, pattern)
	if err != nil {
		return content, err
	}
	defer func() { _ = os.Remove(path) }()

	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return content, fmt.Errorf("running editor: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return content, fmt.Errorf("reading edited file: %w", err)
	}
	return string(data), nil
}
