package profile

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/openavatar/openavatar/internal/tui/theme"
)

// BioDiff returns a unified diff between two bios, coloured with the active
// theme. It is empty when nothing changed.
func BioDiff(before, after string) string {
	if before == after {
		return ""
	}
	unified := udiff.Unified("bio (before)", "bio (after)", withNewline(before), withNewline(after))

	s := theme.Current().S()
	lines := strings.Split(strings.TrimRight(unified, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = s.Heading.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = s.Link.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.Success.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.Error.Render(line)
		default:
			lines[i] = s.Muted.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
