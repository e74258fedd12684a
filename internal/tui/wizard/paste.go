package wizard

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var newlinePattern = regexp.MustCompile(`\n+`)

// SanitizePaste strips escape sequences and control characters other than
// newline and tab from pasted text, normalizes CRLF and trims trailing
// whitespace.
func SanitizePaste(content string) string {
	content = ansi.Strip(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 32 || r == 127:
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " \t\n")
}

// SingleLine collapses runs of newlines into a space for one-line inputs.
func SingleLine(content string) string {
	return newlinePattern.ReplaceAllString(content, " ")
}
