package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestApplyGradient(t *testing.T) {
	out := ApplyGradient("ab c", "#cba6f7", "#89b4fa")
	assert.Equal(t, "ab c", ansi.Strip(out))
	assert.NotEqual(t, "ab c", out)
	assert.Equal(t, "   ", ApplyGradient("   ", "#000000", "#ffffff"))
}

func TestSetAndCurrent(t *testing.T) {
	defer Set("dark")

	assert.True(t, Set("light"))
	assert.Equal(t, "catppuccin-latte", Current().Name)
	assert.Equal(t, "light", Current().GlamourStyle)

	assert.False(t, Set("solarized"))
	assert.Equal(t, "catppuccin-latte", Current().Name, "unknown names leave the theme alone")
}

func TestStylesAreCached(t *testing.T) {
	th := NewCatppuccinMocha()
	assert.Same(t, th.S(), th.S())
}
