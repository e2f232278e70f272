package popup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter(t *testing.T) {
	out := Center("ab\ncd", 10, 6)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, 4) // 2 pad rows + 2 content rows
	assert.Equal(t, strings.Repeat(" ", 10), lines[0])
	assert.Equal(t, "    ab", lines[2])
	assert.Equal(t, "    cd", lines[3])
}

func TestRenderBordered_FitsScreen(t *testing.T) {
	out := RenderBordered("Attach Message to Jira", 100, 20, SizeModal)

	assert.Contains(t, ansi.Strip(out), "Attach Message to Jira")
	for line := range strings.SplitSeq(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 100)
	}
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 54, ContentWidth(100, SizeModal)) // 60% of 100, minus border and padding
	assert.Equal(t, 84, ContentWidth(200, SizeModal)) // capped at MaxWidth
	assert.Equal(t, 0, ContentWidth(5, SizeModal))
}

func TestCompose(t *testing.T) {
	base := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc"
	overlay := "\n   XYZ  \n"

	out := Compose(base, overlay, 10)

	assert.Equal(t, "aaaaaaaaaa\nbbbXYZbbbb\ncccccccccc", out)
}

func TestCompose_StyledOverlayKeepsWidth(t *testing.T) {
	base := "..........\n.........."
	overlay := "  " + lipgloss.NewStyle().Bold(true).Render("OK") + "\n"

	out := Compose(base, overlay, 10)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "..OK......", ansi.Strip(lines[0]))
	assert.Equal(t, 10, ansi.StringWidth(lines[0]))
	assert.Equal(t, "..........", lines[1])
}
