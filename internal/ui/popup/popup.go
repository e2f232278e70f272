package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/issuelink/internal/ui/styles"
)

// SizeConfig defines how a popup should be sized.
type SizeConfig struct {
	WidthPct int // Percentage of screen width (0 = auto-fit)
	MaxWidth int // Maximum width in columns (0 = no limit)
}

// SizeModal is the attach-comment modal's size.
var SizeModal = SizeConfig{WidthPct: 60, MaxWidth: 90}

// ContentWidth returns the inner width available to a popup of the given
// size on a screen screenW columns wide.
func ContentWidth(screenW int, size SizeConfig) int {
	return max(outerWidth("", screenW, size)-6, 0) // border + padding
}

// RenderBordered wraps content in a rounded focus border and centers it.
func RenderBordered(content string, screenW, screenH int, size SizeConfig) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().BorderFocus).
		Width(max(outerWidth(content, screenW, size)-2, 0)). // Account for border
		Padding(1, 2).
		Render(content)
	return Center(box, screenW, screenH)
}

func outerWidth(content string, screenW int, size SizeConfig) int {
	width := maxLineWidth(content) + 6 // padding + border
	if size.WidthPct > 0 {
		width = screenW * size.WidthPct / 100
	}
	if size.MaxWidth > 0 {
		width = min(width, size.MaxWidth)
	}
	return min(width, screenW-4)
}

func maxLineWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// Center centers pre-rendered content in the terminal.
func Center(content string, termWidth, termHeight int) string {
	lines := strings.Split(content, "\n")
	padTop := max((termHeight-len(lines))/2, 0)
	padLeft := max((termWidth-maxLineWidth(content))/2, 0)

	var b strings.Builder
	for range padTop {
		b.WriteString(strings.Repeat(" ", termWidth) + "\n")
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Compose overlays popupView on top of base. Visible overlay columns
// replace the base at the same position; leading and trailing blanks of
// each overlay line let the base show through. ANSI-aware.
func Compose(base, popupView string, width int) string {
	baseLines := strings.Split(base, "\n")

	for i, overlayLine := range strings.Split(popupView, "\n") {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(overlayLine)
		if strings.TrimSpace(plain) == "" {
			continue
		}

		startCol := len(plain) - len(strings.TrimLeft(plain, " "))
		endCol := ansi.StringWidth(strings.TrimRight(plain, " "))

		baseLine := baseLines[i]
		if w := ansi.StringWidth(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		// A wide rune cut at either edge is replaced by spaces to keep
		// columns aligned.
		prefix := ansi.Cut(baseLine, 0, startCol)
		if w := ansi.StringWidth(prefix); w < startCol {
			prefix += strings.Repeat(" ", startCol-w)
		}
		line := prefix + ansi.Cut(overlayLine, startCol, endCol)
		if endCol < width {
			suffix := ansi.Cut(baseLine, endCol, width)
			want := width - endCol
			switch w := ansi.StringWidth(suffix); {
			case w > want:
				suffix = " " + ansi.Cut(suffix, w-want+1, w)
			case w < want:
				suffix += strings.Repeat(" ", want-w)
			}
			line += suffix
		}
		baseLines[i] = line
	}

	return strings.Join(baseLines, "\n")
}
