package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay renders a popup centered on top of a greyed out main view
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styledPopup
	}

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := (width - modalW) / 2
	if x < 0 {
		x = 0
	}
	y := (height - modalH) / 2
	if y < 0 {
		y = 0
	}

	base := strings.Split(mainContent, "\n")
	for len(base) < height {
		base = append(base, "")
	}
	popupLines := strings.Split(styledPopup, "\n")

	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	out := make([]string, len(base))
	for i, line := range base {
		plain := []rune(ansiRE.ReplaceAllString(line, ""))
		row := i - y
		if row < 0 || row >= len(popupLines) {
			out[i] = grey.Render(string(plain))
			continue
		}

		// Splice the popup line between the greyed left and right parts
		left := padRunes(plain, x)[:x]
		var right []rune
		if end := x + modalW; end < len(plain) {
			right = plain[end:]
		}
		out[i] = grey.Render(string(left)) + popupLines[row] + grey.Render(string(right))
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func padRunes(r []rune, n int) []rune {
	if len(r) >= n {
		return r
	}
	padded := make([]rune, n)
	copy(padded, r)
	for i := len(r); i < n; i++ {
		padded[i] = ' '
	}
	return padded
}
