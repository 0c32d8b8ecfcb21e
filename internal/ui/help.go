package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"↑/↓, j/k", "Move the cursor"},
		{"PgUp/PgDn", "Page up/down"},
		{"g/G", "Go to top/bottom"},
		{"Enter", "Open directory / reveal match"},
		{"Backspace, u", "Parent directory"},
		{"←/→, h/l", "Back/forward in history"},
		{"1-9", "Jump to a quick-access location"},
		{"a", "Add directory to quick access"},
	}},
	{"Listing", []helpEntry{
		{"f", "Filter by name"},
		{"Esc", "Clear the filter"},
		{"s / S", "Cycle sort column / reverse order"},
		{".", "Show/hide dotfiles"},
		{"r", "Reload the directory"},
	}},
	{"Search", []helpEntry{
		{"/", "Search from the current directory"},
		{"Esc", "Stop the search, then close results"},
		{"y/n", "Answer the long search question"},
		{"v", "Open the list in a pager"},
	}},
	{"Other", []helpEntry{
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent builds the colored help text shared by the overlay and the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	keyWidth := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			keyWidth = max(keyWidth, lipgloss.Width(e.keys))
		}
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("fastexplorer Help"))
	help.WriteString("\n")

	for i, s := range helpSections {
		help.WriteString("\n")
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for j, e := range s.entries {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.keys)+2)
			help.WriteString(fmt.Sprintf("  %s%s%s", keyStyle.Render(e.keys), pad, descStyle.Render(e.desc)))
			if i < len(helpSections)-1 || j < len(s.entries)-1 {
				help.WriteString("\n")
			}
		}
	}
	return help.String()
}
