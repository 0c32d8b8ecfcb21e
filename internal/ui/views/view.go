package views

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"fastexplorer/internal/domain"
)

// ViewState contains everything needed to draw one frame
type ViewState struct {
	Width  int
	Height int

	// Listing
	CurrentPath string
	LiveRefresh bool
	Items       []domain.FileItem
	SortBy      domain.SortCriteria
	SortDesc    bool
	ShowHidden  bool
	FilterQuery string
	QuickAccess []string

	// Search
	ShowingResults bool
	SearchRoot     string
	SearchTerm     string
	Searching      bool
	Spinner        string
	Counters       domain.ProgressCounters
	Elapsed        time.Duration
	Reason         domain.CompletionReason // empty while the run is active

	// Cursor
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int

	// Input line
	InputPrompt string
	TextInput   string

	StatusMessage string
	StatusIsError bool

	// Overlays
	ShowHelp         bool
	HelpScrollOffset int
	ShowPrompt       bool
	PromptElapsed    time.Duration

	// Now is used for relative dates; zero means time.Now
	Now time.Time
}

// Renderer handles the main view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the style set, e.g. for the help builder
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render renders the complete view
func (r *Renderer) Render(state ViewState, helpContent string) string {
	var content strings.Builder

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(r.renderLocation(state))
	content.WriteString("\n")

	if state.InputPrompt != "" {
		content.WriteString(state.InputPrompt)
		content.WriteString(state.TextInput)
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(r.renderMain(state))

	statusLine := r.renderStatus(state)

	// Push the status line to the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2 // container padding
	if availableLines <= 0 {
		availableLines = 22
	}
	if padding := availableLines - currentLines - 1; padding > 0 {
		content.WriteString(strings.Repeat("\n", padding))
	}
	content.WriteString("\n")
	content.WriteString(statusLine)

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	finalContent := mainStyle.Render(content.String())

	if state.ShowPrompt {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderTimeoutPrompt(state), state.Height, state.Width, r.styles.PromptBox)
	}
	if state.ShowHelp {
		return r.popupRender.RenderPopupOverlay(finalContent, ScrollHelp(helpContent, state.Height, state.HelpScrollOffset), state.Height, state.Width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("fastexplorer")

	var indicators []string
	if state.Searching {
		indicators = append(indicators, r.styles.Scan.Render(fmt.Sprintf("%s Searching for %q", state.Spinner, state.SearchTerm)))
	}
	if state.FilterQuery != "" && !state.ShowingResults {
		indicators = append(indicators, r.styles.Filter.Render(fmt.Sprintf("[filter: %s]", state.FilterQuery)))
	}
	if !state.ShowingResults {
		order := string(state.SortBy)
		if state.SortDesc {
			order += " ↓"
		} else {
			order += " ↑"
		}
		indicators = append(indicators, r.styles.Dim.Render("sort: "+order))
		if state.ShowHidden {
			indicators = append(indicators, r.styles.Dim.Render("hidden shown"))
		}
	}
	if len(indicators) == 0 {
		return logo
	}

	rightContent := strings.Join(indicators, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return logo + "  " + rightContent
}

func (r *Renderer) renderLocation(state ViewState) string {
	if state.ShowingResults {
		return r.styles.Path.Render(fmt.Sprintf("Results for %q in %s", state.SearchTerm, state.SearchRoot))
	}
	marker := r.styles.StatusSuccess.Render("● live")
	if !state.LiveRefresh {
		marker = r.styles.StatusWarning.Render("○ static")
	}
	return r.styles.Path.Render(state.CurrentPath) + "  " + marker
}

func (r *Renderer) renderMain(state ViewState) string {
	if len(state.Items) == 0 {
		switch {
		case state.ShowingResults && state.Searching:
			return r.styles.Dim.Render("No matches yet...")
		case state.ShowingResults:
			return r.styles.Dim.Render("No matches.")
		case state.FilterQuery != "":
			return r.styles.Dim.Render("Nothing matches the filter. Press Esc to clear it.")
		default:
			return r.styles.Dim.Render("Empty directory.")
		}
	}
	return r.renderList(state)
}

// renderList draws the rows inside the viewport with scroll indicators
func (r *Renderer) renderList(state ViewState) string {
	total := len(state.Items)
	effectiveHeight := state.ViewportHeight
	if effectiveHeight <= 0 {
		effectiveHeight = total
	}
	needsTopIndicator := state.ViewportOffset > 0
	needsBottomIndicator := total > state.ViewportOffset+effectiveHeight

	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}

	var lines []string
	if needsTopIndicator {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.ViewportOffset)))
	}

	end := state.ViewportOffset + effectiveHeight
	if end > total {
		end = total
	}
	for i := state.ViewportOffset; i < end; i++ {
		lines = append(lines, r.renderRow(state, state.Items[i], i == state.SelectedIndex))
	}

	if needsBottomIndicator {
		itemsBelow := total - end
		if itemsBelow < 0 {
			itemsBelow = 0
		}
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", itemsBelow)))
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) renderRow(state ViewState, item domain.FileItem, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	nameStyle := r.styles.File
	name := item.Name
	if item.IsDir {
		nameStyle = r.styles.Directory
		name += "/"
	}
	metaStyle := r.styles.Meta
	if selected {
		nameStyle = nameStyle.Inherit(r.styles.SelectionBg)
		metaStyle = metaStyle.Inherit(r.styles.SelectionBg)
	}

	var meta string
	if state.ShowingResults {
		meta = resultLocation(state.SearchRoot, item.Path)
	} else {
		meta = listingMeta(item, state.Now)
	}

	line := cursor + nameStyle.Render(name)
	if meta == "" {
		return line
	}
	return line + "  " + metaStyle.Render(meta)
}

// resultLocation is the match's directory relative to the search root
func resultLocation(root, path string) string {
	dir := filepath.Dir(path)
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	if rel == "." {
		return "./"
	}
	return rel + string(filepath.Separator)
}

func listingMeta(item domain.FileItem, now time.Time) string {
	var parts []string
	if !item.IsDir {
		parts = append(parts, humanize.Bytes(uint64(max(item.Size, 0))))
	}
	if !item.ModTime.IsZero() {
		if now.IsZero() {
			parts = append(parts, humanize.Time(item.ModTime))
		} else {
			parts = append(parts, humanize.RelTime(item.ModTime, now, "ago", "from now"))
		}
	}
	return strings.Join(parts, "  ")
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.StatusMessage != "" {
		if state.StatusIsError {
			return r.styles.StatusError.Render(state.StatusMessage)
		}
		return r.styles.Status.Render(state.StatusMessage)
	}
	if state.ShowingResults || state.Searching {
		return r.styles.Status.Render(FormatCounters(state.Counters, state.Elapsed, state.Reason))
	}
	if len(state.QuickAccess) > 0 {
		var spots []string
		for i, p := range state.QuickAccess {
			if i >= 9 {
				break
			}
			spots = append(spots, fmt.Sprintf("%d:%s", i+1, filepath.Base(p)))
		}
		return r.styles.Help.Render(strings.Join(spots, " ") + "  •  Press ? for help")
	}
	return r.styles.Help.Render("Press ? for help")
}

// FormatCounters renders progress counters as one status line
func FormatCounters(c domain.ProgressCounters, elapsed time.Duration, reason domain.CompletionReason) string {
	line := fmt.Sprintf("%s found • %s files • %s folders • %s",
		humanize.Comma(c.FilesFound),
		humanize.Comma(c.FilesSearched),
		humanize.Comma(c.DirectoriesSearched),
		elapsed.Truncate(100*time.Millisecond))
	switch reason {
	case domain.CompletedNaturally:
		line += " • done"
	case domain.CompletedStopped:
		line += " • stopped"
	case domain.CompletedTimeout:
		line += " • timed out"
	}
	return line
}

func (r *Renderer) renderTimeoutPrompt(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render("Search is taking a while"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Searching for %q in\n%s\n", state.SearchTerm, state.SearchRoot))
	b.WriteString(fmt.Sprintf("has been running for %s.\n\n", state.PromptElapsed.Round(time.Second)))
	b.WriteString(r.styles.Highlight.Render("Continue searching? (y/n)"))
	return b.String()
}

// ScrollHelp cuts help content to the visible window at offset,
// replacing the edges with scroll markers
func ScrollHelp(content string, height, scrollOffset int) string {
	lines := strings.Split(content, "\n")
	totalLines := len(lines)

	// popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return content
	}

	maxOffset := totalLines - visibleHeight
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	endLine := scrollOffset + visibleHeight
	visible := make([]string, endLine-scrollOffset)
	copy(visible, lines[scrollOffset:endLine])

	marker := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if scrollOffset > 0 {
		visible[0] = marker.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visible[len(visible)-1] = marker.Render("↓ (more below)")
	}
	return strings.Join(visible, "\n")
}
