package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/noborus/ov/oviewer"

	"fastexplorer/internal/domain"
)

var errNoProgram = errors.New("program not set")

// PagerOps shows long content in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program whose terminal the pager borrows
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Show hands the terminal to ov until the user leaves it
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return errNoProgram
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// listingPagerContent renders a directory listing as plain aligned text
func listingPagerContent(dir string, items []domain.FileItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", dir)
	for _, it := range items {
		name := it.Name
		size := ""
		if it.IsDir {
			name += "/"
		} else {
			size = humanize.Bytes(uint64(max(it.Size, 0)))
		}
		fmt.Fprintf(&b, "%-48s %10s  %s\n", name, size, it.ModTime.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// resultsPagerContent renders search matches, one path per line
func resultsPagerContent(req domain.SearchRequest, items []domain.FileItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s matches for %q in %s\n\n", humanize.Comma(int64(len(items))), req.Term, req.Root)
	for _, it := range items {
		rel, err := filepath.Rel(req.Root, it.Path)
		if err != nil {
			rel = it.Path
		}
		b.WriteString(rel)
		b.WriteString("\n")
	}
	return b.String()
}
