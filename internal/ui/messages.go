package ui

import (
	"fastexplorer/internal/domain"
	"fastexplorer/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// listingMsg carries the outcome of a browsing operation run off the UI goroutine
type listingMsg struct {
	path  string
	items []domain.FileItem
	live  bool
	err   error
}

// searchLaunchedMsg reports the ID of the run started for submission seq
type searchLaunchedMsg struct {
	seq uint64
	id  domain.RunID
}

// searchStartFailedMsg reports a Start that was rejected after submission,
// e.g. because the directory vanished in between
type searchStartFailedMsg struct {
	seq uint64
	err error
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// clearStatusMsg clears the status line after a delay
type clearStatusMsg struct {
	seq int
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
