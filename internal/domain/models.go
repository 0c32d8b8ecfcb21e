package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// SearchRequest is one search started by the user. It does not change during a run.
type SearchRequest struct {
	Root string // absolute directory the search starts from
	Term string // non-empty query, matched case-insensitively against file names
}

// RunID identifies one search run. IDs increase with every start; zero is never assigned.
type RunID uint64

// ProgressCounters are the counters of one search run
type ProgressCounters struct {
	FilesSearched       int64
	FilesFound          int64
	DirectoriesSearched int64
}

// CompletionReason tells why a run reached Idle
type CompletionReason string

const (
	CompletedNaturally CompletionReason = "completed" // every directory was scanned
	CompletedStopped   CompletionReason = "stopped"   // explicit stop or a newer run replaced it
	CompletedTimeout   CompletionReason = "timeout"   // user declined to continue past the timeout
)

// FileItem is one row of a directory listing or of the search results
type FileItem struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Ext returns the lower-cased extension without the leading dot
func (f FileItem) Ext() string {
	ext := filepath.Ext(f.Name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// SortCriteria selects the column a listing is sorted by
type SortCriteria string

const (
	SortByName SortCriteria = "name"
	SortBySize SortCriteria = "size"
	SortByType SortCriteria = "type"
	SortByDate SortCriteria = "date"
)

// Next cycles through the sort criteria in display order
func (s SortCriteria) Next() SortCriteria {
	switch s {
	case SortByName:
		return SortBySize
	case SortBySize:
		return SortByType
	case SortByType:
		return SortByDate
	default:
		return SortByName
	}
}
