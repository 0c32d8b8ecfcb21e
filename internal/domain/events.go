package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted        EventType = "SearchStarted"
	EventSearchProgress       EventType = "SearchProgress"
	EventSearchResultsUpdated EventType = "SearchResultsUpdated"
	EventSearchCompleted      EventType = "SearchCompleted"
	EventSearchTimeout        EventType = "SearchTimeout"
	EventDirectoryLoaded      EventType = "DirectoryLoaded"
	EventDirectoryChanged     EventType = "DirectoryChanged"
	EventError                EventType = "Error"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted once a run has entered Running
type SearchStartedEvent struct {
	RunID   RunID
	Request SearchRequest
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchProgressEvent is emitted by the progress ticker while a run is active
type SearchProgressEvent struct {
	RunID    RunID
	Counters ProgressCounters
	Elapsed  time.Duration
}

func (e SearchProgressEvent) Type() EventType { return EventSearchProgress }

// SearchResultsUpdatedEvent carries a snapshot of the matches found so far
type SearchResultsUpdatedEvent struct {
	RunID   RunID
	Results []string
}

func (e SearchResultsUpdatedEvent) Type() EventType { return EventSearchResultsUpdated }

// SearchCompletedEvent is emitted after every goroutine of the run has been joined
type SearchCompletedEvent struct {
	RunID    RunID
	Request  SearchRequest
	Counters ProgressCounters
	Results  []string
	Reason   CompletionReason
	Elapsed  time.Duration
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchTimeoutEvent asks the UI whether the run should go on.
// The answer must be sent on Reply exactly once; Reply is buffered.
type SearchTimeoutEvent struct {
	RunID   RunID
	Request SearchRequest
	Elapsed time.Duration
	Reply   chan<- bool
}

func (e SearchTimeoutEvent) Type() EventType { return EventSearchTimeout }

// DirectoryLoadedEvent is emitted when the browsed directory listing was (re)loaded
type DirectoryLoadedEvent struct {
	Path        string
	Items       []FileItem
	LiveRefresh bool // false when no change subscription could be established
}

func (e DirectoryLoadedEvent) Type() EventType { return EventDirectoryLoaded }

// DirectoryChangedEvent is emitted when the watched directory changed on disk
type DirectoryChangedEvent struct {
	Path string
}

func (e DirectoryChangedEvent) Type() EventType { return EventDirectoryChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
