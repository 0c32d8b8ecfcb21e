package search

import (
	"sync"
	"sync/atomic"

	"fastexplorer/internal/domain"
)

// ResultSink collects the matches and counters of one run.
// Appends are serialized by a mutex; counters are lock-free and only
// loosely consistent with the result slice while a run is active.
type ResultSink struct {
	mu      sync.Mutex
	results []string

	filesSearched       atomic.Int64
	filesFound          atomic.Int64
	directoriesSearched atomic.Int64

	batch  int
	notify chan struct{}
}

// NewResultSink creates a sink that raises a notification every batch appends.
// batch <= 0 disables notifications.
func NewResultSink(batch int) *ResultSink {
	return &ResultSink{
		batch:  batch,
		notify: make(chan struct{}, 1),
	}
}

// Append records one matching path and returns the number of results so far
func (s *ResultSink) Append(path string) int {
	s.mu.Lock()
	s.results = append(s.results, path)
	n := len(s.results)
	s.mu.Unlock()

	if s.batch > 0 && n%s.batch == 0 {
		select {
		case s.notify <- struct{}{}:
		default:
		}
	}
	return n
}

// Snapshot returns a copy of the results accumulated so far
func (s *ResultSink) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.results))
	copy(out, s.results)
	return out
}

// Len returns the number of results accumulated so far
func (s *ResultSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Reset clears results and counters. Only valid while no run is using the sink.
func (s *ResultSink) Reset() {
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()

	s.filesSearched.Store(0)
	s.filesFound.Store(0)
	s.directoriesSearched.Store(0)

	select {
	case <-s.notify:
	default:
	}
}

// Batches delivers a signal whenever another batch of results was appended
func (s *ResultSink) Batches() <-chan struct{} {
	return s.notify
}

func (s *ResultSink) addFileSearched()      { s.filesSearched.Add(1) }
func (s *ResultSink) addFileFound()         { s.filesFound.Add(1) }
func (s *ResultSink) addDirectorySearched() { s.directoriesSearched.Add(1) }

// Counters reads each counter independently
func (s *ResultSink) Counters() domain.ProgressCounters {
	return domain.ProgressCounters{
		FilesSearched:       s.filesSearched.Load(),
		FilesFound:          s.filesFound.Load(),
		DirectoriesSearched: s.directoriesSearched.Load(),
	}
}
