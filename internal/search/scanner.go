package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"fastexplorer/internal/logging"
	"fastexplorer/internal/pool"
)

// Submitter accepts scan tasks. *pool.TaskPool satisfies it.
type Submitter interface {
	Enqueue(task pool.Task) bool
}

// ScannerOptions tunes the walk
type ScannerOptions struct {
	// FanoutDepth is the depth from which subdirectories are scanned inline
	// on the current goroutine instead of being submitted as new tasks.
	FanoutDepth int
	// CheckEvery is the number of entries processed between cancellation checks.
	CheckEvery int
}

// Scanner walks a directory tree for one run, matching file names and
// fanning subdirectories out to the pool.
type Scanner struct {
	matcher Matcher
	sink    *ResultSink
	pool    Submitter
	opts    ScannerOptions
	log     *slog.Logger
}

// NewScanner creates a scanner for term writing into sink and submitting to p
func NewScanner(term string, sink *ResultSink, p Submitter, opts ScannerOptions) *Scanner {
	if opts.FanoutDepth <= 0 {
		opts.FanoutDepth = 50
	}
	if opts.CheckEvery <= 0 {
		opts.CheckEvery = 100
	}
	return &Scanner{
		matcher: NewMatcher(term),
		sink:    sink,
		pool:    p,
		opts:    opts,
		log:     logging.ForComponent(logging.CompSearch),
	}
}

// Task returns a pool task scanning dir at the given depth
func (s *Scanner) Task(ctx context.Context, dir string, depth int) pool.Task {
	return func() error {
		return s.Scan(ctx, dir, depth)
	}
}

// Scan enumerates dir once. Files are matched against the term; each
// non-symlink subdirectory is either submitted to the pool as a new task
// (while depth+1 is below the fan-out depth) or scanned inline.
//
// The returned error only reports that dir itself could not be read; entries
// that fail individually are skipped.
func (s *Scanner) Scan(ctx context.Context, dir string, depth int) error {
	if ctx.Err() != nil {
		return nil
	}
	s.sink.addDirectorySearched()

	f, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	defer f.Close()

	processed := 0
	for {
		entries, readErr := f.ReadDir(s.opts.CheckEvery)
		for _, entry := range entries {
			processed++
			if processed%s.opts.CheckEvery == 0 && ctx.Err() != nil {
				return nil
			}
			s.visit(ctx, dir, entry, depth)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read %s: %w", dir, readErr)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *Scanner) visit(ctx context.Context, dir string, entry fs.DirEntry, depth int) {
	path := filepath.Join(dir, entry.Name())
	mode := entry.Type()

	switch {
	case mode.IsRegular():
		s.matchFile(entry.Name(), path)

	case mode&fs.ModeSymlink != 0:
		// never descend through links; a link to a regular file still counts as a file
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.Mode().IsRegular() {
			s.matchFile(entry.Name(), path)
		}

	case mode.IsDir():
		s.descend(ctx, path, depth+1)
	}
}

func (s *Scanner) matchFile(name, path string) {
	s.sink.addFileSearched()
	if s.matcher.Match(name) {
		s.sink.Append(path)
		s.sink.addFileFound()
	}
}

func (s *Scanner) descend(ctx context.Context, dir string, depth int) {
	if depth < s.opts.FanoutDepth && s.pool != nil {
		// dropped only when the pool is shutting down, which follows cancellation
		s.pool.Enqueue(s.Task(ctx, dir, depth))
		return
	}
	if err := s.Scan(ctx, dir, depth); err != nil {
		s.log.Debug("scan_inline_failed", slog.String("dir", dir), slog.String("error", err.Error()))
	}
}
