package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastexplorer/internal/pool"
)

// writeTree creates files (paths relative to root) and empty directories
// (paths ending in "/") under root.
func writeTree(t *testing.T, root string, entries ...string) {
	t.Helper()
	for _, e := range entries {
		p := filepath.Join(root, filepath.FromSlash(e))
		if e[len(e)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func runScan(t *testing.T, root, term string, workers int, opts ScannerOptions) *ResultSink {
	t.Helper()
	sink := NewResultSink(0)
	p := pool.New(workers)
	defer p.Shutdown()

	s := NewScanner(term, sink, p, opts)
	require.True(t, p.Enqueue(s.Task(context.Background(), root, 0)))
	p.Wait()
	return sink
}

func TestScanSmallTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "B/b.txt", "B/c.TXT", "D/")

	sink := runScan(t, root, "b", 2, ScannerOptions{})

	assert.ElementsMatch(t, []string{filepath.Join(root, "B", "b.txt")}, sink.Snapshot())
	c := sink.Counters()
	assert.Equal(t, int64(3), c.DirectoriesSearched)
	assert.Equal(t, int64(3), c.FilesSearched)
	assert.Equal(t, int64(1), c.FilesFound)
}

func TestScanEmptyDirectory(t *testing.T) {
	root := t.TempDir()

	sink := runScan(t, root, "x", 1, ScannerOptions{})

	assert.Empty(t, sink.Snapshot())
	assert.Equal(t, int64(1), sink.Counters().DirectoriesSearched)
}

type recordingSubmitter struct {
	mu    sync.Mutex
	tasks []pool.Task
}

func (r *recordingSubmitter) Enqueue(task pool.Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, task)
	return true
}

func TestScanFansOutBelowDepthAndInlinesBeyond(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "one/deep/x.txt", "two/x.txt", "three/")

	sub := &recordingSubmitter{}
	sink := NewResultSink(0)
	s := NewScanner("x", sink, sub, ScannerOptions{FanoutDepth: 2})
	require.NoError(t, s.Scan(context.Background(), root, 0))

	// the three depth-1 children were handed to the pool, nothing else scanned yet
	require.Len(t, sub.tasks, 3)
	assert.Equal(t, int64(1), sink.Counters().DirectoriesSearched)

	for _, task := range sub.tasks {
		require.NoError(t, task())
	}
	// "deep" sits at depth 2 and is scanned inline by its parent's task
	assert.Len(t, sub.tasks, 3)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "one", "deep", "x.txt"),
		filepath.Join(root, "two", "x.txt"),
	}, sink.Snapshot())
	assert.Equal(t, int64(5), sink.Counters().DirectoriesSearched)
}

func TestScanCompletenessAcrossPoolSizes(t *testing.T) {
	root := t.TempDir()
	var want []string
	for d := 0; d < 6; d++ {
		dir := fmt.Sprintf("lvl%d/sub", d)
		for f := 0; f < 5; f++ {
			writeTree(t, root, fmt.Sprintf("%s/match_%d.dat", dir, f), fmt.Sprintf("%s/other_%d.dat", dir, f))
			want = append(want, filepath.Join(root, filepath.FromSlash(dir), fmt.Sprintf("match_%d.dat", f)))
		}
	}

	for workers := 1; workers <= 8; workers++ {
		sink := runScan(t, root, "MATCH", workers, ScannerOptions{FanoutDepth: 2})
		assert.ElementsMatch(t, want, sink.Snapshot(), "workers=%d", workers)
		assert.Equal(t, int64(len(want)), sink.Counters().FilesFound, "workers=%d", workers)
		assert.Equal(t, int64(2*len(want)), sink.Counters().FilesSearched, "workers=%d", workers)
	}
}

func TestScanDoesNotFollowDirectoryLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeTree(t, root, "a/target.txt")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "a", "target.txt"), filepath.Join(root, "alias")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	sink := runScan(t, root, "target", 4, ScannerOptions{})

	assert.Equal(t, []string{filepath.Join(root, "a", "target.txt")}, sink.Snapshot())
	c := sink.Counters()
	assert.Equal(t, int64(2), c.DirectoriesSearched)
	// target.txt plus the link to it
	assert.Equal(t, int64(2), c.FilesSearched)
}

func TestScanSkipsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := t.TempDir()
	writeTree(t, root, "open/hit.txt", "locked/hit.txt")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	sink := runScan(t, root, "hit", 2, ScannerOptions{})

	assert.Equal(t, []string{filepath.Join(root, "open", "hit.txt")}, sink.Snapshot())
	// the locked directory still counts as searched
	assert.Equal(t, int64(3), sink.Counters().DirectoriesSearched)
}

func TestScanStopsWhenCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/x.txt", "b/x.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewResultSink(0)
	s := NewScanner("x", sink, nil, ScannerOptions{})
	require.NoError(t, s.Scan(ctx, root, 0))

	assert.Empty(t, sink.Snapshot())
	assert.Equal(t, int64(0), sink.Counters().DirectoriesSearched)
}

// checkLimitContext reports cancellation from the given Err call onwards
type checkLimitContext struct {
	context.Context
	calls atomic.Int32
	limit int32
}

func (c *checkLimitContext) Err() error {
	if c.calls.Add(1) >= c.limit {
		return context.Canceled
	}
	return nil
}

func TestScanStopsMidListingWhenCancelled(t *testing.T) {
	const total = 1000
	root := t.TempDir()
	for i := 0; i < total; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, fmt.Sprintf("f%04d.txt", i)), nil, 0o644))
	}

	// the first check happens on entry, the second after CheckEvery entries
	ctx := &checkLimitContext{Context: context.Background(), limit: 2}
	sink := NewResultSink(0)
	s := NewScanner("f", sink, nil, ScannerOptions{CheckEvery: 10})
	require.NoError(t, s.Scan(ctx, root, 0))

	searched := sink.Counters().FilesSearched
	assert.Less(t, searched, int64(total))
	assert.Equal(t, int64(9), searched, "the check inside the listing stops before the 10th entry")
	assert.Equal(t, int32(2), ctx.calls.Load())
}
