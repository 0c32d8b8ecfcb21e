package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"fastexplorer/internal/config"
	"fastexplorer/internal/domain"
	"fastexplorer/internal/logging"
	"fastexplorer/internal/pool"
	"fastexplorer/internal/volume"
)

// State is the lifecycle state of the controller
type State int

const (
	Idle State = iota
	Starting
	Running
	TimeoutPrompt
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case TimeoutPrompt:
		return "timeout-prompt"
	case Stopping:
		return "stopping"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Summary describes a finished run
type Summary struct {
	RunID    domain.RunID
	Request  domain.SearchRequest
	Counters domain.ProgressCounters
	Results  []string
	Reason   domain.CompletionReason
	Elapsed  time.Duration
}

// Observer receives run notifications. Methods are called from controller
// goroutines and must not call Start, Stop or Wait.
type Observer interface {
	OnSearchStarted(id domain.RunID, req domain.SearchRequest)
	OnProgress(id domain.RunID, counters domain.ProgressCounters, elapsed time.Duration)
	OnResultsUpdated(id domain.RunID, results []string)
	OnSearchComplete(summary Summary)
}

// PromptFunc asks whether a run that exceeded its timeout should continue.
// It must return promptly once ctx is done.
type PromptFunc func(ctx context.Context, id domain.RunID, req domain.SearchRequest, elapsed time.Duration) bool

// Options configures a Controller
type Options struct {
	Workers          int // fixed pool size; 0 clamps runtime.NumCPU() into [MinWorkers, MaxWorkers]
	MinWorkers       int
	MaxWorkers       int
	FanoutDepth      int
	CheckEvery       int
	ProgressInterval time.Duration
	ResultsBatch     int
	LocalTimeout     time.Duration
	NetworkTimeout   time.Duration

	// Prompt is consulted once per run when the timeout elapses. Nil stops the run.
	Prompt PromptFunc
	// Classify picks the timeout; defaults to volume.Classify.
	Classify func(path string) volume.Kind
}

// OptionsFromConfig maps the search settings onto controller options
func OptionsFromConfig(s config.SearchSettings) Options {
	return Options{
		MinWorkers:       s.MinWorkers,
		MaxWorkers:       s.MaxWorkers,
		FanoutDepth:      s.FanoutDepth,
		CheckEvery:       s.CancelCheckInterval,
		ProgressInterval: s.ProgressInterval(),
		ResultsBatch:     s.ResultsBatch,
		LocalTimeout:     s.Timeout(false),
		NetworkTimeout:   s.Timeout(true),
	}
}

func (o *Options) normalize() {
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = 500 * time.Millisecond
	}
	if o.LocalTimeout <= 0 {
		o.LocalTimeout = 120 * time.Second
	}
	if o.NetworkTimeout <= 0 {
		o.NetworkTimeout = 300 * time.Second
	}
	if o.Classify == nil {
		o.Classify = volume.Classify
	}
}

// searchRun is one start-to-idle lifecycle
type searchRun struct {
	id     domain.RunID
	req    domain.SearchRequest
	ctx    context.Context
	cancel context.CancelFunc
	pool   *pool.TaskPool
	start  time.Time

	reasonOnce sync.Once
	reason     domain.CompletionReason

	bg   sync.WaitGroup // progress ticker and timeout timer
	done chan struct{}  // closed once the run is Idle
}

// stop records why the run ends and flips its cancellation flag. Non-blocking.
func (r *searchRun) stop(reason domain.CompletionReason) {
	r.reasonOnce.Do(func() { r.reason = reason })
	r.cancel()
}

// Controller owns the lifecycle of search runs. At most one run is active;
// starting a new one fully retires the previous one first.
type Controller struct {
	opts Options
	sink *ResultSink

	cmdMu sync.Mutex // serializes Start and Stop

	mu        sync.Mutex
	state     State
	run       *searchRun
	lastID    domain.RunID
	observers []Observer

	newPool func(n int) *pool.TaskPool
	log     *slog.Logger
}

// NewController creates an idle controller
func NewController(opts Options) *Controller {
	opts.normalize()
	return &Controller{
		opts:    opts,
		sink:    NewResultSink(opts.ResultsBatch),
		newPool: pool.New,
		log:     logging.ForComponent(logging.CompSearch),
	}
}

// AddObserver registers an observer for all subsequent notifications
func (c *Controller) AddObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Request returns the request of the current or most recent run
func (c *Controller) Request() (domain.SearchRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil {
		return domain.SearchRequest{}, false
	}
	return c.run.req, true
}

// Counters returns the progress counters of the current or most recent run
func (c *Controller) Counters() domain.ProgressCounters {
	return c.sink.Counters()
}

// Snapshot returns the matches of the current or most recent run
func (c *Controller) Snapshot() []string {
	return c.sink.Snapshot()
}

// Validate checks a start command without touching controller state
func Validate(root, term string) (domain.SearchRequest, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return domain.SearchRequest{}, &ValidationError{Field: "term", Err: ErrEmptyTerm}
	}
	if root == "" {
		return domain.SearchRequest{}, &ValidationError{Field: "root", Err: ErrRootNotDirectory}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return domain.SearchRequest{}, &ValidationError{Field: "root", Value: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return domain.SearchRequest{}, &ValidationError{Field: "root", Value: root, Err: err}
	}
	if !info.IsDir() {
		return domain.SearchRequest{}, &ValidationError{Field: "root", Value: root, Err: ErrRootNotDirectory}
	}
	f, err := os.Open(abs)
	if err != nil {
		return domain.SearchRequest{}, &ValidationError{Field: "root", Value: root, Err: err}
	}
	_ = f.Close()

	return domain.SearchRequest{Root: abs, Term: term}, nil
}

// Start validates the request and begins a new run, returning its ID. An
// invalid request is rejected with a *ValidationError and leaves any active
// run untouched. A valid request first retires the active run synchronously.
func (c *Controller) Start(ctx context.Context, root, term string) (domain.RunID, error) {
	req, err := Validate(root, term)
	if err != nil {
		return 0, err
	}

	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	c.retire(domain.CompletedStopped)

	c.mu.Lock()
	c.state = Starting
	c.lastID++
	id := c.lastID
	c.mu.Unlock()

	c.sink.Reset()
	workers := c.opts.Workers
	if workers <= 0 {
		workers = pool.Workers(runtime.NumCPU(), c.opts.MinWorkers, c.opts.MaxWorkers)
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &searchRun{
		id:     id,
		req:    req,
		ctx:    runCtx,
		cancel: cancel,
		pool:   c.newPool(workers),
		start:  time.Now(),
		done:   make(chan struct{}),
	}
	scanner := NewScanner(req.Term, c.sink, run.pool, ScannerOptions{
		FanoutDepth: c.opts.FanoutDepth,
		CheckEvery:  c.opts.CheckEvery,
	})

	c.mu.Lock()
	c.run = run
	c.mu.Unlock()

	c.log.Info("search_started",
		slog.Uint64("run", uint64(id)),
		slog.String("root", req.Root),
		slog.String("term", req.Term),
		slog.Int("workers", workers))

	run.pool.Enqueue(scanner.Task(runCtx, req.Root, 0))

	c.mu.Lock()
	c.state = Running
	c.mu.Unlock()
	c.notify(func(o Observer) { o.OnSearchStarted(id, req) })

	run.bg.Add(2)
	go c.tick(run)
	go c.watchTimeout(run)
	go c.finish(run)

	return id, nil
}

// Stop cancels the active run and returns once it is Idle with every
// goroutine joined. Calling Stop with no active run is a no-op.
func (c *Controller) Stop() {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	c.retire(domain.CompletedStopped)
}

// Wait blocks until the current run, if any, reaches Idle
func (c *Controller) Wait() {
	c.mu.Lock()
	run := c.run
	c.mu.Unlock()
	if run != nil {
		<-run.done
	}
}

func (c *Controller) retire(reason domain.CompletionReason) {
	c.mu.Lock()
	run := c.run
	c.mu.Unlock()
	if run == nil {
		return
	}
	run.stop(reason)
	<-run.done
}

// finish waits for natural completion or cancellation, then performs the
// Stopping -> Idle transition.
func (c *Controller) finish(run *searchRun) {
	drained := make(chan struct{})
	go func() {
		run.pool.Wait()
		close(drained)
	}()

	reason := domain.CompletedNaturally
	select {
	case <-drained:
	case <-run.ctx.Done():
		run.reasonOnce.Do(func() { run.reason = domain.CompletedStopped })
		reason = run.reason
	}

	c.setState(run, Stopping)
	run.cancel()
	run.bg.Wait()
	run.pool.Shutdown()
	<-drained

	summary := Summary{
		RunID:    run.id,
		Request:  run.req,
		Counters: c.sink.Counters(),
		Results:  c.sink.Snapshot(),
		Reason:   reason,
		Elapsed:  time.Since(run.start),
	}
	c.log.Info("search_completed",
		slog.Uint64("run", uint64(run.id)),
		slog.String("root", run.req.Root),
		slog.String("reason", string(reason)),
		slog.Int64("files_searched", summary.Counters.FilesSearched),
		slog.Int64("files_found", summary.Counters.FilesFound),
		slog.Int64("directories_searched", summary.Counters.DirectoriesSearched),
		slog.Int64("task_failures", run.pool.Failures()),
		slog.Duration("elapsed", summary.Elapsed))

	c.notify(func(o Observer) { o.OnSearchComplete(summary) })

	c.setState(run, Idle)
	close(run.done)
}

// tick posts progress every interval regardless of match activity, and a
// results snapshot whenever the result count changed.
func (c *Controller) tick(run *searchRun) {
	defer run.bg.Done()

	ticker := time.NewTicker(c.opts.ProgressInterval)
	defer ticker.Stop()

	lastLen := 0
	pushResults := func() {
		if n := c.sink.Len(); n != lastLen {
			lastLen = n
			snapshot := c.sink.Snapshot()
			c.notify(func(o Observer) { o.OnResultsUpdated(run.id, snapshot) })
		}
	}

	for {
		select {
		case <-run.ctx.Done():
			return
		case <-c.sink.Batches():
			pushResults()
		case <-ticker.C:
			counters := c.sink.Counters()
			elapsed := time.Since(run.start)
			c.notify(func(o Observer) { o.OnProgress(run.id, counters, elapsed) })
			pushResults()
		}
	}
}

// watchTimeout asks once whether to continue when the run outlives its timeout
func (c *Controller) watchTimeout(run *searchRun) {
	defer run.bg.Done()

	kind := c.opts.Classify(run.req.Root)
	timeout := c.opts.LocalTimeout
	if kind == volume.Network {
		timeout = c.opts.NetworkTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-run.ctx.Done():
		return
	case <-timer.C:
	}

	c.mu.Lock()
	if c.run != run || c.state != Running || run.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.state = TimeoutPrompt
	c.mu.Unlock()

	elapsed := time.Since(run.start)
	c.log.Info("search_timeout", slog.String("volume", kind.String()), slog.Duration("elapsed", elapsed))

	proceed := false
	if c.opts.Prompt != nil {
		proceed = c.opts.Prompt(run.ctx, run.id, run.req, elapsed)
	}
	if run.ctx.Err() != nil {
		return
	}

	if proceed {
		c.mu.Lock()
		if c.run == run && c.state == TimeoutPrompt {
			c.state = Running
		}
		c.mu.Unlock()
		return
	}
	run.stop(domain.CompletedTimeout)
}

func (c *Controller) setState(run *searchRun, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == run {
		c.state = s
	}
}

func (c *Controller) notify(fn func(Observer)) {
	c.mu.Lock()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, o := range observers {
		fn(o)
	}
}
