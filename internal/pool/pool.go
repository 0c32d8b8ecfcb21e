// Package pool runs directory-scan tasks on a fixed set of worker goroutines
// fed from one shared FIFO queue.
package pool

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"fastexplorer/internal/logging"
)

// Task represents a unit of work that can be executed
type Task func() error

// Default worker bounds applied by Workers
const (
	DefaultMinWorkers = 2
	DefaultMaxWorkers = 8
)

// Workers clamps the reported hardware concurrency into [lo, hi].
// Non-positive bounds fall back to the defaults.
func Workers(hardware, lo, hi int) int {
	if lo <= 0 {
		lo = DefaultMinWorkers
	}
	if hi <= 0 {
		hi = DefaultMaxWorkers
	}
	if hi < lo {
		hi = lo
	}
	switch {
	case hardware < lo:
		return lo
	case hardware > hi:
		return hi
	}
	return hardware
}

// TaskPool executes tasks with a fixed number of workers
type TaskPool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Task
	head     int
	shutdown bool

	pending sync.WaitGroup // enqueued tasks not yet finished
	workers sync.WaitGroup
	live    atomic.Int32
	once    sync.Once

	failures atomic.Int64
	log      *slog.Logger
}

// New starts a pool with n workers (at least one)
func New(n int) *TaskPool {
	if n < 1 {
		n = 1
	}
	p := &TaskPool{log: logging.ForComponent(logging.CompPool)}
	p.cond = sync.NewCond(&p.mu)

	p.workers.Add(n)
	p.live.Add(int32(n))
	for i := 0; i < n; i++ {
		go p.worker(i)
	}
	return p
}

// Enqueue adds a task to the queue and wakes one idle worker.
// It reports false and drops the task once shutdown has begun.
func (p *TaskPool) Enqueue(task Task) bool {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return false
	}
	p.pending.Add(1)
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.cond.Signal()
	return true
}

// Wait blocks until every enqueued task has finished, including tasks that
// were enqueued by other tasks while running.
func (p *TaskPool) Wait() {
	p.pending.Wait()
}

// Shutdown stops accepting tasks, lets the workers drain the queue and joins them.
// Safe to call more than once and on a pool that never received a task.
func (p *TaskPool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.shutdown = true
		p.mu.Unlock()
		p.cond.Broadcast()
	})
	p.workers.Wait()
}

// Live reports how many worker goroutines are still running
func (p *TaskPool) Live() int {
	return int(p.live.Load())
}

// Failures reports how many tasks returned an error or panicked
func (p *TaskPool) Failures() int64 {
	return p.failures.Load()
}

func (p *TaskPool) worker(id int) {
	defer p.workers.Done()
	defer p.live.Add(-1)

	for {
		p.mu.Lock()
		for !p.shutdown && p.head == len(p.queue) {
			p.cond.Wait()
		}
		if p.head == len(p.queue) {
			// shutting down and nothing left
			p.mu.Unlock()
			return
		}
		task := p.queue[p.head]
		p.queue[p.head] = nil
		p.head++
		if p.head == len(p.queue) {
			p.queue = p.queue[:0]
			p.head = 0
		}
		p.mu.Unlock()

		p.run(id, task)
	}
}

func (p *TaskPool) run(id int, task Task) {
	defer p.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			p.failures.Add(1)
			p.log.Error("task_panic",
				slog.Int("worker", id),
				slog.String("panic", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	if err := task(); err != nil {
		p.failures.Add(1)
		p.log.Debug("task_failed", slog.Int("worker", id), slog.String("error", err.Error()))
	}
}
