package async

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// runnable is a unit of work a ThreadPool executes. asyncTask and
// boundAsyncTask back CallAsync and MakeAsync; runnableFunc wraps the
// plain closures passed to SubmitFunc, including continuations.
type runnable interface {
	run()
}

type runnableFunc func()

func (f runnableFunc) run() { f() }

// ThreadPool is a fixed-size pool of persistent worker goroutines
// draining a single bounded FIFO queue. It has no priority scheduling,
// no work-stealing, and does not cancel tasks already handed to a
// worker: those are explicit Non-goals of this package.
//
// A ThreadPool must be started with Start before Submit is used, and
// may be started again after Stop: each Start builds a fresh queue and
// worker set.
type ThreadPool struct {
	cfg Config

	mu      sync.Mutex
	tasks   chan runnable
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
	workers int

	counters poolCounters

	// workerCounts tracks tasks executed per worker goroutine, indexed
	// by the worker's slot from Start. It backs the fairness check in
	// workerTaskCounts; nothing in the public API exposes per-worker
	// identity, since the pool makes no scheduling guarantee beyond a
	// single shared FIFO queue.
	workerCounts []atomic.Uint64
}

// NewThreadPool builds a ThreadPool from the given options but does not
// start it; call Start to begin executing tasks.
func NewThreadPool(opts ...Option) (*ThreadPool, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = newDefaultLogger()
	}
	return &ThreadPool{cfg: cfg}, nil
}

// Start launches the pool's fixed worker goroutines. It is an error to
// call Start on a pool that is already running; Stop followed by Start
// is the supported way to restart one.
func (p *ThreadPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrPoolRunning
	}

	workers := p.cfg.resolvedWorkers()
	queueSize := p.cfg.resolvedQueueSize()

	p.tasks = make(chan runnable, queueSize)
	p.done = make(chan struct{})
	p.workers = workers
	p.counters.reset()
	p.workerCounts = make([]atomic.Uint64, workers)
	p.running = true

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.workerLoop(i)
	}
	return nil
}

// Submit enqueues a runnable, blocking while the queue is full. It
// returns ErrPoolStopped if the pool is not running and ErrNilTask if
// task is nil.
func (p *ThreadPool) Submit(task runnable) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	tasks := p.tasks
	done := p.done
	p.mu.Unlock()

	select {
	case tasks <- task:
		p.counters.submitted.Add(1)
		return nil
	case <-done:
		return ErrPoolStopped
	}
}

// SubmitFunc is a convenience wrapper for Submit accepting a plain
// closure.
func (p *ThreadPool) SubmitFunc(f func()) error {
	return p.Submit(runnableFunc(f))
}

// TrySubmit enqueues a runnable without blocking, returning false if the
// queue is full or the pool is not running.
func (p *ThreadPool) TrySubmit(task runnable) bool {
	if task == nil {
		return false
	}
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return false
	}
	tasks := p.tasks
	p.mu.Unlock()

	select {
	case tasks <- task:
		p.counters.submitted.Add(1)
		return true
	default:
		return false
	}
}

// Stop closes the queue and blocks until every worker has drained it
// and exited. Tasks already queued run to completion; Stop does not
// cancel anything in flight, per this package's Non-goals. The pool may
// be started again afterward.
func (p *ThreadPool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

// NumWorkers returns the number of worker goroutines the pool was
// started with, or 0 if it has never been started.
func (p *ThreadPool) NumWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// IsRunning reports whether the pool currently accepts submissions.
func (p *ThreadPool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Stats returns a snapshot of the pool's current activity.
func (p *ThreadPool) Stats() Stats {
	p.mu.Lock()
	workers := p.workers
	queueCap := cap(p.tasks)
	queueDepth := len(p.tasks)
	p.mu.Unlock()

	submitted, running, completed, failed := p.counters.snapshot()
	return Stats{
		NumWorkers:    workers,
		QueueCapacity: queueCap,
		QueueDepth:    queueDepth,
		Submitted:     submitted,
		Running:       running,
		Completed:     completed,
		Failed:        failed,
	}
}

func (p *ThreadPool) workerLoop(idx int) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.execute(task)
		p.workerCounts[idx].Add(1)
	}
}

// workerTaskCounts returns the number of tasks each worker has
// executed since the pool was last started, indexed by worker slot.
// Unexported: it exists to let tests verify the fairness that falls
// out of every worker draining one shared queue, not as public API,
// since the pool otherwise never surfaces per-worker identity.
func (p *ThreadPool) workerTaskCounts() []uint64 {
	p.mu.Lock()
	n := len(p.workerCounts)
	p.mu.Unlock()

	counts := make([]uint64, n)
	for i := range counts {
		counts[i] = p.workerCounts[i].Load()
	}
	return counts
}

func (p *ThreadPool) execute(task runnable) {
	p.counters.running.Add(1)
	defer p.counters.running.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			p.counters.failed.Add(1)
			p.cfg.Logger.Error("async: task panicked", "value", r, "stack", string(debug.Stack()))
			if p.cfg.PanicHandler != nil {
				p.cfg.PanicHandler(r)
			}
			return
		}
		p.counters.completed.Add(1)
	}()

	task.run()
}
