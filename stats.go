package async

import "sync/atomic"

// Stats is a snapshot of a ThreadPool's activity. All counters are read
// with atomic loads and may be slightly inconsistent with each other
// under concurrent submission, exactly like reading them would be in
// any lock-free pool.
type Stats struct {
	// NumWorkers is the fixed number of worker goroutines. Set at Start
	// and unchanged until the next Start.
	NumWorkers int

	// QueueCapacity is the bound on the task queue.
	QueueCapacity int

	// QueueDepth is the number of tasks currently queued, not counting
	// tasks in flight on a worker.
	QueueDepth int

	// Submitted is the total number of tasks accepted by Submit since
	// the pool was last started.
	Submitted uint64

	// Running is the number of tasks currently executing.
	Running int64

	// Completed is the total number of tasks that finished without
	// panicking. Tasks that panicked are counted in Failed instead.
	Completed uint64

	// Failed is the total number of tasks that panicked.
	Failed uint64
}

// poolCounters holds the atomic fields backing Stats. Kept as a
// separate type so ThreadPool.counters stays cheap to reset on Start.
type poolCounters struct {
	submitted atomic.Uint64
	running   atomic.Int64
	completed atomic.Uint64
	failed    atomic.Uint64
}

func (c *poolCounters) snapshot() (submitted uint64, running int64, completed, failed uint64) {
	return c.submitted.Load(), c.running.Load(), c.completed.Load(), c.failed.Load()
}

// reset zeroes all counters in place. Used on Start so a restarted pool
// reports fresh stats without copying the atomic fields themselves.
func (c *poolCounters) reset() {
	c.submitted.Store(0)
	c.running.Store(0)
	c.completed.Store(0)
	c.failed.Store(0)
}
