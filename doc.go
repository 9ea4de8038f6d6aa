// Package async provides promises, composable async results, and task
// groups built on top of a small fixed-size worker pool.
//
// The three pieces are meant to be used together: a ThreadPool runs the
// work, an AsyncResult is the handle you get back and chain
// continuations onto, and a TaskGroup aggregates many AsyncResults into
// either every value or the first one.
//
// # Quick Start
//
//	pool, err := async.NewThreadPool(async.WithNumWorkers(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := pool.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Stop()
//
//	result := async.CallAsync(pool, func() (int, error) {
//	    return 21 * 2, nil
//	})
//	v, err := result.Get()
//
// # Promises and Futures
//
// Contract creates a linked Promise/Future pair over a single one-shot
// slot. The producer resolves the Promise exactly once; the consumer
// reads the Future exactly once, either by blocking (Get) or by
// subscribing (Subscribe, SubscribeWith). A second attempt at either
// side returns ErrStateReuse. Wait blocks without consuming the Future
// and may be called any number of times.
//
//	p, f := async.Contract[string]()
//	go func() { _ = p.SetValue("done") }()
//	v, err := f.Get()
//
// # Chaining
//
// AsyncResult composes with Then, Catch, and Flatten. An error skips
// Then and propagates; a value skips Catch and propagates.
//
//	r := async.CallAsync(pool, fetchUser)
//	r2 := async.Then(r, func(u User) (Profile, error) {
//	    return loadProfile(u)
//	})
//	r3 := async.Catch(r2, func(err *NotFoundError) (Profile, error) {
//	    return defaultProfile, nil
//	})
//
// Catch only runs fn for errors matching E, checked with errors.As
// against the resolved error's Unwrap chain; anything else propagates
// unchanged. Pass the plain error interface as E to recover from every
// error.
//
// By default continuations run under PolicyLazy: every continuation is
// submitted to the pool as its own task, whether or not the upstream
// value was already available when it was attached. Pass PolicyEager
// to run a continuation inline, on the resolving goroutine, when that
// goroutine is the producer — useful for a chain of thens running
// back-to-back on one worker without extra round trips through the
// pool. Pass PolicyNoSchedule to always run inline regardless of which
// side resolved it. Use In to rebind which pool later continuations
// schedule onto.
//
// # Task Groups
//
// TaskGroup collects many AsyncResult[T] and produces either every
// value (All) or the first one (First). Join may be called before or
// after All/First seals the group; a group may be sealed only once.
//
//	g := async.NewTaskGroup[int]()
//	for _, url := range urls {
//	    g.Join(async.CallAsync(pool, fetchLen(url)))
//	}
//	total, err := g.All().Get()
//
// # Non-goals
//
// This package does not cancel a task once a worker has started
// running it, does not schedule by priority, does not steal work
// across separate ThreadPools, cannot pin a continuation to a specific
// worker, does not detect deadlocks, and does not integrate with an
// external event loop. context.Context is deliberately absent from the
// core API for the same reason: adding it would reintroduce
// cancellation through the back door.
package async
