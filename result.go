package async

// Void stands in for "no meaningful value" wherever the source library
// would use a value-less completion — an AsyncResult[Void] produced by
// a side-effecting task or by InstantVoid.
type Void struct{}

// AsyncResult is a composable handle on a value that becomes available
// asynchronously: a Future paired with the ThreadPool, if any, that
// continuations attached to it should run on.
//
// AsyncResult is single-consumer, like the Future it wraps: exactly one
// of Get, Then, Catch, Flatten (via the package function), or ToStd may
// be called on a given AsyncResult. Wait does not consume it and may be
// called alongside any of them.
type AsyncResult[T any] struct {
	future Future[T]
	pool   *ThreadPool
}

// newAsyncResult wraps a Future/pool pair. Unexported: callers get an
// AsyncResult from CallAsync, MakeAsync, Instant, InstantFail,
// InstantVoid, or a continuation method.
func newAsyncResult[T any](f Future[T], pool *ThreadPool) AsyncResult[T] {
	return AsyncResult[T]{future: f, pool: pool}
}

// Instant returns an already-resolved AsyncResult carrying v, with no
// parent pool: any continuation attached to it runs under
// PolicyNoSchedule unless rebound with In first.
func Instant[T any](v T) AsyncResult[T] {
	return newAsyncResult(InstantValue(v), nil)
}

// InstantFail returns an already-resolved, failed AsyncResult, with no
// parent pool.
func InstantFail[T any](err error) AsyncResult[T] {
	return newAsyncResult(InstantError[T](err), nil)
}

// InstantVoid returns an already-resolved AsyncResult[Void], useful as
// the return value of a fire-and-forget continuation.
func InstantVoid() AsyncResult[Void] {
	return Instant(Void{})
}

// Get blocks until the result is available and returns its value or
// error. It is the single consuming read on the underlying Future.
func (r AsyncResult[T]) Get() (T, error) {
	return r.future.Get()
}

// Wait blocks until the result is available, discarding the value. It
// does not consume the underlying Future, so a later Get still works.
func (r AsyncResult[T]) Wait() error {
	return r.future.Wait()
}

// In rebinds the pool continuations attached after this call are
// scheduled on. It does not consume the underlying Future: the
// returned AsyncResult still refers to the same one-shot value.
func (r AsyncResult[T]) In(pool *ThreadPool) AsyncResult[T] {
	return AsyncResult[T]{future: r.future, pool: pool}
}

// ToStd bridges this AsyncResult to a buffered channel of Outcome[T],
// the idiom nearest the host platform's standard future type. The
// channel receives exactly one Outcome and is then closed.
func (r AsyncResult[T]) ToStd() <-chan Outcome[T] {
	ch := make(chan Outcome[T], 1)
	if err := r.future.SubscribeWith(&toStdSubscription[T]{ch: ch}); err != nil {
		ch <- Outcome[T]{Err: err}
		close(ch)
	}
	return ch
}

// Then attaches a value-transforming continuation. If this result
// resolves with an error, fn is skipped and the error propagates
// unchanged to the returned AsyncResult. The continuation's scheduling
// follows PolicyLazy unless overridden with an explicit policy
// argument.
func Then[T, U any](r AsyncResult[T], fn func(T) (U, error), policy ...Policy) AsyncResult[U] {
	p, out := Contract[U]()
	sub := &thenSubscription[T, U]{
		pool:   r.pool,
		policy: resolvePolicy(policy),
		fn:     fn,
		out:    p,
	}
	if err := r.future.SubscribeWith(sub); err != nil {
		_ = p.SetError(err)
	}
	return newAsyncResult(out, r.pool)
}

// Catch attaches an error-recovering continuation that only runs for
// errors matching E: fn is invoked with the first error in the chain
// (via errors.As) assignable to E. If this result resolves with a
// value, or with an error that does not match E, fn is skipped and the
// original resolution propagates unchanged. Pass E as the plain error
// interface to recover from every error, matching the old catch-all
// behavior.
//
// It is a package function, like Then, because adding E as a new type
// parameter on a method receiving AsyncResult[T] is not expressible in
// Go's method syntax.
func Catch[T any, E error](r AsyncResult[T], fn func(E) (T, error), policy ...Policy) AsyncResult[T] {
	p, out := Contract[T]()
	sub := &catchSubscription[T, E]{
		pool:   r.pool,
		policy: resolvePolicy(policy),
		fn:     fn,
		out:    p,
	}
	if err := r.future.SubscribeWith(sub); err != nil {
		_ = p.SetError(err)
	}
	return newAsyncResult(out, r.pool)
}

// Flatten collapses an AsyncResult of an AsyncResult into a single
// AsyncResult: the returned handle resolves with the inner result's
// eventual value or error, once both layers have resolved.
//
// It is a package function rather than a method because Go's method
// syntax cannot express "T is itself an AsyncResult[U] for some U" as
// a receiver constraint.
func Flatten[U any](r AsyncResult[AsyncResult[U]]) AsyncResult[U] {
	p, out := Contract[U]()
	err := r.future.SubscribeWith(&flattenSubscription[U]{out: p})
	if err != nil {
		_ = p.SetError(err)
	}
	return newAsyncResult(out, r.pool)
}

// flattenSubscription receives the outer resolution: a nested
// AsyncResult on success, or an error that never produced one. Either
// way it forwards into out with no scheduling policy, since no user
// code runs here — only wiring.
type flattenSubscription[U any] struct {
	out Promise[U]
}

func (s *flattenSubscription[U]) resolveValue(inner AsyncResult[U], _ by) {
	if err := inner.future.SubscribeWith(&forwardSubscription[U]{out: s.out}); err != nil {
		_ = s.out.SetError(err)
	}
}

func (s *flattenSubscription[U]) resolveError(err error, _ by) {
	_ = s.out.SetError(err)
}

func resolvePolicy(policy []Policy) Policy {
	if len(policy) > 0 {
		return policy[0]
	}
	return defaultPolicy
}

// CallAsync submits f to pool and returns an AsyncResult bound to it.
// If pool rejects the submission (it is not running), the returned
// AsyncResult is immediately resolved with that error.
func CallAsync[T any](pool *ThreadPool, f func() (T, error)) AsyncResult[T] {
	p, fut := Contract[T]()
	if err := pool.Submit(newAsyncTask(f, p)); err != nil {
		_ = p.SetError(err)
	}
	return newAsyncResult(fut, pool)
}

// MakeAsync fixes a callable against a pool and returns a function that
// produces a fresh AsyncResult per argument, submitting a new task each
// time it is called. It is the ergonomic front door for turning an
// existing (A) (T, error) function into an async one without hand
// building a Contract at each call site.
func MakeAsync[A, T any](pool *ThreadPool, f func(A) (T, error)) func(A) AsyncResult[T] {
	return func(arg A) AsyncResult[T] {
		p, fut := Contract[T]()
		if err := pool.Submit(newBoundAsyncTask(f, arg, p)); err != nil {
			_ = p.SetError(err)
		}
		return newAsyncResult(fut, pool)
	}
}
