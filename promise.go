package async

// Promise is the write side of a one-shot value of type T. Exactly one
// of SetValue or SetError should be called on it, exactly once; a
// second call returns ErrStateReuse and has no other effect.
//
// A Promise's zero value is invalid; construct one with Contract.
type Promise[T any] struct {
	state *sharedState[T]
}

// SetValue resolves the promise with a value.
func (p Promise[T]) SetValue(v T) error {
	return p.state.setValue(v)
}

// SetError resolves the promise with an error.
func (p Promise[T]) SetError(err error) error {
	return p.state.setError(err)
}

// Future is the read side of a one-shot value of type T. It may be
// consumed exactly once, via Get or Subscribe/SubscribeWith —
// whichever runs first wins; any later call among those three returns
// ErrStateReuse. Wait is a non-consuming peek and may be called any
// number of times, before or after the consuming read.
//
// A Future's zero value is invalid; construct one with Contract, or via
// InstantValue/InstantError for an already-resolved one.
type Future[T any] struct {
	state *sharedState[T]
}

// Contract creates a linked Promise/Future pair sharing one
// sharedState.
func Contract[T any]() (Promise[T], Future[T]) {
	s := newSharedState[T]()
	return Promise[T]{state: s}, Future[T]{state: s}
}

// Get blocks until the future resolves and returns its value or error.
// It is the single consuming read: Get, Subscribe, and SubscribeWith
// each count as the one allowed consumption, so calling any of them a
// second time on the same Future returns ErrStateReuse folded into the
// returned error, since Get has no separate channel for contract
// violations. Wait does not count as a consumption and may precede or
// follow Get freely.
func (f Future[T]) Get() (T, error) {
	v, err, reuseErr := f.state.get()
	if reuseErr != nil {
		var zero T
		return zero, reuseErr
	}
	return v, err
}

// Wait blocks until the future resolves, discarding the value, and
// returns only the error (nil on success). Unlike Get, Wait does not
// consume the Future: it may be called any number of times, and does
// not invalidate a later Get, Subscribe, or SubscribeWith.
func (f Future[T]) Wait() error {
	_, err := f.state.wait()
	return err
}

// Subscribe installs plain callbacks to be invoked on resolution: onValue
// if the future resolves with a value, onError if it resolves with an
// error. Exactly one is called, exactly once. Returns ErrStateReuse if
// the future was already consumed.
func (f Future[T]) Subscribe(onValue func(T), onError func(error)) error {
	return f.SubscribeWith(&funcSubscription[T]{onValue: onValue, onError: onError})
}

// SubscribeWith installs a subscription implementation directly. It is
// the primitive continuations (Then, Catch, Flatten, ...) are built on
// top of.
func (f Future[T]) SubscribeWith(sub subscription[T]) error {
	return f.state.subscribe(sub)
}

// InstantValue returns a Future already resolved with v.
func InstantValue[T any](v T) Future[T] {
	s := newSharedState[T]()
	_ = s.setValue(v)
	return Future[T]{state: s}
}

// InstantError returns a Future already resolved with err.
func InstantError[T any](err error) Future[T] {
	s := newSharedState[T]()
	_ = s.setError(err)
	return Future[T]{state: s}
}

// funcSubscription adapts a pair of plain callbacks to the subscription
// interface. The by tag is intentionally discarded: plain Subscribe
// callers have no pool to reschedule onto, so there is nothing to do
// with it.
type funcSubscription[T any] struct {
	onValue func(T)
	onError func(error)
}

func (f *funcSubscription[T]) resolveValue(v T, _ by) {
	if f.onValue != nil {
		f.onValue(v)
	}
}

func (f *funcSubscription[T]) resolveError(err error, _ by) {
	if f.onError != nil {
		f.onError(err)
	}
}
