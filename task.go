package async

// invokeUser runs a user-supplied callable, converting a panic or a
// returned error into a KindUser *Error. Every entry point into
// caller-supplied code — task bodies, then/catch continuations —
// funnels through this so the error taxonomy in errors.go is applied
// uniformly.
func invokeUser[T any](f func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = wrapUserError(&PanicError{Value: r})
		}
	}()
	v, rawErr := f()
	if rawErr != nil {
		err = wrapUserError(rawErr)
	}
	return v, err
}

// asyncTask binds a zero-argument callable to a Promise[T]. Submitting
// one to a ThreadPool is how CallAsync actually produces an
// AsyncResult[T].
type asyncTask[T any] struct {
	fn func() (T, error)
	p  Promise[T]
}

func newAsyncTask[T any](fn func() (T, error), p Promise[T]) *asyncTask[T] {
	return &asyncTask[T]{fn: fn, p: p}
}

func (t *asyncTask[T]) run() {
	v, err := invokeUser(t.fn)
	if err != nil {
		_ = t.p.SetError(err)
		return
	}
	_ = t.p.SetValue(v)
}

// boundAsyncTask binds a one-argument callable and its argument to a
// Promise[T]. It backs MakeAsync, which fixes the callable once and
// produces a new AsyncResult per argument.
type boundAsyncTask[A, T any] struct {
	fn  func(A) (T, error)
	arg A
	p   Promise[T]
}

func newBoundAsyncTask[A, T any](fn func(A) (T, error), arg A, p Promise[T]) *boundAsyncTask[A, T] {
	return &boundAsyncTask[A, T]{fn: fn, arg: arg, p: p}
}

func (t *boundAsyncTask[A, T]) run() {
	v, err := invokeUser(func() (T, error) { return t.fn(t.arg) })
	if err != nil {
		_ = t.p.SetError(err)
		return
	}
	_ = t.p.SetValue(v)
}
