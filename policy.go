package async

// Policy selects how a continuation attached via Then/Catch runs
// relative to the resolution of the AsyncResult it was attached to.
// Flatten takes no Policy: it only forwards the inner resolution.
type Policy int

const (
	// PolicyLazy always submits the continuation to the parent pool,
	// even if the upstream value is already available. This gives the
	// most predictable stack depth and thread identity at the cost of a
	// pool round trip on every step.
	PolicyLazy Policy = iota

	// PolicyEager runs the continuation inline, on the resolving
	// goroutine, when that goroutine is the producer (the worker that
	// computed the upstream value) — the common case where a chain of
	// thens is running back-to-back on one worker. If the upstream was
	// already resolved when the continuation was attached, the attaching
	// goroutine is a consumer, not the producer, and the continuation is
	// submitted to the pool instead of running on that goroutine.
	PolicyEager

	// PolicyNoSchedule always runs the continuation inline, regardless
	// of which side resolved it. This is what an AsyncResult with no
	// parent pool falls back to.
	PolicyNoSchedule

	// defaultPolicy is used when Then/Catch is not given an
	// explicit Policy argument: every continuation is submitted to the
	// pool, matching PolicyLazy.
	defaultPolicy = PolicyLazy
)

// runContinuation decides, given a policy, the resolving side (by), and
// an optional pool, whether to run fn inline or submit it. It always
// runs fn somewhere exactly once.
func runContinuation(pool *ThreadPool, policy Policy, resolvedBy by, fn func()) {
	if pool == nil {
		if policy != PolicyNoSchedule {
			defaultLogger.Warn("async: continuation forced to NoSchedule, parent AsyncResult has no pool", "policy", policy)
		}
		fn()
		return
	}

	switch policy {
	case PolicyNoSchedule:
		fn()
	case PolicyEager:
		if resolvedBy == byProducer {
			fn()
			return
		}
		if err := pool.SubmitFunc(fn); err != nil {
			pool.cfg.Logger.Warn("async: continuation pool unavailable, running inline", "error", err)
			fn()
		}
	default: // PolicyLazy
		if err := pool.SubmitFunc(fn); err != nil {
			pool.cfg.Logger.Warn("async: continuation pool unavailable, running inline", "error", err)
			fn()
		}
	}
}
