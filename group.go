package async

import (
	"sync"
	"sync/atomic"
)

type groupMode int32

const (
	groupOpen groupMode = iota
	groupWantAll
	groupWantFirst
)

// joinSlot holds one Join's eventual outcome. It is always referenced
// through a *joinSlot so that groupState.slots can grow (via append)
// without invalidating a pointer a subscription already captured.
type joinSlot[T any] struct {
	value T
	err   error
}

// groupState is the shared machinery behind a TaskGroup: an atomic
// pending counter (one credit for the group itself, plus one per Join,
// mirroring a sync.WaitGroup that never knows its final count up
// front), a growable set of stable-address join slots, and a one-shot
// outcome that fires as either "all" or "first" but never both.
type groupState[T any] struct {
	mu    sync.Mutex
	slots []*joinSlot[T]

	pending atomic.Int64

	sealKind atomic.Int32
	fired    atomic.Bool

	firstErrClaimed atomic.Bool
	firstErrValue   atomic.Pointer[error]
	lastErrValue    atomic.Pointer[error]

	firstValueClaimed atomic.Bool
	firstValue        atomic.Pointer[T]

	allPromise Promise[[]T]
	allFuture  Future[[]T]

	firstPromise Promise[T]
	firstFuture  Future[T]
}

func newGroupState[T any]() *groupState[T] {
	g := &groupState[T]{}
	g.pending.Store(1)
	g.allPromise, g.allFuture = Contract[[]T]()
	g.firstPromise, g.firstFuture = Contract[T]()
	return g
}

func (g *groupState[T]) addSlot() (*joinSlot[T], int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	slot := &joinSlot[T]{}
	g.slots = append(g.slots, slot)
	return slot, len(g.slots) - 1
}

// removeSlot drops a slot added by addSlot that never ended up
// subscribed, so a failed Join leaves no zero-value gap in the order
// All later reports.
func (g *groupState[T]) removeSlot(target *joinSlot[T]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, s := range g.slots {
		if s == target {
			g.slots = append(g.slots[:i], g.slots[i+1:]...)
			return
		}
	}
}

func (g *groupState[T]) onValueJoined(v T) {
	if g.firstValueClaimed.CompareAndSwap(false, true) {
		vv := v
		g.firstValue.Store(&vv)
	}
	if groupMode(g.sealKind.Load()) == groupWantFirst {
		g.tryFireFirstValue()
	}
}

func (g *groupState[T]) onErrorJoined(err error) {
	e := err
	g.lastErrValue.Store(&e)
	if g.firstErrClaimed.CompareAndSwap(false, true) {
		g.firstErrValue.Store(&e)
	}
	if groupMode(g.sealKind.Load()) == groupWantAll {
		g.tryFireAllError()
	}
}

func (g *groupState[T]) done() {
	remaining := g.pending.Add(-1)
	g.checkFire(remaining)
}

func (g *groupState[T]) tryFireAllError() {
	fe := g.firstErrValue.Load()
	if fe == nil {
		return
	}
	if g.fired.CompareAndSwap(false, true) {
		_ = g.allPromise.SetError(*fe)
	}
}

func (g *groupState[T]) tryFireFirstValue() {
	fv := g.firstValue.Load()
	if fv == nil {
		return
	}
	if g.fired.CompareAndSwap(false, true) {
		_ = g.firstPromise.SetValue(*fv)
	}
}

func (g *groupState[T]) fireAllSuccess() {
	if !g.fired.CompareAndSwap(false, true) {
		return
	}
	g.mu.Lock()
	vals := make([]T, len(g.slots))
	for i, s := range g.slots {
		vals[i] = s.value
	}
	g.mu.Unlock()
	_ = g.allPromise.SetValue(vals)
}

func (g *groupState[T]) fireFirstFailure() {
	if !g.fired.CompareAndSwap(false, true) {
		return
	}
	if le := g.lastErrValue.Load(); le != nil {
		_ = g.firstPromise.SetError(*le)
		return
	}
	_ = g.firstPromise.SetError(ErrEmptyGroup)
}

// checkFire re-evaluates whether the group's sealed outcome can now
// fire. It is called both right after sealing (All/First) and after
// every join resolves.
func (g *groupState[T]) checkFire(remaining int64) {
	switch groupMode(g.sealKind.Load()) {
	case groupWantAll:
		g.tryFireAllError()
		if remaining == 0 {
			g.fireAllSuccess()
		}
	case groupWantFirst:
		g.tryFireFirstValue()
		if remaining == 0 {
			g.fireFirstFailure()
		}
	}
}

// joinSubscription is installed on the AsyncResult passed to Join. It
// records the outcome into a stable slot and releases the group's
// pending credit for it.
type joinSubscription[T any] struct {
	group *groupState[T]
	slot  *joinSlot[T]
}

func (s *joinSubscription[T]) resolveValue(v T, _ by) {
	s.slot.value = v
	s.group.onValueJoined(v)
	s.group.done()
}

func (s *joinSubscription[T]) resolveError(err error, _ by) {
	s.slot.err = err
	s.group.onErrorJoined(err)
	s.group.done()
}

// TaskGroup aggregates many AsyncResult[T] into either an "all" outcome
// (every value, in join order, fail-fast on the first error) or a
// "first" outcome (the first successful value, or else the last
// registered error if every joined result failed).
//
// A TaskGroup may be sealed with All or First exactly once; calling
// both, or the same one twice, returns an AsyncResult already resolved
// with ErrStateReuse.
type TaskGroup[T any] struct {
	state *groupState[T]
}

// NewTaskGroup creates an empty TaskGroup ready to accept Join calls.
func NewTaskGroup[T any]() *TaskGroup[T] {
	return &TaskGroup[T]{state: newGroupState[T]()}
}

// Join adds ar to the group. Join may be called before or after the
// group is sealed with All or First, and may be called concurrently
// from multiple goroutines. It returns ErrNilJoin if ar is the zero
// value, or ErrStateReuse if ar's underlying Future was already
// consumed elsewhere — in which case the pending credit and slot taken
// for this join are both released immediately, so a failed Join never
// blocks All or First from firing and never leaves a zero-value gap in
// All's result.
func (g *TaskGroup[T]) Join(ar AsyncResult[T]) error {
	if ar.future.state == nil {
		return ErrNilJoin
	}
	slot, _ := g.state.addSlot()
	g.state.pending.Add(1)
	sub := &joinSubscription[T]{group: g.state, slot: slot}
	if err := ar.future.SubscribeWith(sub); err != nil {
		g.state.removeSlot(slot)
		g.state.done()
		return err
	}
	return nil
}

// All seals the group for the "all" outcome: an AsyncResult[[]T] that
// resolves with every joined value, in join order, once all of them
// have resolved successfully — or with the first error registered by
// any join, as soon as it is registered, without waiting for the rest.
// Sealing an already-sealed group returns an AsyncResult already
// resolved with ErrStateReuse.
func (g *TaskGroup[T]) All() AsyncResult[[]T] {
	if !g.state.sealKind.CompareAndSwap(int32(groupOpen), int32(groupWantAll)) {
		return InstantFail[[]T](ErrStateReuse)
	}
	remaining := g.state.pending.Add(-1)
	g.state.checkFire(remaining)
	return newAsyncResult(g.state.allFuture, nil)
}

// First seals the group for the "first" outcome: an AsyncResult[T] that
// resolves with the first value produced by any joined result, or, if
// every joined result fails, with the last error registered among
// them. Sealing an empty group (no Join was ever called) resolves with
// ErrEmptyGroup. Sealing an already-sealed group returns an
// AsyncResult already resolved with ErrStateReuse.
func (g *TaskGroup[T]) First() AsyncResult[T] {
	if !g.state.sealKind.CompareAndSwap(int32(groupOpen), int32(groupWantFirst)) {
		return InstantFail[T](ErrStateReuse)
	}
	remaining := g.state.pending.Add(-1)
	g.state.checkFire(remaining)
	return newAsyncResult(g.state.firstFuture, nil)
}
