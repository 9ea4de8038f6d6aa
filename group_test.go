package async

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskGroupAllPreservesJoinOrder(t *testing.T) {
	pool := newTestPool(t, 4)

	g := NewTaskGroup[int]()
	// Join in a specific order but let later-joined tasks finish first,
	// to check the returned slice follows join order, not completion
	// order.
	delays := []time.Duration{30 * time.Millisecond, 0, 15 * time.Millisecond}
	for i, d := range delays {
		i, d := i, d
		r := CallAsync(pool, func() (int, error) {
			time.Sleep(d)
			return i, nil
		})
		require.NoError(t, g.Join(r))
	}

	values, err := g.All().Get()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, values)
}

func TestTaskGroupAllFailsFastOnFirstError(t *testing.T) {
	pool := newTestPool(t, 4)
	boom := errors.New("task failed")

	g := NewTaskGroup[int]()
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 1, nil
	})))
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		return 0, boom
	})))
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 3, nil
	})))

	start := time.Now()
	_, err := g.All().Get()
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, boom)
	assert.Less(t, elapsed, 40*time.Millisecond, "All should fail fast, not wait for the slow tasks")
}

func TestTaskGroupAllEmptyGroupSucceeds(t *testing.T) {
	g := NewTaskGroup[int]()
	values, err := g.All().Get()
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestTaskGroupFirstReturnsFirstSuccess(t *testing.T) {
	pool := newTestPool(t, 4)
	boom := errors.New("slow failure")

	g := NewTaskGroup[int]()
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 0, boom
	})))
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		return 7, nil
	})))

	v, err := g.First().Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

// TestTaskGroupFirstReturnsLastErrorWhenAllFail pins the documented
// resolution of "first, else the last registered error": when nothing
// succeeds, First reports whichever error was registered most
// recently, not the first one.
func TestTaskGroupFirstReturnsLastErrorWhenAllFail(t *testing.T) {
	pool := newTestPool(t, 4)
	firstErr := errors.New("first failure")
	lastErr := errors.New("last failure")

	g := NewTaskGroup[int]()
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		return 0, firstErr
	})))
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 0, lastErr
	})))

	_, err := g.First().Get()
	assert.ErrorIs(t, err, lastErr)
	assert.NotErrorIs(t, err, firstErr)
}

func TestTaskGroupFirstDoesNotWaitForSlowerTasks(t *testing.T) {
	pool := newTestPool(t, 4)

	g := NewTaskGroup[int]()
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		return 1, nil
	})))
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) {
		time.Sleep(100 * time.Millisecond)
		return 2, nil
	})))

	start := time.Now()
	v, err := g.First().Get()
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Less(t, elapsed, 80*time.Millisecond)
}

func TestTaskGroupFirstEmptyGroupErrors(t *testing.T) {
	g := NewTaskGroup[int]()
	_, err := g.First().Get()
	assert.ErrorIs(t, err, ErrEmptyGroup)
}

func TestTaskGroupSealedTwiceIsStateReuse(t *testing.T) {
	g := NewTaskGroup[int]()
	_ = g.All()

	_, err := g.All().Get()
	assert.ErrorIs(t, err, ErrStateReuse)

	_, err = g.First().Get()
	assert.ErrorIs(t, err, ErrStateReuse)
}

// TestTaskGroupJoinFailureReleasesPendingCredit pins the attach/detach
// symmetry: a Join that fails because the joined AsyncResult's Future
// was already consumed must release the pending credit it took, or an
// otherwise-complete group would never fire.
func TestTaskGroupJoinFailureReleasesPendingCredit(t *testing.T) {
	pool := newTestPool(t, 2)

	g := NewTaskGroup[int]()
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) { return 1, nil })))

	already := CallAsync(pool, func() (int, error) { return 2, nil })
	_, err := already.Get()
	require.NoError(t, err)

	err = g.Join(already)
	assert.ErrorIs(t, err, ErrStateReuse)

	values, err := g.All().Get()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, values)
}

func TestTaskGroupJoinNilAsyncResultErrors(t *testing.T) {
	g := NewTaskGroup[int]()
	err := g.Join(AsyncResult[int]{})
	assert.ErrorIs(t, err, ErrNilJoin)
}

func TestTaskGroupJoinBeforeSealIsIncludedInOutcome(t *testing.T) {
	pool := newTestPool(t, 2)

	g := NewTaskGroup[int]()
	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) { return 1, nil })))
	all := g.All()

	values, err := all.Get()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, values)
}

// TestTaskGroupLateJoinAfterOutcomeFiredDoesNotPanic documents that a
// Join arriving after the group has already sealed and fired (an empty
// group sealed with no pending work) is accepted without error and
// simply has no effect on the outcome that was already delivered.
func TestTaskGroupLateJoinAfterOutcomeFiredDoesNotPanic(t *testing.T) {
	pool := newTestPool(t, 2)

	g := NewTaskGroup[int]()
	all := g.All()
	values, err := all.Get()
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, g.Join(CallAsync(pool, func() (int, error) { return 1, nil })))
}
