package operation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTracker(t *testing.T) *Tracker {
	return NewTracker(&stepClock{now: time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC)}, zaptest.NewLogger(t))
}

func TestTracker_ResolvesAfterDelay(t *testing.T) {
	tr := newTracker(t)
	applied := atomic.Bool{}

	op, err := tr.Submit(KindTaskConfirm, "task-0", 20*time.Millisecond, func(ctx context.Context) (Outcome, error) {
		applied.Store(true)
		return Outcome{Result: "Sent", Message: "done"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, op.Status)
	assert.NotEmpty(t, op.ID)
	assert.False(t, applied.Load(), "effect must not run before the delay")

	got, err := tr.Wait(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, got.Status)
	assert.Equal(t, "Sent", got.Result)
	assert.Equal(t, "done", got.Message)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.After(got.SubmittedAt))
	assert.True(t, applied.Load())
}

func TestTracker_OneInFlightPerTarget(t *testing.T) {
	tr := newTracker(t)
	release := make(chan struct{})
	effect := func(ctx context.Context) (Outcome, error) {
		<-release
		return Outcome{}, nil
	}

	first, err := tr.Submit(KindTaskConfirm, "task-1", 0, effect)
	require.NoError(t, err)
	assert.True(t, tr.Pending("task-1"))

	_, err = tr.Submit(KindTaskConfirm, "task-1", 0, effect)
	assert.ErrorIs(t, err, ErrOperationPending)

	other, err := tr.Submit(KindTaskConfirm, "task-2", 0, func(ctx context.Context) (Outcome, error) {
		return Outcome{}, nil
	})
	require.NoError(t, err, "other targets are not blocked")

	close(release)
	_, err = tr.Wait(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = tr.Wait(context.Background(), other.ID)
	require.NoError(t, err)
	assert.False(t, tr.Pending("task-1"))

	_, err = tr.Submit(KindTaskConfirm, "task-1", 0, effect)
	assert.NoError(t, err, "target is released once the operation completes")
}

func TestTracker_FailureKeepsMessage(t *testing.T) {
	tr := newTracker(t)

	op, err := tr.Submit(KindTaskConfirm, "task-3", 0, func(ctx context.Context) (Outcome, error) {
		return Outcome{Message: "Error: Process failed. Please try again."}, errors.New("Process failed")
	})
	require.NoError(t, err)

	got, err := tr.Wait(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "Process failed", got.Error)
	assert.Equal(t, "Error: Process failed. Please try again.", got.Message)
	assert.Nil(t, got.Result)
}

func TestTracker_PanicBecomesFailure(t *testing.T) {
	tr := newTracker(t)
	op, err := tr.Submit(KindChatReply, "chat", 0, func(ctx context.Context) (Outcome, error) {
		panic("boom")
	})
	require.NoError(t, err)

	got, err := tr.Wait(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Error, "boom")
}

func TestTracker_EffectRunsWithLiveContext(t *testing.T) {
	tr := newTracker(t)

	op, err := tr.Submit(KindTaskConfirm, "task-4", 10*time.Millisecond, func(ctx context.Context) (Outcome, error) {
		return Outcome{}, ctx.Err()
	})
	require.NoError(t, err)

	got, err := tr.Wait(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, got.Status)
}

func TestTracker_WaitRespectsContext(t *testing.T) {
	tr := newTracker(t)
	release := make(chan struct{})
	op, err := tr.Submit(KindChatReply, "chat", 0, func(ctx context.Context) (Outcome, error) {
		<-release
		return Outcome{}, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = tr.Wait(ctx, op.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, tr.Drain(context.Background()))
	got, err := tr.Get(op.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, got.Status, "the operation completes even after the waiter gave up")
}

func TestTracker_GetUnknown(t *testing.T) {
	tr := newTracker(t)
	_, err := tr.Get("missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = tr.Wait(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestTracker_Prune(t *testing.T) {
	tr := newTracker(t)
	op, err := tr.Submit(KindChatReply, "chat", 0, func(ctx context.Context) (Outcome, error) {
		return Outcome{}, nil
	})
	require.NoError(t, err)
	_, err = tr.Wait(context.Background(), op.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, tr.Prune(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, tr.Prune(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, err = tr.Get(op.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
