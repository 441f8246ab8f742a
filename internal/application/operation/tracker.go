package operation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// Effect applies the operation once its delay has elapsed.
// An error leaves the operation failed; the effect itself must leave state
// unchanged in that case.
type Effect func(ctx context.Context) (Outcome, error)

type tracked struct {
	op   Operation
	done chan struct{}
}

// Tracker runs two-phase operations: submit returns a pending operation
// immediately, and the effect runs after a fixed delay. At most one operation
// per target is in flight. Started operations always complete.
type Tracker struct {
	clock  port.Clock
	logger *zap.Logger

	mu       sync.RWMutex
	ops      map[string]*tracked
	inflight map[string]string // target -> operation id
	wg       sync.WaitGroup
}

// NewTracker creates a new operation tracker
func NewTracker(clock port.Clock, logger *zap.Logger) *Tracker {
	return &Tracker{
		clock:    clock,
		logger:   logger,
		ops:      make(map[string]*tracked),
		inflight: make(map[string]string),
	}
}

// Submit registers a pending operation and schedules effect after delay
func (t *Tracker) Submit(kind, target string, delay time.Duration, effect Effect) (Operation, error) {
	t.mu.Lock()
	if id, busy := t.inflight[target]; busy {
		t.mu.Unlock()
		return Operation{}, fmt.Errorf("%w: %s (operation %s)", ErrOperationPending, target, id)
	}

	tr := &tracked{
		op: Operation{
			ID:          uuid.NewString(),
			Kind:        kind,
			Target:      target,
			Status:      StatusPending,
			SubmittedAt: t.clock.Now(),
		},
		done: make(chan struct{}),
	}
	t.ops[tr.op.ID] = tr
	t.inflight[target] = tr.op.ID
	snapshot := tr.op
	t.wg.Add(1)
	t.mu.Unlock()

	t.logger.Info("Operation submitted",
		zap.String("operation_id", snapshot.ID),
		zap.String("kind", kind),
		zap.String("target", target),
		zap.Duration("delay", delay))

	go t.run(tr, delay, effect)

	return snapshot, nil
}

func (t *Tracker) run(tr *tracked, delay time.Duration, effect Effect) {
	defer t.wg.Done()

	if delay > 0 {
		timer := time.NewTimer(delay)
		<-timer.C
	}

	outcome, err := t.safeApply(effect)

	t.mu.Lock()
	now := t.clock.Now()
	tr.op.CompletedAt = &now
	if err != nil {
		tr.op.Status = StatusFailed
		tr.op.Error = err.Error()
		tr.op.Message = outcome.Message
	} else {
		tr.op.Status = StatusResolved
		tr.op.Result = outcome.Result
		tr.op.Message = outcome.Message
	}
	delete(t.inflight, tr.op.Target)
	op := tr.op
	close(tr.done)
	t.mu.Unlock()

	if err != nil {
		t.logger.Warn("Operation failed",
			zap.String("operation_id", op.ID),
			zap.String("kind", op.Kind),
			zap.String("target", op.Target),
			zap.Error(err))
		return
	}
	t.logger.Info("Operation resolved",
		zap.String("operation_id", op.ID),
		zap.String("kind", op.Kind),
		zap.String("target", op.Target))
}

// safeApply runs the effect detached from any request context
func (t *Tracker) safeApply(effect Effect) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panic: %v", r)
		}
	}()
	return effect(context.Background())
}

// Get returns the current snapshot of an operation
func (t *Tracker) Get(id string) (Operation, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tr, ok := t.ops[id]
	if !ok {
		return Operation{}, entity.NotFoundError{Kind: "operation", ID: id}
	}
	return tr.op, nil
}

// Wait blocks until the operation completes or ctx ends.
// Ending ctx does not cancel the operation.
func (t *Tracker) Wait(ctx context.Context, id string) (Operation, error) {
	t.mu.RLock()
	tr, ok := t.ops[id]
	t.mu.RUnlock()
	if !ok {
		return Operation{}, entity.NotFoundError{Kind: "operation", ID: id}
	}

	select {
	case <-tr.done:
		return t.Get(id)
	case <-ctx.Done():
		return Operation{}, ctx.Err()
	}
}

// Pending reports whether target has an operation in flight
func (t *Tracker) Pending(target string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, busy := t.inflight[target]
	return busy
}

// Prune forgets completed operations that finished before cutoff and
// returns how many were removed
func (t *Tracker) Prune(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, tr := range t.ops {
		if tr.op.Status.IsDone() && tr.op.CompletedAt != nil && tr.op.CompletedAt.Before(cutoff) {
			delete(t.ops, id)
			removed++
		}
	}
	return removed
}

// Drain waits for every started operation to complete
func (t *Tracker) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to drain operations: %w", ctx.Err())
	}
}
