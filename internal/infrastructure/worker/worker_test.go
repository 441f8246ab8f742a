package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type recordingPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	result  int
}

func (p *recordingPruner) Prune(cutoff time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.result
}

func (p *recordingPruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

type stubWorker struct {
	name    string
	stopErr error
	order   *[]string
}

func (w *stubWorker) Start(ctx context.Context) error { return nil }
func (w *stubWorker) Name() string                    { return w.name }
func (w *stubWorker) Stop() error {
	*w.order = append(*w.order, w.name)
	return w.stopErr
}

func TestOperationSweeper_SweepUsesRetention(t *testing.T) {
	now := time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)
	pruner := &recordingPruner{result: 3}
	sweeper := NewOperationSweeper(SweeperConfig{Interval: time.Hour, Retention: 10 * time.Minute},
		pruner, fakeClock{now: now}, zap.NewNop())

	assert.Equal(t, 3, sweeper.Sweep())
	assert.Equal(t, 3, sweeper.Removed())
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, now.Add(-10*time.Minute), pruner.cutoffs[0])
}

func TestOperationSweeper_Loop(t *testing.T) {
	pruner := &recordingPruner{}
	sweeper := NewOperationSweeper(SweeperConfig{Interval: 5 * time.Millisecond, Retention: time.Minute},
		pruner, fakeClock{now: time.Now()}, zap.NewNop())

	require.NoError(t, sweeper.Start(context.Background()))
	assert.Error(t, sweeper.Start(context.Background()))

	assert.Eventually(t, func() bool { return pruner.calls() >= 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, sweeper.Stop())
	require.NoError(t, sweeper.Stop())
}

func TestNewOperationSweeper_Defaults(t *testing.T) {
	sweeper := NewOperationSweeper(SweeperConfig{}, &recordingPruner{}, fakeClock{}, zap.NewNop())
	assert.Equal(t, DefaultSweeperConfig(), sweeper.config)
}

func TestManager_Lifecycle(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	m := NewManager(zap.NewNop())
	m.Register(&stubWorker{name: "first", order: &order})
	m.Register(&stubWorker{name: "second", stopErr: boom, order: &order})
	assert.Equal(t, 2, m.Count())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.Error(t, m.StartAll(context.Background()))

	err := m.StopAll()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"second", "first"}, order)
	assert.False(t, m.IsRunning())

	assert.NoError(t, m.StopAll())
}
