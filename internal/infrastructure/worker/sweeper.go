package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/application/port"
)

// Pruner forgets completed operations finished before a cutoff
type Pruner interface {
	Prune(cutoff time.Time) int
}

// SweeperConfig holds configuration for the operation sweeper
type SweeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// DefaultSweeperConfig returns default configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:  time.Minute,
		Retention: 15 * time.Minute,
	}
}

// OperationSweeper periodically drops completed operations older than the
// retention window, so polling clients can still read recent results while
// the tracker does not grow without bound.
type OperationSweeper struct {
	config SweeperConfig
	pruner Pruner
	clock  port.Clock
	logger *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
	removed   int
}

// NewOperationSweeper creates a new sweeper
func NewOperationSweeper(config SweeperConfig, pruner Pruner, clock port.Clock, logger *zap.Logger) *OperationSweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultSweeperConfig().Interval
	}
	if config.Retention <= 0 {
		config.Retention = DefaultSweeperConfig().Retention
	}
	return &OperationSweeper{
		config: config,
		pruner: pruner,
		clock:  clock,
		logger: logger,
	}
}

// Start begins the sweep loop
func (w *OperationSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isRunning {
		return fmt.Errorf("operation sweeper already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.isRunning = true

	w.logger.Info("OperationSweeper started",
		zap.Duration("interval", w.config.Interval),
		zap.Duration("retention", w.config.Retention))

	go w.loop(runCtx, w.done)
	return nil
}

// Stop terminates the loop and waits for it to exit
func (w *OperationSweeper) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	w.logger.Info("OperationSweeper stopped", zap.Int("removed_total", w.Removed()))
	return nil
}

// Name returns the worker name for identification
func (w *OperationSweeper) Name() string {
	return "OperationSweeper"
}

// Removed returns how many operations were pruned so far
func (w *OperationSweeper) Removed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removed
}

// Sweep prunes once
func (w *OperationSweeper) Sweep() int {
	n := w.pruner.Prune(w.clock.Now().Add(-w.config.Retention))

	w.mu.Lock()
	w.removed += n
	w.mu.Unlock()

	if n > 0 {
		w.logger.Debug("Pruned completed operations", zap.Int("count", n))
	}
	return n
}

func (w *OperationSweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}
