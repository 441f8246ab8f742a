package service

import (
	"context"
	"time"

	"github.com/garyjia/closing-dashboard/internal/application/operation"
)

// Operations runs two-phase simulated operations
type Operations interface {
	Submit(kind, target string, delay time.Duration, effect operation.Effect) (operation.Operation, error)
	Get(id string) (operation.Operation, error)
	Wait(ctx context.Context, id string) (operation.Operation, error)
}

// Delays are the simulated backend latencies
type Delays struct {
	Confirm time.Duration
	Chat    time.Duration
}

// DefaultDelays returns the latencies of the mock backend
func DefaultDelays() Delays {
	return Delays{
		Confirm: time.Second,
		Chat:    800 * time.Millisecond,
	}
}
