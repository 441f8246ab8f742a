package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/closing-dashboard/internal/domain/event"
)

// ErrClosed is returned by Dispatch after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher routes domain events to in-process handlers
type Dispatcher interface {
	// Subscribe registers a named handler for one event type
	Subscribe(eventType event.Type, name string, handler Handler)

	// SubscribeAll registers a named handler that receives every event
	SubscribeAll(name string, handler Handler)

	// Dispatch runs every matching handler synchronously, in registration order.
	// A failing handler does not stop the others; all failures are joined.
	Dispatch(ctx context.Context, evt *event.Event) error

	// Handlers lists the handlers that would receive eventType
	Handlers(eventType event.Type) []HandlerInfo

	// Close rejects further dispatches
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu       sync.RWMutex
	byType   map[event.Type][]registration
	wildcard []registration
	logger   Logger
	closed   atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		byType: make(map[event.Type][]registration),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.byType[eventType] = append(d.byType[eventType], registration{
		HandlerInfo: HandlerInfo{Name: name, EventType: eventType},
		handler:     handler,
	})
	d.logInfo("Handler registered", "event_type", eventType, "handler_name", name)
}

func (d *eventDispatcher) SubscribeAll(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.wildcard = append(d.wildcard, registration{
		HandlerInfo: HandlerInfo{Name: name},
		handler:     handler,
	})
	d.logInfo("Handler registered", "event_type", "*", "handler_name", name)
}

// matching returns a snapshot so handlers may subscribe without deadlocking
func (d *eventDispatcher) matching(eventType event.Type) []registration {
	d.mu.RLock()
	defer d.mu.RUnlock()

	regs := make([]registration, 0, len(d.byType[eventType])+len(d.wildcard))
	regs = append(regs, d.byType[eventType]...)
	regs = append(regs, d.wildcard...)
	return regs
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}

	var errs []error
	for _, reg := range d.matching(evt.Type) {
		if err := d.safeExecute(ctx, evt, reg); err != nil {
			d.logError("Handler error",
				"event_type", evt.Type,
				"event_id", evt.ID,
				"handler_name", reg.Name,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("handler %s failed: %w", reg.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (d *eventDispatcher) Handlers(eventType event.Type) []HandlerInfo {
	regs := d.matching(eventType)
	infos := make([]HandlerInfo, len(regs))
	for i, r := range regs {
		infos[i] = r.HandlerInfo
	}
	return infos
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}
	d.logInfo("Dispatcher closed")
	return nil
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, reg registration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return reg.handler(ctx, evt)
}

func (d *eventDispatcher) logInfo(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Info(msg, keysAndValues...)
	}
}

func (d *eventDispatcher) logError(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Error(msg, keysAndValues...)
	}
}
