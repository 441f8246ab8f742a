package dispatcher

import (
	"context"

	"github.com/garyjia/closing-dashboard/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered handler
type HandlerInfo struct {
	Name      string
	EventType event.Type // empty for handlers subscribed to every type
}

type registration struct {
	HandlerInfo
	handler Handler
}
