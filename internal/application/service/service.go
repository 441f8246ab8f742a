package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/garyjia/closing-dashboard/internal/application/dispatcher"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	"github.com/garyjia/closing-dashboard/internal/domain/event"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DefaultActiveYear is the reporting year still open for review
const DefaultActiveYear = 2025

// Period decides which reporting years are historical
type Period struct {
	ActiveYear int
}

// Locked reports whether year is historical. Reports of a locked year are
// shown as locked and accept no decision.
func (p Period) Locked(year int) bool {
	return year < p.Active()
}

// Active returns the open reporting year
func (p Period) Active() int {
	if p.ActiveYear == 0 {
		return DefaultActiveYear
	}
	return p.ActiveYear
}

// Label returns the reporting period label of year, e.g. "Q4 2025"
func (p Period) Label(year int) string {
	return "Q4 " + strconv.Itoa(year)
}

// Deadline returns the overall submission deadline of year
func (p Period) Deadline(year int) entity.Date {
	return entity.NewDate(year, time.January, 20)
}

// publishEvent delivers evt to subscribers. The state change is already
// stored when this runs, so subscriber failures are logged and not returned.
func publishEvent(ctx context.Context, d dispatcher.Dispatcher, logger Logger, evt *event.Event) {
	if d == nil {
		return
	}
	if err := d.Dispatch(ctx, evt); err != nil && !errors.Is(err, dispatcher.ErrClosed) {
		logger.Error("Event subscribers failed", "event_type", evt.Type, "target_id", evt.TargetID, "error", err)
	}
}
