package view

import (
	"math"
	"time"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

const day = 24 * time.Hour

// SLA returns the number of whole days from now until due, rounded up.
// The time of day of now is discarded first, so the result only depends on
// the calendar date. Past due dates give negative values; they are not clamped.
func SLA(due entity.Date, now time.Time) int {
	today := entity.DateOf(now)
	diff := due.Time().Sub(today.Time())
	return int(math.Ceil(float64(diff) / float64(day)))
}

// IsOverdue reports whether a task with the given SLA is past or at its due date
func IsOverdue(sla int) bool {
	return sla <= 0
}

// IsUrgent reports whether a task with the given SLA counts as urgent
func IsUrgent(sla int) bool {
	return sla <= 1
}

// WithSLA returns copies of tasks with SLA recomputed against now.
// Tasks without a due date keep their catalog value.
func WithSLA(tasks []entity.BUTask, now time.Time) []entity.BUTask {
	out := make([]entity.BUTask, len(tasks))
	for i, t := range tasks {
		if !t.DueDate.IsZero() {
			t.SLA = SLA(t.DueDate, now)
		}
		out[i] = t
	}
	return out
}
