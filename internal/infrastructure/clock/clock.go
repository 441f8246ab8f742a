package clock

import (
	"fmt"
	"time"

	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// System is the wall clock, read in Loc (time.Local when nil)
type System struct {
	Loc *time.Location
}

// Now returns the current time
func (s System) Now() time.Time {
	if s.Loc == nil {
		return time.Now()
	}
	return time.Now().In(s.Loc)
}

// Fixed always returns the same instant. Used by tests.
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant
func (f Fixed) Now() time.Time { return f.At }

// Shifted runs at wall-clock speed but starts on a pinned calendar date,
// so demo data with hard-coded dates keeps the same SLAs every day
type Shifted struct {
	offset time.Duration
	loc    *time.Location
}

// NewShifted pins today to date, keeping the current time of day
func NewShifted(date entity.Date, loc *time.Location) *Shifted {
	now := time.Now().In(loc)
	y, m, d := date.Time().Date()
	pinned := time.Date(y, m, d, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), loc)
	return &Shifted{offset: pinned.Sub(now), loc: loc}
}

// Now returns the wall-clock time moved to the pinned date, in the pinned
// location so its calendar date is the pinned one
func (s *Shifted) Now() time.Time { return time.Now().Add(s.offset).In(s.loc) }

// New returns the shifted clock when fixedDate is set, the system clock otherwise
func New(fixedDate, timezone string) (port.Clock, error) {
	loc := time.Local
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
		}
		loc = l
	}

	if fixedDate == "" {
		return System{Loc: loc}, nil
	}
	date, err := entity.ParseDate(fixedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid clock.fixed_date: %w", err)
	}
	return NewShifted(date, loc), nil
}
