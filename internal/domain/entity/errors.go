package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a BU, report, task or period does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrPeriodLocked is returned when acting on a report of a historical period
	ErrPeriodLocked = errors.New("period is locked")

	// ErrNotDownloadable is returned when exporting a period still running in EPM
	ErrNotDownloadable = errors.New("period has no downloadable export yet")
)

// ValidationError describes input that must be corrected by the caller
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Is allows errors.Is(err, ErrValidation)
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError names the missing entity
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Is allows errors.Is(err, ErrNotFound)
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
