package view

import (
	"strings"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// All is accepted by every enum criterion and means "no constraint"
const All = "all"

// TaskCriteria filters the BU task list
type TaskCriteria struct {
	Search  string       `json:"search" validate:"max=200"`
	Status  string       `json:"status" validate:"omitempty,task_status"`
	MaxSLA  *int         `json:"max_sla" validate:"omitempty,min=-365,max=365"`
	DueDate *entity.Date `json:"due_date"`
}

// BUCriteria filters the business unit list
type BUCriteria struct {
	Search string `json:"search" validate:"max=200"`
	Status string `json:"status" validate:"omitempty,bu_status"`
}

// ConsolidatedCriteria filters consolidated reports
type ConsolidatedCriteria struct {
	Search string `json:"search" validate:"max=200"`
	Type   string `json:"type" validate:"omitempty,period_type"`
	Status string `json:"status" validate:"omitempty,consolidation_status"`
	Year   *int   `json:"year" validate:"omitempty,min=2000,max=2100"`
}

// ReportCriteria filters the reports of one BU
type ReportCriteria struct {
	Search string `json:"search" validate:"max=200"`
	Status string `json:"status" validate:"omitempty,report_status"`
	Type   string `json:"type" validate:"omitempty,report_type"`
}

// containsFold is a case-insensitive substring test; an empty needle matches
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, needle) {
			return true
		}
	}
	return false
}

func enumMatches(want, got string) bool {
	return want == "" || want == All || want == got
}

// Match reports whether the task satisfies every set criterion
func (c TaskCriteria) Match(t entity.BUTask) bool {
	if !anyContainsFold(c.Search, t.Name, t.Owner) {
		return false
	}
	if !enumMatches(c.Status, string(t.Status)) {
		return false
	}
	if c.MaxSLA != nil && t.SLA > *c.MaxSLA {
		return false
	}
	if c.DueDate != nil && !c.DueDate.IsZero() && !c.DueDate.Equal(t.DueDate) {
		return false
	}
	return true
}

// Match reports whether the BU satisfies every set criterion
func (c BUCriteria) Match(b entity.BusinessUnit) bool {
	return anyContainsFold(c.Search, b.Name, b.Code, b.Region) &&
		enumMatches(c.Status, string(b.OverallStatus))
}

// Match reports whether the consolidated report satisfies every set criterion
func (c ConsolidatedCriteria) Match(r entity.ConsolidatedReport) bool {
	if !containsFold(r.Period, c.Search) {
		return false
	}
	if !enumMatches(c.Type, string(r.Type)) || !enumMatches(c.Status, string(r.Status)) {
		return false
	}
	return c.Year == nil || *c.Year == r.Year
}

// IsEmpty reports whether no criterion is set
func (c ConsolidatedCriteria) IsEmpty() bool {
	return c.Search == "" && enumMatches(c.Type, "") && enumMatches(c.Status, "") && c.Year == nil
}

// Match reports whether the report satisfies every set criterion.
// Status is compared against the display status, so "locked" is filterable.
func (c ReportCriteria) Match(r entity.ReportView) bool {
	return anyContainsFold(c.Search, r.Name, r.Code) &&
		enumMatches(c.Status, string(r.DisplayStatus)) &&
		enumMatches(c.Type, string(r.Type))
}

// Filter returns the items accepted by match, in input order.
// The input slice is never modified.
func Filter[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}
