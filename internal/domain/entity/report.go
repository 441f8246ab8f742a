package entity

import "time"

// ValidationSummary counts the automated checks run on a submitted report
type ValidationSummary struct {
	Passed   int `json:"passed" yaml:"passed"`
	Failed   int `json:"failed" yaml:"failed"`
	Warnings int `json:"warnings" yaml:"warnings"`
}

// ReportMetadata describes the submitted file
type ReportMetadata struct {
	Format       string `json:"format" yaml:"format"`
	SourceSystem string `json:"source_system" yaml:"source_system"`
	Version      string `json:"version" yaml:"version"`
}

// Report is a single BU submission reviewed by head office
type Report struct {
	ID                string            `json:"id"`
	BUID              string            `json:"bu_id"`
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	Type              ReportType        `json:"type"`
	Status            ReportStatus      `json:"status"`
	BUSubmissionDate  *Date             `json:"bu_submission_date"`
	Deadline          Date              `json:"deadline"`
	HOReviewer        *string           `json:"ho_reviewer"`
	HOFirstViewDate   *Date             `json:"ho_first_view_date"`
	DecisionDate      *time.Time        `json:"decision_date"`
	RejectReason      *string           `json:"reject_reason"`
	ValidationSummary ValidationSummary `json:"validation_summary"`
	Metadata          ReportMetadata    `json:"metadata"`
}

// IsDecided reports whether head office already approved or rejected the report
func (r Report) IsDecided() bool {
	return r.Status == ReportStatusApproved || r.Status == ReportStatusRejected
}

// Clone returns a deep copy so callers never share pointers with the store
func (r Report) Clone() Report {
	c := r
	if r.BUSubmissionDate != nil {
		v := *r.BUSubmissionDate
		c.BUSubmissionDate = &v
	}
	if r.HOReviewer != nil {
		v := *r.HOReviewer
		c.HOReviewer = &v
	}
	if r.HOFirstViewDate != nil {
		v := *r.HOFirstViewDate
		c.HOFirstViewDate = &v
	}
	if r.DecisionDate != nil {
		v := *r.DecisionDate
		c.DecisionDate = &v
	}
	if r.RejectReason != nil {
		v := *r.RejectReason
		c.RejectReason = &v
	}
	return c
}

// ReportView combines the lifecycle status with the period lock.
// The lock supersedes the lifecycle status for display and disables actions.
type ReportView struct {
	Report
	PeriodLocked  bool         `json:"period_locked"`
	DisplayStatus ReportStatus `json:"display_status"`
}

// NewReportView builds the display view of a report
func NewReportView(r Report, periodLocked bool) ReportView {
	display := r.Status
	if periodLocked {
		display = ReportStatusLocked
	}
	return ReportView{Report: r, PeriodLocked: periodLocked, DisplayStatus: display}
}

// Actionable reports whether head office may still approve or reject
func (v ReportView) Actionable() bool {
	return !v.PeriodLocked && !v.IsDecided()
}

// BUDetails is the per-BU review page for a reporting year
type BUDetails struct {
	BU              BusinessUnit         `json:"bu"`
	Year            int                  `json:"year"`
	ReportingPeriod string               `json:"reporting_period"`
	OverallDeadline Date                 `json:"overall_deadline"`
	Reports         []ReportView         `json:"reports"`
	Summary         map[ReportStatus]int `json:"summary"`
}
