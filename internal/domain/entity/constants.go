package entity

// BUStatus is the overall closing status of a business unit for a period
type BUStatus string

const (
	BUStatusNotStarted BUStatus = "not-started"
	BUStatusInProgress BUStatus = "in-progress"
	BUStatusCompleted  BUStatus = "completed"
	BUStatusLate       BUStatus = "late"
	BUStatusLocked     BUStatus = "locked"
)

// AllBUStatuses lists BU statuses in display order
var AllBUStatuses = []BUStatus{
	BUStatusNotStarted,
	BUStatusInProgress,
	BUStatusCompleted,
	BUStatusLate,
	BUStatusLocked,
}

// ReportStatus is the lifecycle status of a BU report.
// ReportStatusLocked never appears on a stored Report; it is only produced
// by ReportView when the owning period is historical.
type ReportStatus string

const (
	ReportStatusNotSent  ReportStatus = "not-sent"
	ReportStatusReceived ReportStatus = "received"
	ReportStatusInReview ReportStatus = "in-review"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
	ReportStatusLocked   ReportStatus = "locked"
)

// LifecycleStatuses are the statuses a stored report can hold
var LifecycleStatuses = []ReportStatus{
	ReportStatusNotSent,
	ReportStatusReceived,
	ReportStatusInReview,
	ReportStatusApproved,
	ReportStatusRejected,
}

// DisplayStatuses are the statuses a report can be shown with
var DisplayStatuses = []ReportStatus{
	ReportStatusNotSent,
	ReportStatusReceived,
	ReportStatusInReview,
	ReportStatusApproved,
	ReportStatusRejected,
	ReportStatusLocked,
}

// ReportType identifies the kind of financial report a BU submits
type ReportType string

const (
	ReportTypeTB        ReportType = "TB"
	ReportTypeAR        ReportType = "AR"
	ReportTypeAP        ReportType = "AP"
	ReportTypeInventory ReportType = "Inventory"
	ReportTypeFA        ReportType = "FA"
	ReportTypeIC        ReportType = "IC"
	ReportTypeBS        ReportType = "BS"
	ReportTypePL        ReportType = "PL"
	ReportTypeCF        ReportType = "CF"
)

// TaskStatus is the status of a BU-side closing task
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "Open"
	TaskStatusSent       TaskStatus = "Sent"
	TaskStatusReject     TaskStatus = "Reject"
	TaskStatusApprove    TaskStatus = "Approve"
	TaskStatusInProgress TaskStatus = "In Progress"
)

// AllTaskStatuses lists task statuses in display order
var AllTaskStatuses = []TaskStatus{
	TaskStatusOpen,
	TaskStatusSent,
	TaskStatusReject,
	TaskStatusApprove,
	TaskStatusInProgress,
}

// PeriodType is the granularity of a consolidated report
type PeriodType string

const (
	PeriodTypeYearly    PeriodType = "Yearly"
	PeriodTypeQuarterly PeriodType = "Quarterly"
	PeriodTypeMonthly   PeriodType = "Monthly"
)

// ConsolidationStatus is the status of a consolidated report
type ConsolidationStatus string

const (
	ConsolidationInProgressEPM ConsolidationStatus = "in-progress-epm"
	ConsolidationCompleted     ConsolidationStatus = "completed"
	ConsolidationClosed        ConsolidationStatus = "closed"
)

// AllConsolidationStatuses lists consolidation statuses in display order
var AllConsolidationStatuses = []ConsolidationStatus{
	ConsolidationInProgressEPM,
	ConsolidationCompleted,
	ConsolidationClosed,
}

var statusLabels = map[string]string{
	string(BUStatusNotStarted):         "Not Started",
	string(BUStatusInProgress):         "In Progress",
	string(BUStatusCompleted):          "Completed",
	string(BUStatusLate):               "Late",
	string(BUStatusLocked):             "Locked",
	string(ReportStatusNotSent):        "Not Sent",
	string(ReportStatusReceived):       "Received",
	string(ReportStatusInReview):       "In Review",
	string(ReportStatusApproved):       "Approved",
	string(ReportStatusRejected):       "Rejected",
	string(ConsolidationInProgressEPM): "In Progress (on EPM)",
	string(ConsolidationClosed):        "Closed",
}

func label(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// Label returns the display label
func (s BUStatus) Label() string { return label(string(s)) }

// Label returns the display label
func (s ReportStatus) Label() string { return label(string(s)) }

// Label returns the display label
func (s ConsolidationStatus) Label() string { return label(string(s)) }

// Label returns the display label. Task statuses are already human readable.
func (s TaskStatus) Label() string { return string(s) }

// IsValid reports whether s is a known BU status
func (s BUStatus) IsValid() bool {
	for _, v := range AllBUStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known display status (lifecycle or locked)
func (s ReportStatus) IsValid() bool {
	for _, v := range DisplayStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known task status
func (s TaskStatus) IsValid() bool {
	for _, v := range AllTaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known consolidation status
func (s ConsolidationStatus) IsValid() bool {
	for _, v := range AllConsolidationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValid reports whether t is a known report type
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeTB, ReportTypeAR, ReportTypeAP, ReportTypeInventory,
		ReportTypeFA, ReportTypeIC, ReportTypeBS, ReportTypePL, ReportTypeCF:
		return true
	}
	return false
}

// IsValid reports whether t is a known period type
func (t PeriodType) IsValid() bool {
	return t == PeriodTypeYearly || t == PeriodTypeQuarterly || t == PeriodTypeMonthly
}
