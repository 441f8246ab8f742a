package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := ParseDate("2026-01-12")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2026, time.January, 12), d)
	assert.Equal(t, "2026-01-12", d.String())
	assert.Equal(t, 2026, d.Year())

	_, err = ParseDate("12/01/2026")
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseDate("soon") })
	assert.Equal(t, "", Date{}.String())
}

func TestDateOf_UsesOwnLocation(t *testing.T) {
	hcm := time.FixedZone("ICT", 7*3600)
	late := time.Date(2026, time.January, 13, 23, 30, 0, 0, hcm)
	assert.Equal(t, NewDate(2026, time.January, 13), DateOf(late))
	assert.True(t, DateOf(late).Before(NewDate(2026, time.January, 14)))
}

func TestDate_JSON(t *testing.T) {
	type holder struct {
		Due  Date  `json:"due"`
		Seen *Date `json:"seen"`
	}

	out, err := json.Marshal(holder{Due: NewDate(2025, time.December, 31)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-12-31","seen":null}`, string(out))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-01-20","seen":"2026-01-05"}`), &h))
	assert.True(t, h.Due.Equal(NewDate(2026, time.January, 20)))
	require.NotNil(t, h.Seen)
	assert.Equal(t, "2026-01-05", h.Seen.String())

	require.NoError(t, json.Unmarshal([]byte(`{"due":null}`), &h))
	assert.True(t, h.Due.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"2026-13-01"}`), &h))
}

func TestDate_YAML(t *testing.T) {
	var v struct {
		Closing Date `yaml:"closing"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("closing: 2024-12-31\n"), &v))
	assert.Equal(t, "2024-12-31", v.Closing.String())
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "In Progress (on EPM)", ConsolidationInProgressEPM.Label())
	assert.Equal(t, "Completed", ConsolidationCompleted.Label())
	assert.Equal(t, "Not Sent", ReportStatusNotSent.Label())
	assert.Equal(t, "Locked", BUStatusLocked.Label())
	assert.Equal(t, "In Progress", TaskStatusInProgress.Label())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, ReportStatusLocked.IsValid())
	assert.False(t, ReportStatus("archived").IsValid())
	assert.True(t, BUStatusLate.IsValid())
	assert.False(t, TaskStatus("open").IsValid(), "task statuses are case sensitive")
	assert.True(t, ReportTypeInventory.IsValid())
	assert.False(t, PeriodType("Weekly").IsValid())
	assert.Len(t, LifecycleStatuses, 5)
	assert.NotContains(t, LifecycleStatuses, ReportStatusLocked)
}

func TestNewReportView(t *testing.T) {
	r := Report{ID: "bu-1-AP-001", Status: ReportStatusInReview}

	open := NewReportView(r, false)
	assert.Equal(t, ReportStatusInReview, open.DisplayStatus)
	assert.True(t, open.Actionable())

	locked := NewReportView(r, true)
	assert.Equal(t, ReportStatusLocked, locked.DisplayStatus)
	assert.Equal(t, ReportStatusInReview, locked.Status, "lifecycle status is kept")
	assert.False(t, locked.Actionable())

	r.Status = ReportStatusApproved
	assert.False(t, NewReportView(r, false).Actionable())
}

func TestReport_Clone(t *testing.T) {
	reviewer := "Tran B"
	reason := "missing annex"
	r := Report{HOReviewer: &reviewer, RejectReason: &reason}

	c := r.Clone()
	*c.HOReviewer = "Le C"
	*c.RejectReason = ""

	assert.Equal(t, "Tran B", *r.HOReviewer)
	assert.Equal(t, "missing annex", *r.RejectReason)
	assert.Nil(t, c.DecisionDate)
}

func TestBusinessUnit_AsLocked(t *testing.T) {
	bu := BusinessUnit{ID: "bu-3", TotalReports: 9, SubmittedReports: 4, ApprovedReports: 2,
		CompletionPercentage: 22, OverallStatus: BUStatusLate}

	locked := bu.AsLocked()
	assert.Equal(t, 9, locked.ApprovedReports)
	assert.Equal(t, 100, locked.CompletionPercentage)
	assert.Equal(t, BUStatusLocked, locked.OverallStatus)
	assert.Equal(t, BUStatusLate, bu.OverallStatus)
}

func TestConsolidatedReport_Downloadable(t *testing.T) {
	for status, want := range map[ConsolidationStatus]bool{
		ConsolidationInProgressEPM: false,
		ConsolidationCompleted:     true,
		ConsolidationClosed:        true,
	} {
		assert.Equal(t, want, ConsolidatedReport{Status: status}.Downloadable(), status)
	}
}

func TestBUTask_Actionable(t *testing.T) {
	assert.True(t, BUTask{Status: TaskStatusOpen}.Actionable())
	assert.True(t, BUTask{Status: TaskStatusReject}.Actionable())
	assert.False(t, BUTask{Status: TaskStatusSent}.Actionable())
	assert.False(t, BUTask{Status: TaskStatusInProgress}.Actionable())
}

func TestErrors(t *testing.T) {
	var err error = fmt.Errorf("approve: %w", NotFoundError{Kind: "report", ID: "bu-9-TB-001"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, "approve: report bu-9-TB-001 not found")

	err = fmt.Errorf("reject: %w", ValidationError{Field: "reason", Message: "required"})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "reason", ve.Field)
}

func TestOverviewKey(t *testing.T) {
	assert.Equal(t, DefaultOverviewKey, OverviewKey(ScopeGroup, GranularityMonth, "January", ""))
	assert.Equal(t, "BU_Quarter_Q4_bu-2", OverviewKey(ScopeBU, GranularityQuarter, "Q4", "bu-2"))
}

func TestLiquidity_WithinCovenant(t *testing.T) {
	l := Liquidity{NetDebtEBITDA: decimal.RequireFromString("2.5"), Threshold: decimal.NewFromInt(3)}
	assert.True(t, l.WithinCovenant())

	l.NetDebtEBITDA = decimal.RequireFromString("3.01")
	assert.False(t, l.WithinCovenant())
}
