package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

func testSeed() Seed {
	return Seed{
		BusinessUnits: []entity.BusinessUnit{
			{ID: "bu-1", Code: "AUTO", Name: "Auto", OverallStatus: entity.BUStatusInProgress},
			{ID: "bu-2", Code: "BOT", Name: "BOT", OverallStatus: entity.BUStatusCompleted},
		},
		Tasks: []entity.BUTask{
			{Index: 0, Name: "Trial Balance", Status: entity.TaskStatusOpen},
			{Index: 1, Name: "AR Aging", Status: entity.TaskStatusReject, Reason: "mismatch"},
		},
		Consolidated: []entity.ConsolidatedReport{
			{ID: "cr-25-fy", Year: 2025, Type: entity.PeriodTypeYearly, Status: entity.ConsolidationInProgressEPM},
		},
		Reports: func(buID string) []entity.Report {
			return []entity.Report{
				{ID: fmt.Sprintf("%s-TB", buID), BUID: buID, Status: entity.ReportStatusInReview},
				{ID: fmt.Sprintf("%s-AR", buID), BUID: buID, Status: entity.ReportStatusReceived},
			}
		},
	}
}

func TestBusinessUnitRepository(t *testing.T) {
	store := NewStore(testSeed(), zap.NewNop())
	repo := store.BusinessUnits()
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list[0].Name = "changed"
	again, _ := repo.List(ctx)
	assert.Equal(t, "Auto", again[0].Name, "callers must get copies")

	bu, err := repo.GetByID(ctx, "bu-2")
	require.NoError(t, err)
	assert.Equal(t, "BOT", bu.Code)

	_, err = repo.GetByID(ctx, "bu-99")
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestReportRepository_SeedsLazilyAndKeepsChanges(t *testing.T) {
	seeded := 0
	seed := testSeed()
	base := seed.Reports
	seed.Reports = func(buID string) []entity.Report {
		seeded++
		return base(buID)
	}
	store := NewStore(seed, zap.NewNop())
	repo := store.Reports()
	ctx := context.Background()

	assert.Equal(t, 0, seeded)

	reports, err := repo.ListByBU(ctx, "bu-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, 1, seeded)

	report, err := repo.GetByID(ctx, "bu-1", "bu-1-TB")
	require.NoError(t, err)

	reason := "wrong totals"
	report.Status = entity.ReportStatusRejected
	report.RejectReason = &reason
	require.NoError(t, repo.Replace(ctx, *report))

	// the pointer handed to Replace must not alias the stored copy
	reason = "mutated after replace"

	stored, err := repo.GetByID(ctx, "bu-1", "bu-1-TB")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusRejected, stored.Status)
	require.NotNil(t, stored.RejectReason)
	assert.Equal(t, "wrong totals", *stored.RejectReason)
	assert.Equal(t, 1, seeded, "cached reports are not reseeded")

	// slices returned before the change are untouched
	assert.Equal(t, entity.ReportStatusInReview, reports[0].Status)

	other, err := repo.ListByBU(ctx, "bu-2")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusInReview, other[0].Status)
	assert.Equal(t, 2, seeded)
}

func TestReportRepository_NotFound(t *testing.T) {
	repo := NewStore(testSeed(), zap.NewNop()).Reports()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "bu-1", "bu-1-XX")
	assert.True(t, errors.Is(err, entity.ErrNotFound))

	err = repo.Replace(ctx, entity.Report{ID: "bu-1-XX", BUID: "bu-1"})
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestTaskRepository(t *testing.T) {
	repo := NewStore(testSeed(), zap.NewNop()).Tasks()
	ctx := context.Background()

	before, err := repo.List(ctx)
	require.NoError(t, err)

	task, err := repo.GetByIndex(ctx, 1)
	require.NoError(t, err)
	task.Status = entity.TaskStatusSent
	require.NoError(t, repo.Replace(ctx, *task))

	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusSent, after[1].Status)
	assert.Equal(t, entity.TaskStatusReject, before[1].Status)

	_, err = repo.GetByIndex(ctx, 5)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	_, err = repo.GetByIndex(ctx, -1)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	assert.True(t, errors.Is(repo.Replace(ctx, entity.BUTask{Index: 2}), entity.ErrNotFound))
}

func TestConsolidatedRepository(t *testing.T) {
	seed := testSeed()
	approved := entity.NewDate(2025, 1, 25)
	seed.Consolidated[0].FinalApprovalDate = &approved
	repo := NewStore(seed, zap.NewNop()).Consolidated()
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	*list[0].FinalApprovalDate = entity.NewDate(2030, 1, 1)

	got, err := repo.GetByID(ctx, "cr-25-fy")
	require.NoError(t, err)
	assert.True(t, got.FinalApprovalDate.Equal(approved))

	_, err = repo.GetByID(ctx, "cr-00")
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestStore_Reset(t *testing.T) {
	store := NewStore(testSeed(), zap.NewNop())
	ctx := context.Background()

	task, _ := store.Tasks().GetByIndex(ctx, 0)
	task.Status = entity.TaskStatusSent
	require.NoError(t, store.Tasks().Replace(ctx, *task))

	store.Reset(ctx, testSeed())

	task, err := store.Tasks().GetByIndex(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusOpen, task.Status)
}
