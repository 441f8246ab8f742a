package memory

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// BusinessUnitRepository implements port.BusinessUnitRepository
type BusinessUnitRepository struct {
	store *Store
}

// List returns all business units in catalog order
func (r *BusinessUnitRepository) List(ctx context.Context) ([]entity.BusinessUnit, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]entity.BusinessUnit(nil), r.store.businessUnits...), nil
}

// GetByID returns one business unit
func (r *BusinessUnitRepository) GetByID(ctx context.Context, id string) (*entity.BusinessUnit, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, bu := range r.store.businessUnits {
		if bu.ID == id {
			found := bu
			return &found, nil
		}
	}
	return nil, entity.NotFoundError{Kind: "business unit", ID: id}
}

// ReportRepository implements port.ReportRepository
type ReportRepository struct {
	store *Store
}

// reportsLocked returns the cached reports of a BU, seeding them on first
// access. The caller must hold the write lock.
func (r *ReportRepository) reportsLocked(buID string) []entity.Report {
	reports, ok := r.store.reports[buID]
	if !ok {
		reports = r.store.seedReports(buID)
		r.store.reports[buID] = reports
		r.store.logger.Debug("Seeded reports for business unit",
			zap.String("bu_id", buID),
			zap.Int("count", len(reports)))
	}
	return reports
}

// ListByBU returns the session reports of a BU
func (r *ReportRepository) ListByBU(ctx context.Context, buID string) ([]entity.Report, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return cloneReports(r.reportsLocked(buID)), nil
}

// GetByID returns one report of a BU
func (r *ReportRepository) GetByID(ctx context.Context, buID, reportID string) (*entity.Report, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rep := range r.reportsLocked(buID) {
		if rep.ID == reportID {
			found := rep.Clone()
			return &found, nil
		}
	}
	return nil, entity.NotFoundError{Kind: "report", ID: reportID}
}

// Replace stores a new version of a report
func (r *ReportRepository) Replace(ctx context.Context, report entity.Report) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current := r.reportsLocked(report.BUID)
	for i, rep := range current {
		if rep.ID != report.ID {
			continue
		}
		next := make([]entity.Report, len(current))
		copy(next, current)
		next[i] = report.Clone()
		r.store.reports[report.BUID] = next

		r.store.logger.Info("Report replaced",
			zap.String("bu_id", report.BUID),
			zap.String("report_id", report.ID),
			zap.String("status", string(report.Status)))
		return nil
	}
	return entity.NotFoundError{Kind: "report", ID: report.ID}
}

// TaskRepository implements port.TaskRepository
type TaskRepository struct {
	store *Store
}

// List returns all tasks in catalog order
func (r *TaskRepository) List(ctx context.Context) ([]entity.BUTask, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]entity.BUTask(nil), r.store.tasks...), nil
}

// GetByIndex returns one task
func (r *TaskRepository) GetByIndex(ctx context.Context, index int) (*entity.BUTask, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if index < 0 || index >= len(r.store.tasks) {
		return nil, entity.NotFoundError{Kind: "task", ID: strconv.Itoa(index)}
	}
	found := r.store.tasks[index]
	return &found, nil
}

// Replace stores a new version of the task at task.Index
func (r *TaskRepository) Replace(ctx context.Context, task entity.BUTask) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if task.Index < 0 || task.Index >= len(r.store.tasks) {
		return entity.NotFoundError{Kind: "task", ID: strconv.Itoa(task.Index)}
	}
	next := make([]entity.BUTask, len(r.store.tasks))
	copy(next, r.store.tasks)
	next[task.Index] = task
	r.store.tasks = next

	r.store.logger.Info("Task replaced",
		zap.Int("index", task.Index),
		zap.String("status", string(task.Status)))
	return nil
}

// ConsolidatedRepository implements port.ConsolidatedRepository
type ConsolidatedRepository struct {
	store *Store
}

// List returns all consolidated reports in catalog order
func (r *ConsolidatedRepository) List(ctx context.Context) ([]entity.ConsolidatedReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return cloneConsolidated(r.store.consolidated), nil
}

// GetByID returns one consolidated report
func (r *ConsolidatedRepository) GetByID(ctx context.Context, id string) (*entity.ConsolidatedReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.consolidated {
		if c.ID == id {
			found := cloneConsolidated([]entity.ConsolidatedReport{c})[0]
			return &found, nil
		}
	}
	return nil, entity.NotFoundError{Kind: "consolidated report", ID: id}
}

// Verify interface compliance
var (
	_ port.BusinessUnitRepository = (*BusinessUnitRepository)(nil)
	_ port.ReportRepository       = (*ReportRepository)(nil)
	_ port.TaskRepository         = (*TaskRepository)(nil)
	_ port.ConsolidatedRepository = (*ConsolidatedRepository)(nil)
)
