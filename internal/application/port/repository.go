package port

import (
	"context"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// BusinessUnitRepository reads the business unit catalog.
// Returned values are copies; callers may modify them freely.
type BusinessUnitRepository interface {
	List(ctx context.Context) ([]entity.BusinessUnit, error)
	GetByID(ctx context.Context, id string) (*entity.BusinessUnit, error)
}

// ReportRepository holds the per-BU report lists of the session.
// A BU's reports are created from the report template on first access and
// then cached, so decisions survive navigation.
type ReportRepository interface {
	ListByBU(ctx context.Context, buID string) ([]entity.Report, error)
	GetByID(ctx context.Context, buID, reportID string) (*entity.Report, error)
	// Replace swaps the stored report with the same ID for report
	Replace(ctx context.Context, report entity.Report) error
}

// TaskRepository holds the BU task list of the session
type TaskRepository interface {
	List(ctx context.Context) ([]entity.BUTask, error)
	GetByIndex(ctx context.Context, index int) (*entity.BUTask, error)
	Replace(ctx context.Context, task entity.BUTask) error
}

// ConsolidatedRepository reads the consolidated report catalog
type ConsolidatedRepository interface {
	List(ctx context.Context) ([]entity.ConsolidatedReport, error)
	GetByID(ctx context.Context, id string) (*entity.ConsolidatedReport, error)
}

// DecisionRepository persists the audit trail of status changes
type DecisionRepository interface {
	Create(ctx context.Context, record *entity.DecisionRecord) error
	ListByTarget(ctx context.Context, kind entity.TargetKind, targetID string) ([]*entity.DecisionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.DecisionRecord, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
