package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/persistence/sqlite"
)

// DecisionRepository implements port.DecisionRepository
type DecisionRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *sqlite.DB, logger *zap.Logger) port.DecisionRepository {
	return &DecisionRepository{
		db:     db,
		logger: logger,
	}
}

const decisionColumns = `id, target_kind, target_id, bu_id, previous_status, new_status,
			action, reason, actor, timestamp`

// Create appends a record to the audit trail
func (r *DecisionRepository) Create(ctx context.Context, record *entity.DecisionRecord) error {
	query := `
		INSERT INTO decision_records (
			target_kind, target_id, bu_id, previous_status, new_status,
			action, reason, actor, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		string(record.TargetKind),
		record.TargetID,
		record.BUID,
		record.PreviousStatus,
		record.NewStatus,
		record.Action,
		record.Reason,
		record.Actor,
		record.Timestamp.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create decision record",
			zap.String("target_id", record.TargetID),
			zap.Error(err))
		return fmt.Errorf("failed to create decision record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return nil
}

// ListByTarget returns the trail of one report or task, oldest first
func (r *DecisionRepository) ListByTarget(ctx context.Context, kind entity.TargetKind, targetID string) ([]*entity.DecisionRecord, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM decision_records
		WHERE target_kind = ? AND target_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	records, err := r.query(ctx, query, string(kind), targetID)
	if err != nil {
		r.logger.Error("Failed to get decision records by target",
			zap.String("target_kind", string(kind)),
			zap.String("target_id", targetID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get decision records: %w", err)
	}
	return records, nil
}

// ListRecent returns the latest records across all targets, newest first
func (r *DecisionRepository) ListRecent(ctx context.Context, limit int) ([]*entity.DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + decisionColumns + `
		FROM decision_records
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	records, err := r.query(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to get recent decision records", zap.Error(err))
		return nil, fmt.Errorf("failed to get recent decision records: %w", err)
	}
	return records, nil
}

func (r *DecisionRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.DecisionRecord, error) {
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*entity.DecisionRecord, 0)
	for rows.Next() {
		var record entity.DecisionRecord
		var kind string
		err := rows.Scan(
			&record.ID,
			&kind,
			&record.TargetID,
			&record.BUID,
			&record.PreviousStatus,
			&record.NewStatus,
			&record.Action,
			&record.Reason,
			&record.Actor,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision record: %w", err)
		}
		record.TargetKind = entity.TargetKind(kind)
		records = append(records, &record)
	}

	return records, rows.Err()
}

// Verify interface compliance
var _ port.DecisionRepository = (*DecisionRepository)(nil)
