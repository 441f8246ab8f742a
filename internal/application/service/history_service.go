package service

import (
	"context"
	"fmt"

	"github.com/garyjia/closing-dashboard/internal/application/dispatcher"
	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	"github.com/garyjia/closing-dashboard/internal/domain/event"
)

// HistoryService reads and records the decision audit trail
type HistoryService interface {
	ForTarget(ctx context.Context, kind entity.TargetKind, targetID string) ([]*entity.DecisionRecord, error)
	Recent(ctx context.Context, limit int) ([]*entity.DecisionRecord, error)
	// Record is a dispatcher handler that stores decision events
	Record(ctx context.Context, evt *event.Event) error
}

type historyServiceImpl struct {
	repo      port.DecisionRepository
	txManager port.TransactionManager
	logger    Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(repo port.DecisionRepository, txManager port.TransactionManager, logger Logger) HistoryService {
	return &historyServiceImpl{repo: repo, txManager: txManager, logger: logger}
}

func (s *historyServiceImpl) ForTarget(ctx context.Context, kind entity.TargetKind, targetID string) ([]*entity.DecisionRecord, error) {
	switch kind {
	case entity.TargetReport, entity.TargetTask:
	default:
		return nil, entity.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown target kind %q", kind)}
	}
	return s.repo.ListByTarget(ctx, kind, targetID)
}

func (s *historyServiceImpl) Recent(ctx context.Context, limit int) ([]*entity.DecisionRecord, error) {
	if limit < 0 || limit > 500 {
		return nil, entity.ValidationError{Field: "limit", Message: "limit must be between 0 and 500"}
	}
	return s.repo.ListRecent(ctx, limit)
}

// Record ignores events that carry no status change
func (s *historyServiceImpl) Record(ctx context.Context, evt *event.Event) error {
	if !evt.Type.IsDecision() {
		return nil
	}

	record := &entity.DecisionRecord{
		TargetID:       evt.TargetID,
		BUID:           evt.GetPayloadString(event.KeyBUID),
		PreviousStatus: evt.GetPayloadString(event.KeyPreviousStatus),
		NewStatus:      evt.GetPayloadString(event.KeyNewStatus),
		Reason:         evt.GetPayloadString(event.KeyReason),
		Actor:          evt.GetPayloadString(event.KeyActor),
		Timestamp:      evt.Timestamp,
	}
	switch evt.Type {
	case event.TypeReportApproved:
		record.TargetKind, record.Action = entity.TargetReport, entity.ActionApprove
	case event.TypeReportRejected:
		record.TargetKind, record.Action = entity.TargetReport, entity.ActionReject
	case event.TypeTaskConfirmed:
		record.TargetKind, record.Action = entity.TargetTask, entity.ActionConfirm
	}

	return s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, record); err != nil {
			s.logger.Error("Failed to record decision", "event_id", evt.ID, "error", err)
			return fmt.Errorf("failed to record decision: %w", err)
		}
		return nil
	})
}

// RegisterSubscribers wires the history recorder and the notification log
// into the dispatcher
func RegisterSubscribers(d dispatcher.Dispatcher, history HistoryService, logger Logger) {
	for _, t := range []event.Type{event.TypeReportApproved, event.TypeReportRejected, event.TypeTaskConfirmed} {
		d.Subscribe(t, "decision-history", history.Record)
	}
	d.SubscribeAll("notification-log", func(ctx context.Context, evt *event.Event) error {
		logger.Info("Notification",
			"event_type", evt.Type,
			"target_id", evt.TargetID,
			"message", notificationText(evt))
		return nil
	})
}

// notificationText renders the transient notification of an event
func notificationText(evt *event.Event) string {
	switch evt.Type {
	case event.TypeReportApproved:
		return fmt.Sprintf("Report %s approved", evt.TargetID)
	case event.TypeReportRejected:
		return fmt.Sprintf("Report %s rejected: %s", evt.TargetID, evt.GetPayloadString(event.KeyReason))
	case event.TypeTaskConfirmed:
		return fmt.Sprintf("Task %s sent", evt.TargetID)
	case event.TypeTaskConfirmFailed:
		return FailureMessage(evt.GetPayloadString(event.KeyMessage))
	case event.TypeChatAnswered:
		if evt.GetPayloadBool(event.KeyMatched) {
			return "Answer found"
		}
		return "No prepared answer"
	}
	return string(evt.Type)
}
