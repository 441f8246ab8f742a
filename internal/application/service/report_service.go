package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/garyjia/closing-dashboard/internal/application/dispatcher"
	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/application/workflow"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	"github.com/garyjia/closing-dashboard/internal/domain/event"
	domainwf "github.com/garyjia/closing-dashboard/internal/domain/workflow"
)

// DecisionCommand is a head-office decision on one report
type DecisionCommand struct {
	BUID     string
	ReportID string
	Year     int
	Reason   string
	Actor    string
}

// ReportService reviews the reports submitted by business units
type ReportService interface {
	GetBUDetails(ctx context.Context, buID string, year int, criteria view.ReportCriteria) (*entity.BUDetails, error)
	GetReport(ctx context.Context, buID, reportID string, year int) (*entity.ReportView, error)
	Approve(ctx context.Context, cmd DecisionCommand) (*entity.ReportView, error)
	Reject(ctx context.Context, cmd DecisionCommand) (*entity.ReportView, error)
	ValidationMessages() []entity.ValidationMessage
}

type reportServiceImpl struct {
	buRepo     port.BusinessUnitRepository
	reportRepo port.ReportRepository
	clock      port.Clock
	period     Period
	dispatcher dispatcher.Dispatcher
	messages   []entity.ValidationMessage
	logger     Logger

	// decisions are read-modify-write on the session store
	mu sync.Mutex
}

// NewReportService creates a new ReportService
func NewReportService(
	buRepo port.BusinessUnitRepository,
	reportRepo port.ReportRepository,
	clock port.Clock,
	period Period,
	d dispatcher.Dispatcher,
	messages []entity.ValidationMessage,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		buRepo:     buRepo,
		reportRepo: reportRepo,
		clock:      clock,
		period:     period,
		dispatcher: d,
		messages:   messages,
		logger:     logger,
	}
}

func (s *reportServiceImpl) resolveYear(year int) int {
	if year == 0 {
		return s.period.Active()
	}
	return year
}

// GetBUDetails returns the review page of a BU. Historical years show the
// BU fully approved and every report locked.
func (s *reportServiceImpl) GetBUDetails(ctx context.Context, buID string, year int, criteria view.ReportCriteria) (*entity.BUDetails, error) {
	if err := view.Validate(criteria); err != nil {
		return nil, err
	}
	year = s.resolveYear(year)
	locked := s.period.Locked(year)

	bu, err := s.buRepo.GetByID(ctx, buID)
	if err != nil {
		return nil, err
	}
	if locked {
		*bu = bu.AsLocked()
	}

	reports, err := s.reportRepo.ListByBU(ctx, buID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	views := make([]entity.ReportView, len(reports))
	for i, r := range reports {
		views[i] = entity.NewReportView(r, locked)
	}

	return &entity.BUDetails{
		BU:              *bu,
		Year:            year,
		ReportingPeriod: s.period.Label(year),
		OverallDeadline: s.period.Deadline(year),
		Reports:         view.Filter(views, criteria.Match),
		Summary:         view.ReportSummary(views),
	}, nil
}

// GetReport returns one report of a BU as shown for year
func (s *reportServiceImpl) GetReport(ctx context.Context, buID, reportID string, year int) (*entity.ReportView, error) {
	if _, err := s.buRepo.GetByID(ctx, buID); err != nil {
		return nil, err
	}
	report, err := s.reportRepo.GetByID(ctx, buID, reportID)
	if err != nil {
		return nil, err
	}
	v := entity.NewReportView(*report, s.period.Locked(s.resolveYear(year)))
	return &v, nil
}

// Approve marks a report approved and stamps the decision time
func (s *reportServiceImpl) Approve(ctx context.Context, cmd DecisionCommand) (*entity.ReportView, error) {
	return s.decide(ctx, cmd, domainwf.TriggerApprove)
}

// Reject marks a report rejected with a mandatory reason
func (s *reportServiceImpl) Reject(ctx context.Context, cmd DecisionCommand) (*entity.ReportView, error) {
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	if cmd.Reason == "" {
		return nil, entity.ValidationError{Field: "reason", Message: "a rejection reason is required"}
	}
	return s.decide(ctx, cmd, domainwf.TriggerReject)
}

func (s *reportServiceImpl) decide(ctx context.Context, cmd DecisionCommand, trigger domainwf.Trigger) (*entity.ReportView, error) {
	year := s.resolveYear(cmd.Year)
	if s.period.Locked(year) {
		return nil, fmt.Errorf("%w: %d", entity.ErrPeriodLocked, year)
	}
	if _, err := s.buRepo.GetByID(ctx, cmd.BUID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	report, err := s.reportRepo.GetByID(ctx, cmd.BUID, cmd.ReportID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	previous := report.Status
	next, err := workflow.Next(ctx, workflow.BuildReportStateMachine, domainwf.State(previous), trigger)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("cannot %s report %s in status %s: %w",
			strings.ToLower(string(trigger)), cmd.ReportID, previous, err)
	}

	now := s.clock.Now()
	report.Status = entity.ReportStatus(next)
	report.DecisionDate = &now
	if trigger == domainwf.TriggerReject {
		reason := cmd.Reason
		report.RejectReason = &reason
	}

	if err := s.reportRepo.Replace(ctx, *report); err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to store report decision", "report_id", cmd.ReportID, "error", err)
		return nil, fmt.Errorf("failed to store decision: %w", err)
	}
	s.mu.Unlock()

	s.logger.Info("Report decided",
		"bu_id", cmd.BUID,
		"report_id", cmd.ReportID,
		"previous_status", previous,
		"new_status", report.Status,
		"actor", cmd.Actor)

	eventType := event.TypeReportApproved
	if trigger == domainwf.TriggerReject {
		eventType = event.TypeReportRejected
	}
	publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(eventType, report.ID, now, map[string]interface{}{
		event.KeyBUID:           cmd.BUID,
		event.KeyYear:           year,
		event.KeyPreviousStatus: string(previous),
		event.KeyNewStatus:      string(report.Status),
		event.KeyReason:         cmd.Reason,
		event.KeyActor:          cmd.Actor,
	}))

	v := entity.NewReportView(*report, false)
	return &v, nil
}

// ValidationMessages returns the automated findings shown on report review
func (s *reportServiceImpl) ValidationMessages() []entity.ValidationMessage {
	return append([]entity.ValidationMessage(nil), s.messages...)
}
