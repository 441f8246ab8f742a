package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/garyjia/closing-dashboard/internal/application/dispatcher"
	"github.com/garyjia/closing-dashboard/internal/application/operation"
	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/application/workflow"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	"github.com/garyjia/closing-dashboard/internal/domain/event"
	domainwf "github.com/garyjia/closing-dashboard/internal/domain/workflow"
)

// TaskService manages the BU closing task list
type TaskService interface {
	List(ctx context.Context, criteria view.TaskCriteria) ([]entity.BUTask, error)
	Summary(ctx context.Context) (view.TaskSummary, error)
	// Confirm submits the task. The returned operation is pending; the task
	// becomes Sent once the operation resolves.
	Confirm(ctx context.Context, index int, actor string) (operation.Operation, error)
	Operation(ctx context.Context, id string) (operation.Operation, error)
}

type taskServiceImpl struct {
	taskRepo   port.TaskRepository
	clock      port.Clock
	ops        Operations
	delay      Delays
	dispatcher dispatcher.Dispatcher
	logger     Logger

	mu sync.Mutex
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo port.TaskRepository,
	clock port.Clock,
	ops Operations,
	delay Delays,
	d dispatcher.Dispatcher,
	logger Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:   taskRepo,
		clock:      clock,
		ops:        ops,
		delay:      delay,
		dispatcher: d,
		logger:     logger,
	}
}

// List returns the tasks matching criteria with SLA computed for today
func (s *taskServiceImpl) List(ctx context.Context, criteria view.TaskCriteria) ([]entity.BUTask, error) {
	if err := view.Validate(criteria); err != nil {
		return nil, err
	}
	tasks, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return view.Filter(tasks, criteria.Match), nil
}

// Summary returns the status cards of the task list
func (s *taskServiceImpl) Summary(ctx context.Context) (view.TaskSummary, error) {
	tasks, err := s.current(ctx)
	if err != nil {
		return view.TaskSummary{}, err
	}
	return view.SummarizeTasks(tasks), nil
}

func (s *taskServiceImpl) current(ctx context.Context) ([]entity.BUTask, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return view.WithSLA(tasks, s.clock.Now()), nil
}

// TaskTarget is the operation target key of a task
func TaskTarget(index int) string {
	return "task:" + strconv.Itoa(index)
}

// Confirm checks the transition up front so that ineligible tasks fail
// immediately, then schedules the change behind the confirmation delay
func (s *taskServiceImpl) Confirm(ctx context.Context, index int, actor string) (operation.Operation, error) {
	task, err := s.taskRepo.GetByIndex(ctx, index)
	if err != nil {
		return operation.Operation{}, err
	}
	if _, err := workflow.Next(ctx, workflow.BuildTaskStateMachine, domainwf.State(task.Status), domainwf.TriggerConfirm); err != nil {
		return operation.Operation{}, fmt.Errorf("cannot confirm task %d in status %s: %w", index, task.Status, err)
	}

	op, err := s.ops.Submit(operation.KindTaskConfirm, TaskTarget(index), s.delay.Confirm, func(ctx context.Context) (operation.Outcome, error) {
		return s.applyConfirm(ctx, index, actor)
	})
	if err != nil {
		return operation.Operation{}, err
	}

	s.logger.Info("Task confirmation submitted", "index", index, "operation_id", op.ID)
	return op, nil
}

func (s *taskServiceImpl) applyConfirm(ctx context.Context, index int, actor string) (operation.Outcome, error) {
	s.mu.Lock()
	task, err := s.taskRepo.GetByIndex(ctx, index)
	if err != nil {
		s.mu.Unlock()
		return operation.Outcome{Message: FailureMessage("")}, err
	}

	if task.ConfirmFailure != "" {
		s.mu.Unlock()
		publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeTaskConfirmFailed, strconv.Itoa(index), s.clock.Now(), map[string]interface{}{
			event.KeyMessage: task.ConfirmFailure,
			event.KeyActor:   actor,
		}))
		return operation.Outcome{Message: FailureMessage(task.ConfirmFailure)}, errors.New(task.ConfirmFailure)
	}

	previous := task.Status
	next, err := workflow.Next(ctx, workflow.BuildTaskStateMachine, domainwf.State(previous), domainwf.TriggerConfirm)
	if err != nil {
		s.mu.Unlock()
		return operation.Outcome{Message: FailureMessage("")}, err
	}

	task.Status = entity.TaskStatus(next)
	if err := s.taskRepo.Replace(ctx, *task); err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to store task confirmation", "index", index, "error", err)
		return operation.Outcome{Message: FailureMessage("")}, err
	}
	s.mu.Unlock()

	s.logger.Info("Task confirmed", "index", index, "previous_status", previous, "new_status", task.Status)

	publishEvent(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeTaskConfirmed, strconv.Itoa(index), s.clock.Now(), map[string]interface{}{
		event.KeyPreviousStatus: string(previous),
		event.KeyNewStatus:      string(task.Status),
		event.KeyActor:          actor,
	}))

	updated := view.WithSLA([]entity.BUTask{*task}, s.clock.Now())[0]
	return operation.Outcome{Result: updated, Message: SuccessMessage(task.Name)}, nil
}

// Operation returns the state of a submitted confirmation
func (s *taskServiceImpl) Operation(ctx context.Context, id string) (operation.Operation, error) {
	return s.ops.Get(id)
}

// SuccessMessage is the notification shown when a task was sent
func SuccessMessage(name string) string {
	return fmt.Sprintf("Process completed successfully for %s!", name)
}

// FailureMessage is the notification shown when sending failed
func FailureMessage(reason string) string {
	if reason == "" {
		reason = "Process failed"
	}
	return fmt.Sprintf("Error: %s. Please try again.", reason)
}
