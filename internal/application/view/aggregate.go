package view

import (
	"github.com/shopspring/decimal"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// CountByStatus counts items per status. Every status in all is present in
// the result, with zero when no item has it; statuses outside all are ignored.
func CountByStatus[T any, S comparable](items []T, statusOf func(T) S, all []S) map[S]int {
	counts := make(map[S]int, len(all))
	for _, s := range all {
		counts[s] = 0
	}
	for _, item := range items {
		s := statusOf(item)
		if _, ok := counts[s]; ok {
			counts[s]++
		}
	}
	return counts
}

// ReportSummary counts reports by display status (lifecycle or locked)
func ReportSummary(reports []entity.ReportView) map[entity.ReportStatus]int {
	return CountByStatus(reports, func(r entity.ReportView) entity.ReportStatus {
		return r.DisplayStatus
	}, entity.DisplayStatuses)
}

// TaskSummary is the summary card set of the BU task list
type TaskSummary struct {
	Total    int                       `json:"total"`
	ByStatus map[entity.TaskStatus]int `json:"by_status"`
	Urgent   int                       `json:"urgent"`
	Overdue  int                       `json:"overdue"`
}

// SummarizeTasks counts tasks by status and urgency.
// SLA values are taken as given; run WithSLA first to derive them.
func SummarizeTasks(tasks []entity.BUTask) TaskSummary {
	s := TaskSummary{
		Total: len(tasks),
		ByStatus: CountByStatus(tasks, func(t entity.BUTask) entity.TaskStatus {
			return t.Status
		}, entity.AllTaskStatuses),
	}
	for _, t := range tasks {
		if IsUrgent(t.SLA) {
			s.Urgent++
		}
		if IsOverdue(t.SLA) {
			s.Overdue++
		}
	}
	return s
}

// BUSummary is the head-office overview across business units
type BUSummary struct {
	Total           int                     `json:"total"`
	Completed       int                     `json:"completed"`
	InProgress      int                     `json:"in_progress"`
	Late            int                     `json:"late"`
	ByStatus        map[entity.BUStatus]int `json:"by_status"`
	OverallProgress int                     `json:"overall_progress"`
}

// SummarizeBusinessUnits computes the overview cards.
// OverallProgress is the mean completion percentage rounded half away from zero.
func SummarizeBusinessUnits(units []entity.BusinessUnit) BUSummary {
	byStatus := CountByStatus(units, func(b entity.BusinessUnit) entity.BUStatus {
		return b.OverallStatus
	}, entity.AllBUStatuses)

	s := BUSummary{
		Total:      len(units),
		Completed:  byStatus[entity.BUStatusCompleted],
		InProgress: byStatus[entity.BUStatusInProgress],
		Late:       byStatus[entity.BUStatusLate],
		ByStatus:   byStatus,
	}
	if len(units) == 0 {
		return s
	}

	sum := decimal.Zero
	for _, b := range units {
		sum = sum.Add(decimal.NewFromInt(int64(b.CompletionPercentage)))
	}
	s.OverallProgress = int(sum.Div(decimal.NewFromInt(int64(len(units)))).Round(0).IntPart())
	return s
}
