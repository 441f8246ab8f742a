package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// GroupView is a year group as displayed: collapsed groups hide their children
type GroupView struct {
	view.YearGroup
	Expanded bool                        `json:"expanded"`
	Visible  []entity.ConsolidatedReport `json:"visible"`
}

// ConsolidationService serves the group consolidation history
type ConsolidationService interface {
	Groups(ctx context.Context, criteria view.ConsolidatedCriteria, expansion *view.Expansion) ([]GroupView, error)
	Get(ctx context.Context, id string) (*entity.ConsolidatedReport, error)
	Years(ctx context.Context) ([]int, error)
}

type consolidationServiceImpl struct {
	repo      port.ConsolidatedRepository
	exportURL func(id, format string) string
}

// NewConsolidationService creates a new ConsolidationService.
// exportURL builds the download link of a period in a given format. Only the
// Excel workbook is generated; PDF links are kept only when the catalog has them.
func NewConsolidationService(repo port.ConsolidatedRepository, exportURL func(id, format string) string) ConsolidationService {
	return &consolidationServiceImpl{repo: repo, exportURL: exportURL}
}

func (s *consolidationServiceImpl) withLinks(r entity.ConsolidatedReport) entity.ConsolidatedReport {
	if !r.Downloadable() || s.exportURL == nil {
		r.ExcelURL, r.PDFURL = "", ""
		return r
	}
	if r.ExcelURL == "" {
		r.ExcelURL = s.exportURL(r.ID, "xlsx")
	}
	return r
}

// Groups returns the filtered year groups, newest first. A nil expansion
// shows every group collapsed.
func (s *consolidationServiceImpl) Groups(ctx context.Context, criteria view.ConsolidatedCriteria, expansion *view.Expansion) ([]GroupView, error) {
	if err := view.Validate(criteria); err != nil {
		return nil, err
	}
	reports, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list consolidated reports: %w", err)
	}
	for i := range reports {
		reports[i] = s.withLinks(reports[i])
	}
	if expansion == nil {
		expansion = view.NewExpansion()
	}

	groups := view.GroupConsolidated(reports, criteria)
	out := make([]GroupView, len(groups))
	for i, g := range groups {
		out[i] = GroupView{
			YearGroup: g,
			Expanded:  expansion.IsExpanded(g.Year),
			Visible:   expansion.Visible(g),
		}
	}
	return out, nil
}

// Get returns one consolidated report with its download links
func (s *consolidationServiceImpl) Get(ctx context.Context, id string) (*entity.ConsolidatedReport, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	withLinks := s.withLinks(*r)
	return &withLinks, nil
}

// Years lists the fiscal years present, newest first
func (s *consolidationServiceImpl) Years(ctx context.Context) ([]int, error) {
	reports, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list consolidated reports: %w", err)
	}
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, r := range reports {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}
