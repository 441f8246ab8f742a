package service

import (
	"context"
	"fmt"

	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// DashboardService serves the head-office overview of business units
type DashboardService interface {
	ListBusinessUnits(ctx context.Context, year int, criteria view.BUCriteria) ([]entity.BusinessUnit, error)
	Summary(ctx context.Context, year int) (view.BUSummary, error)
}

type dashboardServiceImpl struct {
	buRepo port.BusinessUnitRepository
	period Period
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(buRepo port.BusinessUnitRepository, period Period) DashboardService {
	return &dashboardServiceImpl{buRepo: buRepo, period: period}
}

// unitsFor returns the BUs as seen in year
func (s *dashboardServiceImpl) unitsFor(ctx context.Context, year int) ([]entity.BusinessUnit, error) {
	units, err := s.buRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list business units: %w", err)
	}
	if year != 0 && s.period.Locked(year) {
		for i := range units {
			units[i] = units[i].AsLocked()
		}
	}
	return units, nil
}

func (s *dashboardServiceImpl) ListBusinessUnits(ctx context.Context, year int, criteria view.BUCriteria) ([]entity.BusinessUnit, error) {
	if err := view.Validate(criteria); err != nil {
		return nil, err
	}
	units, err := s.unitsFor(ctx, year)
	if err != nil {
		return nil, err
	}
	return view.Filter(units, criteria.Match), nil
}

func (s *dashboardServiceImpl) Summary(ctx context.Context, year int) (view.BUSummary, error) {
	units, err := s.unitsFor(ctx, year)
	if err != nil {
		return view.BUSummary{}, err
	}
	return view.SummarizeBusinessUnits(units), nil
}
