package service

import (
	"context"
	"fmt"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// OverviewQuery selects a management overview
type OverviewQuery struct {
	Scope       entity.Scope
	Granularity entity.Granularity
	Period      string
	BUID        string
}

// ManagementService serves the executive dashboard
type ManagementService interface {
	// Overview returns the overview of the selection, or the default group
	// overview when none was prepared for it. Fallback reports which one.
	Overview(ctx context.Context, q OverviewQuery) (overview entity.ManagementOverview, fallback bool, err error)
}

type managementServiceImpl struct {
	overviews map[string]entity.ManagementOverview
}

// NewManagementService creates a new ManagementService
func NewManagementService(overviews map[string]entity.ManagementOverview) ManagementService {
	return &managementServiceImpl{overviews: overviews}
}

func (s *managementServiceImpl) Overview(ctx context.Context, q OverviewQuery) (entity.ManagementOverview, bool, error) {
	if q.Scope == "" {
		q.Scope = entity.ScopeGroup
	}
	if q.Granularity == "" {
		q.Granularity = entity.GranularityMonth
	}
	if q.Period == "" {
		q.Period = "January"
	}

	switch q.Scope {
	case entity.ScopeGroup, entity.ScopeBU:
	default:
		return entity.ManagementOverview{}, false, entity.ValidationError{Field: "scope", Message: fmt.Sprintf("unknown scope %q", q.Scope)}
	}
	switch q.Granularity {
	case entity.GranularityMonth, entity.GranularityQuarter, entity.GranularityYear:
	default:
		return entity.ManagementOverview{}, false, entity.ValidationError{Field: "granularity", Message: fmt.Sprintf("unknown granularity %q", q.Granularity)}
	}
	if q.Scope == entity.ScopeGroup {
		q.BUID = ""
	}

	if o, ok := s.overviews[entity.OverviewKey(q.Scope, q.Granularity, q.Period, q.BUID)]; ok {
		return o, false, nil
	}
	o, ok := s.overviews[entity.DefaultOverviewKey]
	if !ok {
		return entity.ManagementOverview{}, false, entity.NotFoundError{Kind: "management overview", ID: entity.DefaultOverviewKey}
	}
	return o, true, nil
}
