// Package memory holds the session store: process-local, copy-on-write
// repositories seeded from the catalog.
package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// ReportSeeder builds the initial reports of a BU
type ReportSeeder func(buID string) []entity.Report

// Seed is the initial content of a Store
type Seed struct {
	BusinessUnits []entity.BusinessUnit
	Tasks         []entity.BUTask
	Consolidated  []entity.ConsolidatedReport
	Reports       ReportSeeder
}

// Store is the session state. Every read returns copies; every write
// replaces the affected slice with a new one, so slices handed out earlier
// are never modified.
type Store struct {
	mu            sync.RWMutex
	businessUnits []entity.BusinessUnit
	tasks         []entity.BUTask
	consolidated  []entity.ConsolidatedReport
	reports       map[string][]entity.Report // by BU id, created on first access
	seedReports   ReportSeeder
	logger        *zap.Logger
}

// NewStore creates a store from seed data. The seed slices are copied.
func NewStore(seed Seed, logger *zap.Logger) *Store {
	return &Store{
		businessUnits: append([]entity.BusinessUnit(nil), seed.BusinessUnits...),
		tasks:         append([]entity.BUTask(nil), seed.Tasks...),
		consolidated:  cloneConsolidated(seed.Consolidated),
		reports:       make(map[string][]entity.Report),
		seedReports:   seed.Reports,
		logger:        logger,
	}
}

// Reset drops every session change and the report cache
func (s *Store) Reset(_ context.Context, seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.businessUnits = append([]entity.BusinessUnit(nil), seed.BusinessUnits...)
	s.tasks = append([]entity.BUTask(nil), seed.Tasks...)
	s.consolidated = cloneConsolidated(seed.Consolidated)
	s.reports = make(map[string][]entity.Report)
	s.seedReports = seed.Reports

	s.logger.Info("Session store reset")
}

// BusinessUnits returns the BU repository view of the store
func (s *Store) BusinessUnits() *BusinessUnitRepository {
	return &BusinessUnitRepository{store: s}
}

// Reports returns the report repository view of the store
func (s *Store) Reports() *ReportRepository {
	return &ReportRepository{store: s}
}

// Tasks returns the task repository view of the store
func (s *Store) Tasks() *TaskRepository {
	return &TaskRepository{store: s}
}

// Consolidated returns the consolidated report repository view of the store
func (s *Store) Consolidated() *ConsolidatedRepository {
	return &ConsolidatedRepository{store: s}
}

func cloneConsolidated(in []entity.ConsolidatedReport) []entity.ConsolidatedReport {
	out := make([]entity.ConsolidatedReport, len(in))
	for i, r := range in {
		if r.FinalApprovalDate != nil {
			d := *r.FinalApprovalDate
			r.FinalApprovalDate = &d
		}
		out[i] = r
	}
	return out
}

func cloneReports(in []entity.Report) []entity.Report {
	out := make([]entity.Report, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
