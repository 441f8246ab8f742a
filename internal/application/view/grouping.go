package view

import (
	"sort"
	"sync"

	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// YearGroup is one fiscal year of consolidated reports: the Yearly record
// as parent and the shorter periods as children
type YearGroup struct {
	Year     int                         `json:"year"`
	Parent   *entity.ConsolidatedReport  `json:"parent"`
	Children []entity.ConsolidatedReport `json:"children"`
}

// GroupConsolidated groups reports by year and applies criteria.
//
// A year is kept when its Yearly record matches or at least one child does.
// Parent is nil when the Yearly record is missing or does not match; children
// are pruned to the matching ones, independently of the parent. Groups are
// sorted by year, newest first.
func GroupConsolidated(reports []entity.ConsolidatedReport, criteria ConsolidatedCriteria) []YearGroup {
	type bucket struct {
		parent   *entity.ConsolidatedReport
		children []entity.ConsolidatedReport
	}

	buckets := make(map[int]*bucket)
	for _, r := range reports {
		b, ok := buckets[r.Year]
		if !ok {
			b = &bucket{}
			buckets[r.Year] = b
		}
		if r.Type == entity.PeriodTypeYearly {
			if b.parent == nil {
				p := r
				b.parent = &p
			}
			continue
		}
		b.children = append(b.children, r)
	}

	groups := make([]YearGroup, 0, len(buckets))
	for year, b := range buckets {
		var parent *entity.ConsolidatedReport
		if b.parent != nil && criteria.Match(*b.parent) {
			parent = b.parent
		}
		children := Filter(b.children, criteria.Match)
		if parent == nil && len(children) == 0 {
			continue
		}
		groups = append(groups, YearGroup{Year: year, Parent: parent, Children: children})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Year > groups[j].Year })
	return groups
}

// Expansion tracks which year groups are expanded. It is independent of
// filtering: collapsing a year hides its children without removing them.
// The zero value has every year collapsed and is safe for concurrent use.
type Expansion struct {
	mu    sync.RWMutex
	years map[int]bool
}

// NewExpansion returns an Expansion with the given years expanded
func NewExpansion(years ...int) *Expansion {
	e := &Expansion{years: make(map[int]bool, len(years))}
	for _, y := range years {
		e.years[y] = true
	}
	return e
}

// Toggle flips the year and returns its new state
func (e *Expansion) Toggle(year int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.years == nil {
		e.years = make(map[int]bool)
	}
	e.years[year] = !e.years[year]
	return e.years[year]
}

// IsExpanded reports whether the year is expanded
func (e *Expansion) IsExpanded(year int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.years[year]
}

// Visible returns the children to render for the group: all of them when
// expanded, none when collapsed
func (e *Expansion) Visible(g YearGroup) []entity.ConsolidatedReport {
	if !e.IsExpanded(g.Year) {
		return nil
	}
	return g.Children
}
