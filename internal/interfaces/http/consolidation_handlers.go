package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/closing-dashboard/internal/application/service"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// ConsolidatedQuery represents the query parameters of the consolidation history
type ConsolidatedQuery struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	Status   string `form:"status"`
	Year     string `form:"year"`
	Expanded string `form:"expanded"`
}

// fiscalYear parses the year filter; empty and "all" mean every year
func fiscalYear(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, view.All) {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, entity.ValidationError{Field: "year", Message: "year must be a number or all"}
	}
	return &year, nil
}

// expandedYears parses a comma separated list of years
func expandedYears(raw string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, entity.ValidationError{Field: "expanded", Message: "expanded must list years separated by commas"}
		}
		years = append(years, year)
	}
	return years, nil
}

// ConsolidatedResponse is the grouped consolidation history
type ConsolidatedResponse struct {
	Groups []service.GroupView `json:"groups"`
	Years  []int               `json:"years"`
}

// ListConsolidated handles GET /api/consolidated
func (h *Handlers) ListConsolidated(c *gin.Context) {
	var q ConsolidatedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	years, err := expandedYears(q.Expanded)
	if err != nil {
		h.fail(c, err, "list consolidated reports")
		return
	}
	year, err := fiscalYear(q.Year)
	if err != nil {
		h.fail(c, err, "list consolidated reports")
		return
	}

	criteria := view.ConsolidatedCriteria{Search: q.Search, Type: q.Type, Status: q.Status, Year: year}
	groups, err := h.deps.Consolidation.Groups(c.Request.Context(), criteria, view.NewExpansion(years...))
	if err != nil {
		h.fail(c, err, "list consolidated reports")
		return
	}
	allYears, err := h.deps.Consolidation.Years(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list consolidated reports")
		return
	}
	ok(c, http.StatusOK, ConsolidatedResponse{Groups: groups, Years: allYears})
}

// GetConsolidated handles GET /api/consolidated/:id
func (h *Handlers) GetConsolidated(c *gin.Context) {
	report, err := h.deps.Consolidation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "get consolidated report")
		return
	}
	ok(c, http.StatusOK, report)
}

// ExportConsolidated handles GET /api/consolidated/:id/export.xlsx
func (h *Handlers) ExportConsolidated(c *gin.Context) {
	export, err := h.deps.Export.ConsolidatedWorkbook(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "export consolidated report")
		return
	}
	sendWorkbook(c, export)
}

// OverviewResponse is a management overview and whether the default was served
type OverviewResponse struct {
	Overview entity.ManagementOverview `json:"overview"`
	Fallback bool                      `json:"fallback"`
}

// ManagementOverview handles GET /api/management/overview
func (h *Handlers) ManagementOverview(c *gin.Context) {
	q := service.OverviewQuery{
		Scope:       entity.Scope(c.Query("scope")),
		Granularity: entity.Granularity(c.Query("granularity")),
		Period:      c.Query("period"),
		BUID:        c.Query("bu_id"),
	}

	overview, fallback, err := h.deps.Management.Overview(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "get management overview")
		return
	}
	ok(c, http.StatusOK, OverviewResponse{Overview: overview, Fallback: fallback})
}

// History handles GET /api/history/:kind/:id
func (h *Handlers) History(c *gin.Context) {
	records, err := h.deps.History.ForTarget(c.Request.Context(), entity.TargetKind(c.Param("kind")), c.Param("id"))
	if err != nil {
		h.fail(c, err, "get history")
		return
	}
	if records == nil {
		records = []*entity.DecisionRecord{}
	}
	ok(c, http.StatusOK, records)
}

// RecentHistory handles GET /api/history?limit=
func (h *Handlers) RecentHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.deps.History.Recent(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "list history")
		return
	}
	if records == nil {
		records = []*entity.DecisionRecord{}
	}
	ok(c, http.StatusOK, records)
}
