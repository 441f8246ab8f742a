package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/closing-dashboard/internal/application/operation"
	"github.com/garyjia/closing-dashboard/internal/application/service"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	domainwf "github.com/garyjia/closing-dashboard/internal/domain/workflow"
)

// ActorHeader names the user acting on a report or task
const ActorHeader = "X-Actor"

const defaultActor = "anonymous"

// Deps are the application services behind the handlers
type Deps struct {
	Dashboard     service.DashboardService
	Reports       service.ReportService
	Tasks         service.TaskService
	Consolidation service.ConsolidationService
	Management    service.ManagementService
	Chat          service.ChatService
	Export        service.ExportService
	History       service.HistoryService
	Operations    service.Operations

	// ResetSession restores the seeded session state
	ResetSession func(ctx context.Context) error
	// Ready reports component health; nil means always ready
	Ready func() bool
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps   Deps
	logger Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Deps, logger Logger) *Handlers {
	return &Handlers{deps: deps, logger: logger}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// statusFor maps application errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainwf.ErrInvalidTransition),
		errors.Is(err, domainwf.ErrInvalidState),
		errors.Is(err, domainwf.ErrGuardFailed),
		errors.Is(err, entity.ErrPeriodLocked),
		errors.Is(err, entity.ErrNotDownloadable),
		errors.Is(err, operation.ErrOperationPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// their details hidden from the client.
func (h *Handlers) fail(c *gin.Context, err error, action string) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "action", action, "path", c.Request.URL.Path, "error", err)
		msg = action + " failed"
	}
	c.JSON(status, Response{Success: false, Error: msg})
}

func actor(c *gin.Context) string {
	if a := strings.TrimSpace(c.GetHeader(ActorHeader)); a != "" {
		return a
	}
	return defaultActor
}

// yearQuery parses the optional year query parameter; 0 means the active year
func yearQuery(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		return 0, entity.ValidationError{Field: "year", Message: "year must be a number between 2000 and 2100"}
	}
	return year, nil
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if h.deps.Ready != nil && !h.deps.Ready() {
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	c.JSON(code, Response{
		Success: code == http.StatusOK,
		Data: HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ListBusinessUnits handles GET /api/business-units
func (h *Handlers) ListBusinessUnits(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		h.fail(c, err, "list business units")
		return
	}
	criteria := view.BUCriteria{Search: c.Query("search"), Status: c.Query("status")}

	units, err := h.deps.Dashboard.ListBusinessUnits(c.Request.Context(), year, criteria)
	if err != nil {
		h.fail(c, err, "list business units")
		return
	}
	ok(c, http.StatusOK, units)
}

// BusinessUnitSummary handles GET /api/business-units/summary
func (h *Handlers) BusinessUnitSummary(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		h.fail(c, err, "summarize business units")
		return
	}

	summary, err := h.deps.Dashboard.Summary(c.Request.Context(), year)
	if err != nil {
		h.fail(c, err, "summarize business units")
		return
	}
	ok(c, http.StatusOK, summary)
}

func (h *Handlers) buDetails(c *gin.Context) (*entity.BUDetails, bool) {
	year, err := yearQuery(c)
	if err != nil {
		h.fail(c, err, "get business unit")
		return nil, false
	}
	criteria := view.ReportCriteria{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}

	details, err := h.deps.Reports.GetBUDetails(c.Request.Context(), c.Param("buId"), year, criteria)
	if err != nil {
		h.fail(c, err, "get business unit")
		return nil, false
	}
	return details, true
}

// GetBUDetails handles GET /api/business-units/:buId
func (h *Handlers) GetBUDetails(c *gin.Context) {
	if details, found := h.buDetails(c); found {
		ok(c, http.StatusOK, details)
	}
}

// ListReports handles GET /api/business-units/:buId/reports
func (h *Handlers) ListReports(c *gin.Context) {
	if details, found := h.buDetails(c); found {
		ok(c, http.StatusOK, details.Reports)
	}
}

// GetReport handles GET /api/business-units/:buId/reports/:reportId
func (h *Handlers) GetReport(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		h.fail(c, err, "get report")
		return
	}

	report, err := h.deps.Reports.GetReport(c.Request.Context(), c.Param("buId"), c.Param("reportId"), year)
	if err != nil {
		h.fail(c, err, "get report")
		return
	}
	ok(c, http.StatusOK, report)
}

// DecisionRequest is the body of approve and reject
type DecisionRequest struct {
	Reason string `json:"reason"`
	Year   int    `json:"year"`
}

func (h *Handlers) decide(c *gin.Context, reject bool) {
	var req DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	if req.Year == 0 {
		year, err := yearQuery(c)
		if err != nil {
			h.fail(c, err, "decide report")
			return
		}
		req.Year = year
	}

	cmd := service.DecisionCommand{
		BUID:     c.Param("buId"),
		ReportID: c.Param("reportId"),
		Year:     req.Year,
		Reason:   req.Reason,
		Actor:    actor(c),
	}

	var (
		report *entity.ReportView
		err    error
	)
	if reject {
		report, err = h.deps.Reports.Reject(c.Request.Context(), cmd)
	} else {
		report, err = h.deps.Reports.Approve(c.Request.Context(), cmd)
	}
	if err != nil {
		h.fail(c, err, "decide report")
		return
	}
	ok(c, http.StatusOK, report)
}

// ApproveReport handles POST /api/business-units/:buId/reports/:reportId/approve
func (h *Handlers) ApproveReport(c *gin.Context) {
	h.decide(c, false)
}

// RejectReport handles POST /api/business-units/:buId/reports/:reportId/reject
func (h *Handlers) RejectReport(c *gin.Context) {
	h.decide(c, true)
}

// ValidationMessages handles GET /api/validation-messages
func (h *Handlers) ValidationMessages(c *gin.Context) {
	ok(c, http.StatusOK, h.deps.Reports.ValidationMessages())
}

// ResetSession handles POST /api/session/reset
func (h *Handlers) ResetSession(c *gin.Context) {
	if h.deps.ResetSession == nil {
		c.JSON(http.StatusNotImplemented, Response{Success: false, Error: "session reset is not available"})
		return
	}
	if err := h.deps.ResetSession(c.Request.Context()); err != nil {
		h.fail(c, err, "reset session")
		return
	}
	h.logger.Info("Session reset", "actor", actor(c))
	ok(c, http.StatusOK, gin.H{"reset": true})
}
