package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/closing-dashboard/internal/application/service"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/domain/assistant"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// TaskQuery represents the query parameters of the task list
type TaskQuery struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	MaxSLA  *int   `form:"max_sla"`
	DueDate string `form:"due_date"`
}

func (q TaskQuery) criteria() (view.TaskCriteria, error) {
	criteria := view.TaskCriteria{Search: q.Search, Status: q.Status, MaxSLA: q.MaxSLA}
	if q.DueDate != "" {
		due, err := entity.ParseDate(q.DueDate)
		if err != nil {
			return criteria, entity.ValidationError{Field: "due_date", Message: "due_date must be YYYY-MM-DD"}
		}
		criteria.DueDate = &due
	}
	return criteria, nil
}

// ListTasks handles GET /api/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	var q TaskQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	criteria, err := q.criteria()
	if err != nil {
		h.fail(c, err, "list tasks")
		return
	}

	tasks, err := h.deps.Tasks.List(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, err, "list tasks")
		return
	}
	ok(c, http.StatusOK, tasks)
}

// TaskSummary handles GET /api/tasks/summary
func (h *Handlers) TaskSummary(c *gin.Context) {
	summary, err := h.deps.Tasks.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err, "summarize tasks")
		return
	}
	ok(c, http.StatusOK, summary)
}

// ConfirmTask handles POST /api/tasks/:index/confirm. The task is sent once
// the returned operation resolves.
func (h *Handlers) ConfirmTask(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "invalid task index")
		return
	}

	op, err := h.deps.Tasks.Confirm(c.Request.Context(), index, actor(c))
	if err != nil {
		h.fail(c, err, "confirm task")
		return
	}
	ok(c, http.StatusAccepted, op)
}

// GetOperation handles GET /api/operations/:id
func (h *Handlers) GetOperation(c *gin.Context) {
	op, err := h.deps.Operations.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err, "get operation")
		return
	}
	ok(c, http.StatusOK, op)
}

// ChatRequest is one message to the assistant
type ChatRequest struct {
	Message   string `json:"message"`
	Context   string `json:"context"`
	SessionID string `json:"session_id"`
}

// Chat handles POST /api/chat. With ?sync=true the reply is returned
// directly, otherwise as a pending operation.
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	chatCtx := assistant.Context(req.Context)

	if sync, _ := strconv.ParseBool(c.Query("sync")); sync {
		reply, err := h.deps.Chat.AskSync(c.Request.Context(), chatCtx, req.Message)
		if err != nil {
			h.fail(c, err, "answer chat")
			return
		}
		ok(c, http.StatusOK, reply)
		return
	}

	op, err := h.deps.Chat.Ask(c.Request.Context(), chatCtx, req.SessionID, req.Message)
	if err != nil {
		h.fail(c, err, "answer chat")
		return
	}
	ok(c, http.StatusAccepted, op)
}

// ChatSuggestions handles GET /api/chat/suggestions
func (h *Handlers) ChatSuggestions(c *gin.Context) {
	suggestions, err := h.deps.Chat.Suggestions(assistant.Context(c.Query("context")))
	if err != nil {
		h.fail(c, err, "list suggestions")
		return
	}
	ok(c, http.StatusOK, suggestions)
}

// ExportTasks handles GET /api/tasks/export.xlsx
func (h *Handlers) ExportTasks(c *gin.Context) {
	export, err := h.deps.Export.TaskWorkbook(c.Request.Context())
	if err != nil {
		h.fail(c, err, "export tasks")
		return
	}
	sendWorkbook(c, export)
}

func sendWorkbook(c *gin.Context, export *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	c.Data(http.StatusOK, service.XLSXContentType, export.Content)
}
