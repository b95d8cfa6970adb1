package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
)

type TaskHandler struct {
	log         *logger.Logger
	taskService services.TaskService
}

func NewTaskHandler(log *logger.Logger, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{log: log.With("handler", "TaskHandler"), taskService: taskService}
}

// PUT /api/tasks
func (h *TaskHandler) Upsert(c *gin.Context) {
	var t rentals.PropertyTask
	if err := c.ShouldBindJSON(&t); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	saved, err := h.taskService.Upsert(c.Request.Context(), &t)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": saved})
}

// GET /api/properties/:uid/tasks?phase=
func (h *TaskHandler) ListForProperty(c *gin.Context) {
	uid := c.Param("uid")
	if phase := c.Query("phase"); phase != "" {
		list, err := h.taskService.ListForPhase(c.Request.Context(), uid, phase)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"tasks": list})
		return
	}
	list, err := h.taskService.ListForProperty(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": list})
}

// PATCH /api/tasks/completion
// body: { "property_unique_id": "...", "phase": "...", "task_type": "...", "is_completed": true }
func (h *TaskHandler) SetCompletion(c *gin.Context) {
	var req struct {
		PropertyUniqueID string `json:"property_unique_id" binding:"required"`
		Phase            string `json:"phase" binding:"required"`
		TaskType         string `json:"task_type" binding:"required"`
		IsCompleted      *bool  `json:"is_completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	task, err := h.taskService.SetCompletion(c.Request.Context(), req.PropertyUniqueID, req.Phase, req.TaskType, *req.IsCompleted)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": task})
}

// DELETE /api/tasks
// body: { "property_unique_id": "...", "phase": "...", "task_type": "..." }
func (h *TaskHandler) Delete(c *gin.Context) {
	var req struct {
		PropertyUniqueID string `json:"property_unique_id" binding:"required"`
		Phase            string `json:"phase" binding:"required"`
		TaskType         string `json:"task_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.taskService.Delete(c.Request.Context(), req.PropertyUniqueID, req.Phase, req.TaskType); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
