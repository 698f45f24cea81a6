package handlers

import (
	"errors"
	"net/http"

	"planeteye/backend/internal/middleware"
	"planeteye/backend/internal/models"
	"planeteye/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	userService services.UserService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, userService services.UserService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, userService: userService}
}

// GetTasks lists the tasks visible to the actor, most recent first. The
// optional type query narrows within that set; it can never widen it.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	var typeFilter models.TaskType
	if raw := c.Query("type"); raw != "" && raw != "All" {
		parsed, err := models.ParseTaskType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_task_type",
				"message": err.Error(),
			})
			return
		}
		typeFilter = parsed
	}

	tasks, err := h.taskService.GetVisible(h.db, actor, typeFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": h.annotate(tasks),
		"total": len(tasks),
	})
}

// TaskView decorates a task with its assigner's display name, resolved
// leniently: an absent reference renders as "Unknown" rather than failing.
type TaskView struct {
	models.Task
	AssignedByName string `json:"assigned_by_name"`
}

func (h *TaskHandler) annotate(tasks []models.Task) []TaskView {
	names := make(map[string]string)
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		name, cached := names[t.AssignedBy]
		if !cached {
			name = "Unknown"
			if u, err := h.userService.GetUser(h.db, t.AssignedBy); err == nil {
				name = u.Name
			}
			names[t.AssignedBy] = name
		}
		views = append(views, TaskView{Task: t, AssignedByName: name})
	}
	return views
}

type CreateTaskRequest struct {
	Type     string `json:"type" binding:"required"`
	TargetID string `json:"target_id"`
}

// CreateTask is the quick-create path: self-assignment by default, an
// explicit target when given.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskType, err := models.ParseTaskType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_task_type",
			"message": err.Error(),
		})
		return
	}

	task, err := h.taskService.QuickCreate(h.db, actor, taskType, req.TargetID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

type SOSRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

// CreateSOS dispatches an urgent task to a chosen specialist. Unlike other
// targeted creates this is open to every role.
func (h *TaskHandler) CreateSOS(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	var req SOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.QuickCreate(h.db, actor, models.TaskTypeSOS, req.TargetID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

type DelegateRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
}

// Delegate assigns a fresh Individual task to the target user.
func (h *TaskHandler) Delegate(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	var req DelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Delegate(h.db, actor, req.TargetUserID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	task, err := h.taskService.ToggleComplete(h.db, actor, c.Param("id"))
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	task, err := h.taskService.GetByID(h.db, actor, c.Param("id"))
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "target user not found"})
	case errors.Is(err, services.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "operation not permitted for this role"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process task request"})
	}
}
