package handlers

import (
	"net/http"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TaskHandler struct {
	taskService *services.TaskService
	validator   *validator.Validate
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// GetTasks lists tasks. Employees only ever see their own; privileged roles
// can filter freely.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	filter := repository.TaskFilter{
		AssignedTo:  c.Query("assignedTo"),
		Status:      c.Query("status"),
		ProcessType: c.Query("processType"),
		Category:    c.Query("category"),
	}

	if actor.Role == models.RoleEmployee {
		filter.AssignedTo = actor.ID.Hex()
	}

	page, limit := utils.ParsePagination(c)
	tasks, total, err := h.taskService.GetTasks(filter, page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve tasks", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Tasks retrieved", tasks, utils.BuildPagination(page, limit, total))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	task, err := h.taskService.CreateTask(&req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to create task", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Task created", task)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	task, err := h.taskService.GetTaskByID(c.Param("id"), actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to retrieve task", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task retrieved", task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Param("id"), &req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to update task", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task updated", task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := h.taskService.DeleteTask(c.Param("id"), actor); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to delete task", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task deleted", nil)
}
