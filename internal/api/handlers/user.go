package handlers

import (
	"net/http"
	"strconv"

	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService *services.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Role:       c.Query("role"),
		Department: c.Query("department"),
	}
	if raw := c.Query("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	page, limit := utils.ParsePagination(c)
	users, total, err := h.userService.GetUsers(filter, page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve users", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Users retrieved", users, utils.BuildPagination(page, limit, total))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User retrieved", user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Param("id"), &req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to update user", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated", user)
}

// DeactivateUser is a soft delete; history referencing the user survives
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := h.userService.DeactivateUser(c.Param("id"), actor); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to deactivate user", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deactivated", nil)
}
