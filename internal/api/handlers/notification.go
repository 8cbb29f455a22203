package handlers

import (
	"net/http"

	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		validator:           validator.New(),
	}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	filter := repository.NotificationFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}

	page, limit := utils.ParsePagination(c)
	notifications, total, err := h.notificationService.GetNotifications(actor.ID, filter, page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve notifications", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Notifications retrieved", notifications, utils.BuildPagination(page, limit, total))
}

// CreateNotifications accepts a single recipient, an explicit batch, or a
// role broadcast. Batches are all-or-nothing.
func (h *NotificationHandler) CreateNotifications(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	notifications, err := h.notificationService.CreateNotifications(&req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to create notifications", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Notifications created", notifications)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	count, err := h.notificationService.UnreadCount(actor.ID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to count notifications", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Unread count retrieved", map[string]int64{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	notification, err := h.notificationService.MarkRead(c.Param("id"), actor.ID)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to mark notification read", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked read", notification)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	updated, err := h.notificationService.MarkAllRead(actor.ID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to mark notifications read", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notifications marked read", map[string]int64{"updated": updated})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := h.notificationService.DeleteNotification(c.Param("id"), actor.ID); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to delete notification", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification deleted", nil)
}
