package handlers

import (
	"net/http"

	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	validator       *validator.Validate
}

func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		validator:       validator.New(),
	}
}

func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(&req, actor)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to submit feedback", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Feedback submitted", feedback)
}

func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	page, limit := utils.ParsePagination(c)
	entries, total, err := h.feedbackService.GetFeedback(c.Query("category"), page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve feedback", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Feedback retrieved", entries, utils.BuildPagination(page, limit, total))
}

func (h *FeedbackHandler) GetFeedbackByID(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	feedback, err := h.feedbackService.GetFeedbackByID(c.Param("id"), actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to retrieve feedback", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Feedback retrieved", feedback)
}
