package handlers

import (
	"net/http"
	"time"

	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TrainingHandler struct {
	trainingService   *services.TrainingService
	onboardingService *services.OnboardingService
	validator         *validator.Validate
}

func NewTrainingHandler(trainingService *services.TrainingService, onboardingService *services.OnboardingService) *TrainingHandler {
	return &TrainingHandler{
		trainingService:   trainingService,
		onboardingService: onboardingService,
		validator:         validator.New(),
	}
}

func (h *TrainingHandler) GetTrainings(c *gin.Context) {
	filter := repository.TrainingFilter{
		TrainingType: c.Query("type"),
		Status:       c.Query("status"),
	}

	page, limit := utils.ParsePagination(c)
	trainings, total, err := h.trainingService.GetTrainings(filter, page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve trainings", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Trainings retrieved", trainings, utils.BuildPagination(page, limit, total))
}

func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	training, err := h.trainingService.CreateTraining(&req, actor)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create training", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Training created", training)
}

func (h *TrainingHandler) GetTraining(c *gin.Context) {
	training, err := h.trainingService.GetTrainingByID(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Training not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Training retrieved", training)
}

func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	var req services.UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	training, err := h.trainingService.UpdateTraining(c.Param("id"), &req)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to update training", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Training updated", training)
}

func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	if err := h.trainingService.DeleteTraining(c.Param("id")); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to delete training", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Training deleted", nil)
}

// AssignUsers assigns a batch of users to the training. The batch reports a
// per-user outcome and never rolls back.
func (h *TrainingHandler) AssignUsers(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.trainingService.AssignUsers(c.Param("id"), &req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to assign training", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment processed", result)
}

func (h *TrainingHandler) Unassign(c *gin.Context) {
	if err := h.trainingService.Unassign(c.Param("id"), c.Param("userId")); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to unassign training", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Training unassigned", nil)
}

type startCompleteBody struct {
	UserID string `json:"userId,omitempty"`
}

// userIDOrSelf resolves which assignment the call targets: an explicit userId
// in the body (hr acting on someone's behalf) or the caller's own.
func userIDOrSelf(c *gin.Context, actor services.Actor) string {
	var body startCompleteBody
	if err := c.ShouldBindJSON(&body); err == nil && body.UserID != "" {
		return body.UserID
	}
	return actor.ID.Hex()
}

func (h *TrainingHandler) StartAssignment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	userID := userIDOrSelf(c, actor)
	assignment, err := h.trainingService.StartAssignment(c.Param("id"), userID, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to start training", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Training started", assignment)
}

type completeBody struct {
	UserID   string   `json:"userId,omitempty"`
	Score    *float64 `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Feedback string   `json:"feedback,omitempty"`
}

func (h *TrainingHandler) CompleteAssignment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var body completeBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&body); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	userID := body.UserID
	if userID == "" {
		userID = actor.ID.Hex()
	}

	req := &services.CompleteRequest{Score: body.Score, Feedback: body.Feedback}
	assignment, err := h.trainingService.CompleteAssignment(c.Param("id"), userID, req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to complete training", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Training completed", assignment)
}

func (h *TrainingHandler) GetAssignments(c *gin.Context) {
	assignments, err := h.trainingService.GetAssignments(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to retrieve assignments", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignments retrieved", assignments)
}

type setStatusBody struct {
	UserID string `json:"userId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=overdue expired"`
}

func (h *TrainingHandler) SetAssignmentStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var body setStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&body); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	assignment, err := h.trainingService.SetAssignmentStatus(c.Param("id"), body.UserID, body.Status, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to update assignment status", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment status updated", assignment)
}

func (h *TrainingHandler) GenerateOnboarding(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req struct {
		EmployeeID string     `json:"employeeId" validate:"required"`
		StartDate  *time.Time `json:"startDate,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.onboardingService.GenerateOnboarding(req.EmployeeID,
		&services.GenerateOnboardingRequest{StartDate: req.StartDate}, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to generate onboarding plan", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Onboarding plan generated", result)
}

func (h *TrainingHandler) OrientationStatus(c *gin.Context) {
	result, err := h.onboardingService.OrientationStatus(c.Param("employeeId"))
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to retrieve orientation status", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Orientation status retrieved", result)
}
