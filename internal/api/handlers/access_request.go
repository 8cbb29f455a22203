package handlers

import (
	"net/http"

	"onboard-backend/internal/api/middleware"
	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AccessRequestHandler struct {
	requestService *services.AccessRequestService
	validator      *validator.Validate
}

func NewAccessRequestHandler(requestService *services.AccessRequestService) *AccessRequestHandler {
	return &AccessRequestHandler{
		requestService: requestService,
		validator:      validator.New(),
	}
}

func (h *AccessRequestHandler) GetRequests(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	filter := repository.AccessRequestFilter{
		Status:    c.Query("status"),
		Requester: c.Query("requester"),
	}

	// Employees only see their own requests
	if actor.Role == models.RoleEmployee {
		filter.Requester = actor.ID.Hex()
	}

	page, limit := utils.ParsePagination(c)
	requests, total, err := h.requestService.GetRequests(filter, page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve access requests", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Access requests retrieved", requests, utils.BuildPagination(page, limit, total))
}

func (h *AccessRequestHandler) CreateRequest(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.CreateAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	request, err := h.requestService.CreateRequest(&req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to create access request", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Access request created", request)
}

func (h *AccessRequestHandler) GetRequest(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	request, err := h.requestService.GetRequestByID(c.Param("id"), actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to retrieve access request", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Access request retrieved", request)
}

// Decide records an approval or rejection
func (h *AccessRequestHandler) Decide(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.DecideAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	request, err := h.requestService.Decide(c.Param("id"), &req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to record decision", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Decision recorded", request)
}

func (h *AccessRequestHandler) AssignRequest(c *gin.Context) {
	var req services.AssignAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	request, err := h.requestService.Assign(c.Param("id"), &req)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to assign access request", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Access request assigned", request)
}

// UpdateStatus moves a request to completed (it/admin) or cancelled
// (requester).
func (h *AccessRequestHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	var (
		request *models.AccessRequest
		err     error
	)
	if req.Status == models.AccessRequestStatusCompleted {
		if !middleware.HasCapability(actor.Role, middleware.ActionFulfilAccess) {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions", nil)
			return
		}
		request, err = h.requestService.Complete(c.Param("id"), actor)
	} else {
		request, err = h.requestService.Cancel(c.Param("id"), actor)
	}
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to update access request", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Access request updated", request)
}
