package handlers

import (
	"net/http"

	"onboard-backend/internal/repository"
	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AssetHandler struct {
	assetService *services.AssetService
	validator    *validator.Validate
}

func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
		validator:    validator.New(),
	}
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	filter := repository.AssetFilter{
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		AssignedTo: c.Query("assignedTo"),
	}

	page, limit := utils.ParsePagination(c)
	assets, total, err := h.assetService.GetAssets(filter, page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve assets", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Assets retrieved", assets, utils.BuildPagination(page, limit, total))
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req services.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	asset, err := h.assetService.CreateAsset(&req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create asset", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Asset created", asset)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.assetService.GetAssetByID(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Asset not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Asset retrieved", asset)
}

func (h *AssetHandler) AssignAsset(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.AssignAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	asset, err := h.assetService.AssignAsset(c.Param("id"), &req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to assign asset", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Asset assigned", asset)
}

func (h *AssetHandler) UnassignAsset(c *gin.Context) {
	asset, err := h.assetService.UnassignAsset(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to unassign asset", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Asset unassigned", asset)
}

func (h *AssetHandler) ReportMaintenance(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.ReportMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	asset, err := h.assetService.ReportMaintenance(c.Param("id"), &req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to report maintenance", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance reported", asset)
}

func (h *AssetHandler) UpdateAssetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=available retired lost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	asset, err := h.assetService.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to update asset status", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Asset status updated", asset)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if err := h.assetService.DeleteAsset(c.Param("id")); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to delete asset", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Asset deleted", nil)
}
