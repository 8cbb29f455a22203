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

type DocumentHandler struct {
	documentService *services.DocumentService
	validator       *validator.Validate
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		validator:       validator.New(),
	}
}

func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	filter := repository.DocumentFilter{
		Category: c.Query("category"),
		Owner:    c.Query("owner"),
	}

	// Non-privileged callers only list their own documents
	if actor.Role != models.RoleHR && actor.Role != models.RoleAdmin {
		filter.Owner = actor.ID.Hex()
	}

	page, limit := utils.ParsePagination(c)
	documents, total, err := h.documentService.GetDocuments(filter, page, limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve documents", err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "Documents retrieved", documents, utils.BuildPagination(page, limit, total))
}

// Upload handles a multipart document upload
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "File is required", err)
		return
	}

	document, err := h.documentService.Upload(c, header, &req, actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to upload document", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Document uploaded", document)
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	document, err := h.documentService.GetDocumentByID(c.Param("id"), actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to retrieve document", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Document retrieved", document)
}

// Download streams the stored file
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	path, document, err := h.documentService.FilePathFor(c.Param("id"), actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to retrieve document", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+document.FileName+"\"")
	c.Header("Content-Type", document.MimeType)
	c.File(path)
}

func (h *DocumentHandler) Sign(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	document, err := h.documentService.Sign(c.Param("id"), actor)
	if err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to sign document", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Document signed", document)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := h.documentService.DeleteDocument(c.Param("id"), actor); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to delete document", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Document deleted", nil)
}
