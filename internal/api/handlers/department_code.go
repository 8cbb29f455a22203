package handlers

import (
	"net/http"

	"onboard-backend/internal/services"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type DepartmentCodeHandler struct {
	codeService *services.DepartmentCodeService
	validator   *validator.Validate
}

func NewDepartmentCodeHandler(codeService *services.DepartmentCodeService) *DepartmentCodeHandler {
	return &DepartmentCodeHandler{
		codeService: codeService,
		validator:   validator.New(),
	}
}

func (h *DepartmentCodeHandler) GetCodes(c *gin.Context) {
	codes, err := h.codeService.GetCodes()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve codes", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Codes retrieved", codes)
}

func (h *DepartmentCodeHandler) CreateCode(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req services.CreateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	code, err := h.codeService.CreateCode(&req, actor)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create code", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Code created", code)
}

// VerifyCode is public; registration clients call it before submitting
func (h *DepartmentCodeHandler) VerifyCode(c *gin.Context) {
	var req services.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	code, err := h.codeService.VerifyCode(&req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Code verification failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Code valid", map[string]string{
		"role":       code.Role,
		"department": code.Department,
	})
}

func (h *DepartmentCodeHandler) DeleteCode(c *gin.Context) {
	if err := h.codeService.DeleteCode(c.Param("id")); err != nil {
		utils.ErrorResponse(c, statusForError(err), "Failed to delete code", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Code deleted", nil)
}
