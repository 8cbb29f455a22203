package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultCodeTTL = 7 * 24 * time.Hour

// DepartmentCodeService issues and verifies the registration codes that gate
// the hr and it roles.
type DepartmentCodeService struct {
	codeRepo *repository.DepartmentCodeRepository
}

func NewDepartmentCodeService(codeRepo *repository.DepartmentCodeRepository) *DepartmentCodeService {
	return &DepartmentCodeService{codeRepo: codeRepo}
}

type CreateCodeRequest struct {
	Role       string     `json:"role" validate:"required,oneof=hr it"`
	Department string     `json:"department" validate:"required"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	MaxUses    int        `json:"maxUses,omitempty" validate:"omitempty,min=0"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required"`
	Role string `json:"role" validate:"required,oneof=hr it"`
}

func (s *DepartmentCodeService) CreateCode(req *CreateCodeRequest, createdBy Actor) (*models.DepartmentCode, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.New("failed to generate code")
	}

	expiresAt := now().Add(defaultCodeTTL)
	if req.ExpiresAt != nil {
		if req.ExpiresAt.Before(now()) {
			return nil, invalidError("expiry must be in the future")
		}
		expiresAt = *req.ExpiresAt
	}

	code := &models.DepartmentCode{
		ID:         primitive.NewObjectID(),
		Code:       hex.EncodeToString(raw),
		Role:       req.Role,
		Department: req.Department,
		ExpiresAt:  expiresAt,
		MaxUses:    req.MaxUses,
		CreatedBy:  createdBy.ID,
		CreatedAt:  now(),
	}

	return s.codeRepo.Create(code)
}

func (s *DepartmentCodeService) GetCodes() ([]*models.DepartmentCode, error) {
	return s.codeRepo.FindAll()
}

// VerifyCode checks a code without consuming a use. Registration performs the
// same checks and then increments the use count.
func (s *DepartmentCodeService) VerifyCode(req *VerifyCodeRequest) (*models.DepartmentCode, error) {
	code, err := s.codeRepo.FindByCode(req.Code)
	if err != nil {
		return nil, invalidError("invalid department code")
	}
	if code.Role != req.Role {
		return nil, invalidError("department code does not grant this role")
	}
	if code.Expired(now()) {
		return nil, invalidError("department code expired")
	}
	if code.Exhausted() {
		return nil, invalidError("department code exhausted")
	}

	return code, nil
}

func (s *DepartmentCodeService) DeleteCode(id string) error {
	return s.codeRepo.Delete(id)
}
