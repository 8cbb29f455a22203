package services

import (
	"fmt"
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"
)

// UserService covers directory management for hr, it and admin users.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateUserRequest struct {
	FirstName  string     `json:"firstName,omitempty"`
	LastName   string     `json:"lastName,omitempty"`
	Department string     `json:"department,omitempty"`
	Position   string     `json:"position,omitempty"`
	Role       string     `json:"role,omitempty" validate:"omitempty,oneof=employee hr it manager admin"`
	ManagerID  string     `json:"managerId,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Process    string     `json:"processType,omitempty" validate:"omitempty,oneof=onboarding offboarding"`
}

func (s *UserService) GetUsers(filter repository.UserFilter, page, limit int) ([]*models.User, int64, error) {
	users, err := s.userRepo.Find(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *UserService) UpdateUser(id string, req *UpdateUserRequest, caller Actor) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Role != "" && req.Role != user.Role && !caller.hasRole(models.RoleAdmin) {
		return nil, permissionError("only admins can change roles")
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Department != "" {
		user.Department = req.Department
	}
	if req.Position != "" {
		user.Position = req.Position
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.ManagerID != "" {
		manager, err := s.userRepo.FindByID(req.ManagerID)
		if err != nil {
			return nil, fmt.Errorf("manager %w", repository.ErrNotFound)
		}
		user.ManagerID = &manager.ID
	}
	if req.StartDate != nil {
		user.Employment.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		user.Employment.EndDate = req.EndDate
	}
	if req.Process != "" {
		user.Employment.ProcessType = req.Process
	}

	user.UpdatedAt = now()
	return s.userRepo.Update(id, user)
}

// DeactivateUser soft-deletes an account. The record and its history stay in
// place; the user can no longer log in.
func (s *UserService) DeactivateUser(id string, caller Actor) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return err
	}

	if user.ID == caller.ID {
		return permissionError("cannot deactivate your own account")
	}

	return s.userRepo.Deactivate(id)
}
