package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"
	"onboard-backend/pkg/email"
	"onboard-backend/pkg/jwt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const passwordResetTokenTTL = 24 * time.Hour

// AuthService handles registration, login and the password lifecycle.
type AuthService struct {
	userRepo *repository.UserRepository
	codeRepo *repository.DepartmentCodeRepository
	jwtUtil  *jwt.JWTUtil
	email    *email.EmailService
}

func NewAuthService(userRepo *repository.UserRepository, codeRepo *repository.DepartmentCodeRepository, jwtUtil *jwt.JWTUtil, emailService *email.EmailService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codeRepo: codeRepo,
		jwtUtil:  jwtUtil,
		email:    emailService,
	}
}

type RegisterRequest struct {
	Email          string     `json:"email" validate:"required,email"`
	Password       string     `json:"password" validate:"required,min=8"`
	FirstName      string     `json:"firstName" validate:"required"`
	LastName       string     `json:"lastName" validate:"required"`
	Role           string     `json:"role,omitempty" validate:"omitempty,oneof=employee hr it"`
	Department     string     `json:"department,omitempty"`
	Position       string     `json:"position,omitempty"`
	DepartmentCode string     `json:"departmentCode,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string           `json:"token"`
	User  *models.AuthUser `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Register creates a new account. Self-registration defaults to the employee
// role; claiming hr or it requires a valid department code, which binds the
// department and is consumed on success. Manager and admin accounts are
// never self-registered; they come from an admin promoting an existing user.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, errors.New("email already registered")
	}

	role := req.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if !selfRegisterableRole(role) {
		return nil, errors.New("role cannot be self-assigned")
	}
	department := req.Department

	var consumedCode *models.DepartmentCode
	if role == models.RoleHR || role == models.RoleIT {
		code, err := s.verifyDepartmentCode(req.DepartmentCode, role)
		if err != nil {
			return nil, err
		}
		department = code.Department
		consumedCode = code
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		ID:         primitive.NewObjectID(),
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   string(hashedPassword),
		Role:       role,
		Department: department,
		Position:   req.Position,
		IsActive:   true,
		Employment: models.Employment{
			StartDate:   req.StartDate,
			ProcessType: models.ProcessOnboarding,
		},
		CreatedAt: now(),
		UpdatedAt: now(),
	}

	created, err := s.userRepo.Create(user)
	if err != nil {
		return nil, err
	}

	if consumedCode != nil {
		if err := s.codeRepo.IncrementUseCount(consumedCode.ID); err != nil {
			fmt.Printf("Failed to record department code use: %v\n", err)
		}
	}

	if s.email != nil {
		if err := s.email.SendWelcomeEmail(created.Email, created.FirstName, created.Department); err != nil {
			fmt.Printf("Failed to send welcome email to %s: %v\n", created.Email, err)
		}
	}

	token, err := s.jwtUtil.GenerateToken(created.ID.Hex(), created.Email, created.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &AuthResponse{Token: token, User: toAuthUser(created)}, nil
}

// selfRegisterableRole limits registration to employee plus the code-gated
// hr and it roles. Everything else is only reachable through an admin's
// user update.
func selfRegisterableRole(role string) bool {
	switch role {
	case models.RoleEmployee, models.RoleHR, models.RoleIT:
		return true
	}
	return false
}

func (s *AuthService) verifyDepartmentCode(rawCode, role string) (*models.DepartmentCode, error) {
	if rawCode == "" {
		return nil, errors.New("department code required for this role")
	}

	code, err := s.codeRepo.FindByCode(rawCode)
	if err != nil {
		return nil, errors.New("invalid department code")
	}
	if code.Role != role {
		return nil, errors.New("department code does not grant this role")
	}
	if code.Expired(now()) {
		return nil, errors.New("department code expired")
	}
	if code.Exhausted() {
		return nil, errors.New("department code exhausted")
	}

	return code, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	lastLogin := now()
	user.LastLogin = &lastLogin
	if _, err := s.userRepo.Update(user.ID.Hex(), user); err != nil {
		fmt.Printf("Failed to record last login for %s: %v\n", user.Email, err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &AuthResponse{Token: token, User: toAuthUser(user)}, nil
}

func (s *AuthService) RefreshToken(tokenString string) (string, error) {
	return s.jwtUtil.RefreshToken(tokenString)
}

func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *AuthService) ChangePassword(userID string, req *ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return errors.New("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	_, err = s.userRepo.Update(user.ID.Hex(), user)
	return err
}

// ForgotPassword issues a reset token and emails it. An unknown email still
// returns success so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(req *ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return errors.New("failed to generate reset token")
	}
	rawToken := hex.EncodeToString(tokenBytes)
	hashedToken := hashResetToken(rawToken)

	expiry := now().Add(passwordResetTokenTTL)
	if err := s.userRepo.UpdatePasswordResetToken(user.Email, hashedToken, expiry); err != nil {
		return err
	}

	if s.email != nil {
		if err := s.email.SendPasswordResetEmail(user.Email, rawToken); err != nil {
			fmt.Printf("Failed to send password reset email to %s: %v\n", user.Email, err)
		}
	}

	return nil
}

// ResetPassword consumes a reset token. Only the hash is stored, so the
// candidate token is hashed and compared against every outstanding record.
func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	hashedToken := hashResetToken(req.Token)

	users, err := s.userRepo.FindWithResetTokens()
	if err != nil {
		return err
	}

	var match *models.User
	for _, user := range users {
		if user.PasswordResetToken == hashedToken {
			match = user
			break
		}
	}

	if match == nil {
		return errors.New("invalid or expired reset token")
	}
	if match.PasswordResetExpiry == nil || now().After(*match.PasswordResetExpiry) {
		return errors.New("invalid or expired reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	match.Password = string(hashedPassword)
	if _, err := s.userRepo.Update(match.ID.Hex(), match); err != nil {
		return err
	}

	return s.userRepo.ClearPasswordResetToken(match.ID.Hex())
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func toAuthUser(user *models.User) *models.AuthUser {
	return &models.AuthUser{
		ID:         user.ID.Hex(),
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		Department: user.Department,
	}
}
