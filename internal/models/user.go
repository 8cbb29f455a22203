package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles gate every route through the capability table in the middleware
// package. A user carries exactly one role.
const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleIT       = "it"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

const (
	ProcessOnboarding  = "onboarding"
	ProcessOffboarding = "offboarding"
)

type User struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email               string              `bson:"email" json:"email" validate:"required,email"`
	FirstName           string              `bson:"first_name" json:"firstName" validate:"required"`
	LastName            string              `bson:"last_name" json:"lastName" validate:"required"`
	Password            string              `bson:"password" json:"-"`
	Role                string              `bson:"role" json:"role" validate:"required,oneof=employee hr it manager admin"`
	Department          string              `bson:"department" json:"department"`
	Position            string              `bson:"position,omitempty" json:"position,omitempty"`
	ManagerID           *primitive.ObjectID `bson:"manager_id,omitempty" json:"managerId,omitempty"`
	IsActive            bool                `bson:"is_active" json:"isActive"`
	Employment          Employment          `bson:"employment" json:"employment"`
	PasswordResetToken  string              `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpiry *time.Time          `bson:"password_reset_expiry,omitempty" json:"-"`
	LastLogin           *time.Time          `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt           time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updatedAt"`
}

type Employment struct {
	StartDate   *time.Time `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`
	ProcessType string     `bson:"process_type,omitempty" json:"processType,omitempty"`
}

// AuthUser is the identity payload returned to clients after login.
type AuthUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Department string `json:"department"`
}
