package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TrainingTypeOnboarding  = "onboarding"
	TrainingTypeOrientation = "orientation"
	TrainingTypeCompliance  = "compliance"
	TrainingTypeSkills      = "skills"
	TrainingTypeOther       = "other"
)

const (
	TrainingStatusActive   = "active"
	TrainingStatusInactive = "inactive"
	TrainingStatusArchived = "archived"
)

const (
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusOverdue    = "overdue"
	AssignmentStatusExpired    = "expired"
)

// Delivery methods for a training unit.
const (
	DeliveryOnline   = "online"
	DeliveryInPerson = "in_person"
)

type Training struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title" validate:"required"`
	Description     string             `bson:"description" json:"description"`
	TrainingType    string             `bson:"training_type" json:"trainingType" validate:"required,oneof=onboarding orientation compliance skills other"`
	Status          string             `bson:"status" json:"status" validate:"required,oneof=active inactive archived"`
	IsCompliance    bool               `bson:"is_compliance" json:"isCompliance"`
	DeliveryMethod  string             `bson:"delivery_method" json:"deliveryMethod"`
	DurationMinutes int                `bson:"duration_minutes" json:"durationMinutes"`
	RequiredFor     RequiredFor        `bson:"required_for" json:"requiredFor"`
	ScheduledAt     *time.Time         `bson:"scheduled_at,omitempty" json:"scheduledAt,omitempty"`
	CreatedBy       primitive.ObjectID `bson:"created_by" json:"createdBy"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// RequiredFor selects the audience of an onboarding training. The three
// criteria are combined with OR during auto-provisioning.
type RequiredFor struct {
	Departments  []string `bson:"departments" json:"departments"`
	Roles        []string `bson:"roles" json:"roles"`
	AllEmployees bool     `bson:"all_employees" json:"allEmployees"`
}

// AppliesTo reports whether a training's audience covers the given user.
func (r RequiredFor) AppliesTo(user *User) bool {
	if r.AllEmployees {
		return true
	}
	for _, d := range r.Departments {
		if d == user.Department {
			return true
		}
	}
	for _, role := range r.Roles {
		if role == user.Role {
			return true
		}
	}
	return false
}

// TrainingAssignment links one user to one training. The collection carries a
// unique index on (user_id, training_id), so a pair can never be assigned
// twice.
type TrainingAssignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainingID  primitive.ObjectID `bson:"training_id" json:"trainingId"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	AssignedBy  primitive.ObjectID `bson:"assigned_by" json:"assignedBy"`
	Status      string             `bson:"status" json:"status"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	StartedAt   *time.Time         `bson:"started_at,omitempty" json:"startedAt,omitempty"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Score       *float64           `bson:"score,omitempty" json:"score,omitempty"`
	Feedback    string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
