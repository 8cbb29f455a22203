package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusOverdue    = "overdue"
)

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	ProcessType string             `bson:"process_type" json:"processType" validate:"required,oneof=onboarding offboarding"`
	AssignedTo  primitive.ObjectID `bson:"assigned_to" json:"assignedTo" validate:"required"`
	AssignedBy  primitive.ObjectID `bson:"assigned_by" json:"assignedBy" validate:"required"`
	Status      string             `bson:"status" json:"status" validate:"required,oneof=pending in-progress completed overdue"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Attachments []string           `bson:"attachments" json:"attachments"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
