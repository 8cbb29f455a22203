package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AccessRequestStatusPending    = "pending"
	AccessRequestStatusApproved   = "approved"
	AccessRequestStatusRejected   = "rejected"
	AccessRequestStatusInProgress = "in_progress"
	AccessRequestStatusCompleted  = "completed"
	AccessRequestStatusCancelled  = "cancelled"
)

const (
	ApprovalDecisionApproved = "approved"
	ApprovalDecisionRejected = "rejected"
)

type AccessRequest struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Requester     primitive.ObjectID  `bson:"requester" json:"requester"`
	SystemName    string              `bson:"system_name" json:"systemName" validate:"required"`
	AccessLevel   string              `bson:"access_level" json:"accessLevel" validate:"required"`
	Justification string              `bson:"justification" json:"justification"`
	Status        string              `bson:"status" json:"status"`
	AssignedTo    *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	Approvals     []Approval          `bson:"approvals" json:"approvals"`
	CreatedAt     time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updatedAt"`
}

// Approval records one approver's decision. One approval per approver is
// enforced in the service, not in the schema.
type Approval struct {
	Approver primitive.ObjectID `bson:"approver" json:"approver"`
	Decision string             `bson:"decision" json:"decision"`
	Comment  string             `bson:"comment,omitempty" json:"comment,omitempty"`
	At       time.Time          `bson:"at" json:"at"`
}
