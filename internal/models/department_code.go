package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DepartmentCode is a short-lived shared secret that gates self-registration
// under a privileged role. Expired codes are purged by the cleanup service.
type DepartmentCode struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code       string             `bson:"code" json:"code"`
	Role       string             `bson:"role" json:"role"`
	Department string             `bson:"department" json:"department"`
	ExpiresAt  time.Time          `bson:"expires_at" json:"expiresAt"`
	MaxUses    int                `bson:"max_uses" json:"maxUses"`
	UseCount   int                `bson:"use_count" json:"useCount"`
	CreatedBy  primitive.ObjectID `bson:"created_by" json:"createdBy"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

func (c *DepartmentCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c *DepartmentCode) Exhausted() bool {
	return c.MaxUses > 0 && c.UseCount >= c.MaxUses
}
