package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationStatusUnread   = "unread"
	NotificationStatusRead     = "read"
	NotificationStatusArchived = "archived"
)

const (
	NotificationTypeTask     = "task"
	NotificationTypeTraining = "training"
	NotificationTypeAccess   = "access_request"
	NotificationTypeAsset    = "asset"
	NotificationTypeDocument = "document"
	NotificationTypeGeneral  = "general"
)

const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
	NotificationPriorityUrgent = "urgent"
)

type Notification struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Recipient     primitive.ObjectID  `bson:"recipient" json:"recipient"`
	Sender        *primitive.ObjectID `bson:"sender,omitempty" json:"sender,omitempty"`
	Title         string              `bson:"title" json:"title"`
	Message       string              `bson:"message" json:"message"`
	Type          string              `bson:"type" json:"type"`
	Priority      string              `bson:"priority" json:"priority"`
	Status        string              `bson:"status" json:"status"`
	ReadAt        *time.Time          `bson:"read_at,omitempty" json:"readAt,omitempty"`
	RelatedObject *RelatedObject      `bson:"related_object,omitempty" json:"relatedObject,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updatedAt"`
}

// RelatedObject points a notification at the entity that produced it.
type RelatedObject struct {
	ObjectType string             `bson:"object_type" json:"objectType"`
	ObjectID   primitive.ObjectID `bson:"object_id" json:"objectId"`
	Link       string             `bson:"link,omitempty" json:"link,omitempty"`
}
