package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AssetStatusAvailable   = "available"
	AssetStatusAssigned    = "assigned"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
	AssetStatusLost        = "lost"
)

const (
	AssetCategoryLaptop     = "laptop"
	AssetCategoryPhone      = "phone"
	AssetCategoryMonitor    = "monitor"
	AssetCategoryAccessCard = "access_card"
	AssetCategoryOther      = "other"
)

type Asset struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name" validate:"required"`
	AssetTag     string              `bson:"asset_tag" json:"assetTag" validate:"required"`
	Category     string              `bson:"category" json:"category" validate:"required,oneof=laptop phone monitor access_card other"`
	SerialNumber string              `bson:"serial_number,omitempty" json:"serialNumber,omitempty"`
	Status       string              `bson:"status" json:"status"`
	AssignedTo   *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	AssignedAt   *time.Time          `bson:"assigned_at,omitempty" json:"assignedAt,omitempty"`
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Maintenance  []MaintenanceEntry  `bson:"maintenance" json:"maintenance"`
	CreatedAt    time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updatedAt"`
}

type MaintenanceEntry struct {
	Description string             `bson:"description" json:"description"`
	ReportedBy  primitive.ObjectID `bson:"reported_by" json:"reportedBy"`
	ReportedAt  time.Time          `bson:"reported_at" json:"reportedAt"`
}
