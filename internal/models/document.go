package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DocumentCategoryContract   = "contract"
	DocumentCategoryPolicy     = "policy"
	DocumentCategoryIdentity   = "identity"
	DocumentCategoryCompliance = "compliance"
	DocumentCategoryOther      = "other"
)

type Document struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title             string              `bson:"title" json:"title"`
	Category          string              `bson:"category" json:"category"`
	Owner             primitive.ObjectID  `bson:"owner" json:"owner"`
	UploadedBy        primitive.ObjectID  `bson:"uploaded_by" json:"uploadedBy"`
	FileName          string              `bson:"file_name" json:"fileName"`
	FilePath          string              `bson:"file_path" json:"-"`
	MimeType          string              `bson:"mime_type" json:"mimeType"`
	SizeBytes         int64               `bson:"size_bytes" json:"sizeBytes"`
	RequiresSignature bool                `bson:"requires_signature" json:"requiresSignature"`
	SignedBy          *primitive.ObjectID `bson:"signed_by,omitempty" json:"signedBy,omitempty"`
	SignedAt          *time.Time          `bson:"signed_at,omitempty" json:"signedAt,omitempty"`
	CreatedAt         time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updated_at" json:"updatedAt"`
}

// Signed reports whether the signature workflow has finished.
func (d *Document) Signed() bool {
	return d.SignedAt != nil
}
