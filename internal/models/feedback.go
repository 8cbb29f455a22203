package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FeedbackCategoryOnboarding  = "onboarding"
	FeedbackCategoryOffboarding = "offboarding"
	FeedbackCategoryTraining    = "training"
	FeedbackCategoryGeneral     = "general"
)

type Feedback struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author      primitive.ObjectID `bson:"author" json:"author"`
	Category    string             `bson:"category" json:"category"`
	Rating      int                `bson:"rating" json:"rating"`
	Comment     string             `bson:"comment" json:"comment"`
	SubmittedAt time.Time          `bson:"submitted_at" json:"submittedAt"`
}
