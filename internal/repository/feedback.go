package repository

import (
	"context"
	"fmt"
	"time"

	"onboard-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedbackRepository struct {
	collection *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{
		collection: db.Collection("feedback"),
	}
}

func (r *FeedbackRepository) Create(feedback *models.Feedback) (*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return nil, err
	}

	feedback.ID = result.InsertedID.(primitive.ObjectID)
	return feedback, nil
}

func (r *FeedbackRepository) FindByID(id string) (*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w feedback ID", ErrInvalidID)
	}

	var feedback models.Feedback
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("feedback %w", ErrNotFound)
		}
		return nil, err
	}

	return &feedback, nil
}

func (r *FeedbackRepository) Find(category string, page, limit int) ([]*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := bson.M{}
	if category != "" {
		query["category"] = category
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedbackList []*models.Feedback
	for cursor.Next(ctx) {
		var feedback models.Feedback
		if err := cursor.Decode(&feedback); err != nil {
			return nil, err
		}
		feedbackList = append(feedbackList, &feedback)
	}

	return feedbackList, nil
}

func (r *FeedbackRepository) Count(category string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := bson.M{}
	if category != "" {
		query["category"] = category
	}

	return r.collection.CountDocuments(ctx, query)
}
