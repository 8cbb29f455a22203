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

// ErrAssignmentNotFound is returned when a (user, training) pair has no
// assignment record.
var ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrNotFound)

type TrainingAssignmentRepository struct {
	collection *mongo.Collection
}

func NewTrainingAssignmentRepository(db *mongo.Database) *TrainingAssignmentRepository {
	return &TrainingAssignmentRepository{
		collection: db.Collection("training_assignments"),
	}
}

func (r *TrainingAssignmentRepository) Create(assignment *models.TrainingAssignment) (*models.TrainingAssignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return nil, err
	}

	assignment.ID = result.InsertedID.(primitive.ObjectID)
	return assignment, nil
}

func (r *TrainingAssignmentRepository) FindByUserAndTraining(userID, trainingID primitive.ObjectID) (*models.TrainingAssignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var assignment models.TrainingAssignment
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "training_id": trainingID}).Decode(&assignment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	return &assignment, nil
}

func (r *TrainingAssignmentRepository) FindByUser(userID primitive.ObjectID) ([]*models.TrainingAssignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []*models.TrainingAssignment
	for cursor.Next(ctx) {
		var assignment models.TrainingAssignment
		if err := cursor.Decode(&assignment); err != nil {
			return nil, err
		}
		assignments = append(assignments, &assignment)
	}

	return assignments, nil
}

func (r *TrainingAssignmentRepository) FindByTraining(trainingID primitive.ObjectID) ([]*models.TrainingAssignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"training_id": trainingID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []*models.TrainingAssignment
	for cursor.Next(ctx) {
		var assignment models.TrainingAssignment
		if err := cursor.Decode(&assignment); err != nil {
			return nil, err
		}
		assignments = append(assignments, &assignment)
	}

	return assignments, nil
}

func (r *TrainingAssignmentRepository) Update(assignment *models.TrainingAssignment) (*models.TrainingAssignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assignment.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": assignment.ID},
		bson.M{"$set": assignment},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.TrainingAssignment
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *TrainingAssignmentRepository) Delete(userID, trainingID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "training_id": trainingID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

func (r *TrainingAssignmentRepository) CountByTraining(trainingID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{"training_id": trainingID})
}
