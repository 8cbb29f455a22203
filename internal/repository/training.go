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

type TrainingRepository struct {
	collection *mongo.Collection
}

func NewTrainingRepository(db *mongo.Database) *TrainingRepository {
	return &TrainingRepository{
		collection: db.Collection("trainings"),
	}
}

type TrainingFilter struct {
	TrainingType string
	Status       string
}

func (f TrainingFilter) query() bson.M {
	query := bson.M{}
	if f.TrainingType != "" {
		query["training_type"] = f.TrainingType
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	return query
}

func (r *TrainingRepository) Create(training *models.Training) (*models.Training, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, training)
	if err != nil {
		return nil, err
	}

	training.ID = result.InsertedID.(primitive.ObjectID)
	return training, nil
}

func (r *TrainingRepository) FindByID(id string) (*models.Training, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w training ID", ErrInvalidID)
	}

	var training models.Training
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&training)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("training %w", ErrNotFound)
		}
		return nil, err
	}

	return &training, nil
}

func (r *TrainingRepository) Find(filter TrainingFilter, page, limit int) ([]*models.Training, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainings []*models.Training
	for cursor.Next(ctx) {
		var training models.Training
		if err := cursor.Decode(&training); err != nil {
			return nil, err
		}
		trainings = append(trainings, &training)
	}

	return trainings, nil
}

func (r *TrainingRepository) Count(filter TrainingFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, filter.query())
}

// FindActiveByTypes returns every active training whose type is in the given
// set; an empty set matches any type. Used by onboarding auto-provisioning
// and the catalog cache.
func (r *TrainingRepository) FindActiveByTypes(types []string) ([]*models.Training, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := bson.M{"status": models.TrainingStatusActive}
	if len(types) > 0 {
		query["training_type"] = bson.M{"$in": types}
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainings []*models.Training
	for cursor.Next(ctx) {
		var training models.Training
		if err := cursor.Decode(&training); err != nil {
			return nil, err
		}
		trainings = append(trainings, &training)
	}

	return trainings, nil
}

func (r *TrainingRepository) Update(id string, training *models.Training) (*models.Training, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w training ID", ErrInvalidID)
	}

	training.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": training},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Training
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("training %w", ErrNotFound)
		}
		return nil, err
	}

	return &updated, nil
}

func (r *TrainingRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w training ID", ErrInvalidID)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("training %w", ErrNotFound)
	}

	return nil
}
