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

type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		collection: db.Collection("tasks"),
	}
}

type TaskFilter struct {
	AssignedTo  string
	Status      string
	ProcessType string
	Category    string
}

func (f TaskFilter) query() (bson.M, error) {
	query := bson.M{}
	if f.AssignedTo != "" {
		objectID, err := primitive.ObjectIDFromHex(f.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("%w user ID", ErrInvalidID)
		}
		query["assigned_to"] = objectID
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.ProcessType != "" {
		query["process_type"] = f.ProcessType
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	return query, nil
}

func (r *TaskRepository) Create(task *models.Task) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return nil, err
	}

	task.ID = result.InsertedID.(primitive.ObjectID)
	return task, nil
}

func (r *TaskRepository) FindByID(id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w task ID", ErrInvalidID)
	}

	var task models.Task
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task %w", ErrNotFound)
		}
		return nil, err
	}

	return &task, nil
}

func (r *TaskRepository) Find(filter TaskFilter, page, limit int) ([]*models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query, err := filter.query()
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*models.Task
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}

	return tasks, nil
}

func (r *TaskRepository) Count(filter TaskFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query, err := filter.query()
	if err != nil {
		return 0, err
	}

	return r.collection.CountDocuments(ctx, query)
}

func (r *TaskRepository) Update(id string, task *models.Task) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w task ID", ErrInvalidID)
	}

	task.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": task},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Task
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task %w", ErrNotFound)
		}
		return nil, err
	}

	return &updated, nil
}

func (r *TaskRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w task ID", ErrInvalidID)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("task %w", ErrNotFound)
	}

	return nil
}
