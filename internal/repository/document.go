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

type DocumentRepository struct {
	collection *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{
		collection: db.Collection("documents"),
	}
}

type DocumentFilter struct {
	Owner    string
	Category string
}

func (f DocumentFilter) query() (bson.M, error) {
	query := bson.M{}
	if f.Owner != "" {
		objectID, err := primitive.ObjectIDFromHex(f.Owner)
		if err != nil {
			return nil, fmt.Errorf("%w user ID", ErrInvalidID)
		}
		query["owner"] = objectID
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	return query, nil
}

func (r *DocumentRepository) Create(document *models.Document) (*models.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, document)
	if err != nil {
		return nil, err
	}

	document.ID = result.InsertedID.(primitive.ObjectID)
	return document, nil
}

func (r *DocumentRepository) FindByID(id string) (*models.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w document ID", ErrInvalidID)
	}

	var document models.Document
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&document)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("document %w", ErrNotFound)
		}
		return nil, err
	}

	return &document, nil
}

func (r *DocumentRepository) Find(filter DocumentFilter, page, limit int) ([]*models.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query, err := filter.query()
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var documents []*models.Document
	for cursor.Next(ctx) {
		var document models.Document
		if err := cursor.Decode(&document); err != nil {
			return nil, err
		}
		documents = append(documents, &document)
	}

	return documents, nil
}

func (r *DocumentRepository) Count(filter DocumentFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query, err := filter.query()
	if err != nil {
		return 0, err
	}

	return r.collection.CountDocuments(ctx, query)
}

func (r *DocumentRepository) Update(id string, document *models.Document) (*models.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w document ID", ErrInvalidID)
	}

	document.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": document},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Document
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("document %w", ErrNotFound)
		}
		return nil, err
	}

	return &updated, nil
}

func (r *DocumentRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w document ID", ErrInvalidID)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("document %w", ErrNotFound)
	}

	return nil
}
