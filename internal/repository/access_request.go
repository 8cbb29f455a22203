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

type AccessRequestRepository struct {
	collection *mongo.Collection
}

func NewAccessRequestRepository(db *mongo.Database) *AccessRequestRepository {
	return &AccessRequestRepository{
		collection: db.Collection("access_requests"),
	}
}

type AccessRequestFilter struct {
	Requester string
	Status    string
}

func (f AccessRequestFilter) query() (bson.M, error) {
	query := bson.M{}
	if f.Requester != "" {
		objectID, err := primitive.ObjectIDFromHex(f.Requester)
		if err != nil {
			return nil, fmt.Errorf("%w user ID", ErrInvalidID)
		}
		query["requester"] = objectID
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	return query, nil
}

func (r *AccessRequestRepository) Create(request *models.AccessRequest) (*models.AccessRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return nil, err
	}

	request.ID = result.InsertedID.(primitive.ObjectID)
	return request, nil
}

func (r *AccessRequestRepository) FindByID(id string) (*models.AccessRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w access request ID", ErrInvalidID)
	}

	var request models.AccessRequest
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("access request %w", ErrNotFound)
		}
		return nil, err
	}

	return &request, nil
}

func (r *AccessRequestRepository) Find(filter AccessRequestFilter, page, limit int) ([]*models.AccessRequest, error) {
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

	var requests []*models.AccessRequest
	for cursor.Next(ctx) {
		var request models.AccessRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, err
		}
		requests = append(requests, &request)
	}

	return requests, nil
}

func (r *AccessRequestRepository) Count(filter AccessRequestFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query, err := filter.query()
	if err != nil {
		return 0, err
	}

	return r.collection.CountDocuments(ctx, query)
}

func (r *AccessRequestRepository) Update(id string, request *models.AccessRequest) (*models.AccessRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w access request ID", ErrInvalidID)
	}

	request.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": request},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.AccessRequest
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("access request %w", ErrNotFound)
		}
		return nil, err
	}

	return &updated, nil
}
