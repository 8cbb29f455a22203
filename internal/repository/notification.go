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

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

type NotificationFilter struct {
	Status string
	Type   string
}

func (r *NotificationRepository) Create(notification *models.Notification) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}

	notification.ID = result.InsertedID.(primitive.ObjectID)
	return notification, nil
}

func (r *NotificationRepository) CreateMany(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	docs := make([]interface{}, len(notifications))
	for i, n := range notifications {
		docs[i] = n
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *NotificationRepository) FindByID(id string) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w notification ID", ErrInvalidID)
	}

	var notification models.Notification
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("notification %w", ErrNotFound)
		}
		return nil, err
	}

	return &notification, nil
}

func (r *NotificationRepository) FindByRecipient(recipient primitive.ObjectID, filter NotificationFilter, page, limit int) ([]*models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := bson.M{"recipient": recipient}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
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

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var notification models.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, err
		}
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *NotificationRepository) CountByRecipient(recipient primitive.ObjectID, filter NotificationFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := bson.M{"recipient": recipient}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	return r.collection.CountDocuments(ctx, query)
}

func (r *NotificationRepository) CountUnread(recipient primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{
		"recipient": recipient,
		"status":    models.NotificationStatusUnread,
	})
}

// MarkRead advances a notification to read. The filter keeps the transition
// monotonic: an archived notification is left untouched.
func (r *NotificationRepository) MarkRead(id string, recipient primitive.ObjectID) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w notification ID", ErrInvalidID)
	}

	now := time.Now()
	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":       objectID,
			"recipient": recipient,
			"status":    models.NotificationStatusUnread,
		},
		bson.M{
			"$set": bson.M{
				"status":     models.NotificationStatusRead,
				"read_at":    now,
				"updated_at": now,
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Notification
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			// Already read/archived, or not owned by the caller; report
			// current state if the document exists at all
			return r.findOwned(objectID, recipient)
		}
		return nil, err
	}

	return &updated, nil
}

func (r *NotificationRepository) findOwned(id, recipient primitive.ObjectID) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "recipient": recipient}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("notification %w", ErrNotFound)
		}
		return nil, err
	}

	return &notification, nil
}

func (r *NotificationRepository) MarkAllRead(recipient primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	result, err := r.collection.UpdateMany(
		ctx,
		bson.M{"recipient": recipient, "status": models.NotificationStatusUnread},
		bson.M{
			"$set": bson.M{
				"status":     models.NotificationStatusRead,
				"read_at":    now,
				"updated_at": now,
			},
		},
	)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}

// Delete removes a notification, but only for its recipient.
func (r *NotificationRepository) Delete(id string, recipient primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w notification ID", ErrInvalidID)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "recipient": recipient})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("notification %w", ErrNotFound)
	}

	return nil
}
