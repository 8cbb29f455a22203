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

type DepartmentCodeRepository struct {
	collection *mongo.Collection
}

func NewDepartmentCodeRepository(db *mongo.Database) *DepartmentCodeRepository {
	return &DepartmentCodeRepository{
		collection: db.Collection("department_codes"),
	}
}

func (r *DepartmentCodeRepository) Create(code *models.DepartmentCode) (*models.DepartmentCode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, code)
	if err != nil {
		return nil, err
	}

	code.ID = result.InsertedID.(primitive.ObjectID)
	return code, nil
}

func (r *DepartmentCodeRepository) FindByCode(code string) (*models.DepartmentCode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var deptCode models.DepartmentCode
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&deptCode)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("department code %w", ErrNotFound)
		}
		return nil, err
	}

	return &deptCode, nil
}

func (r *DepartmentCodeRepository) FindAll() ([]*models.DepartmentCode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var codes []*models.DepartmentCode
	for cursor.Next(ctx) {
		var code models.DepartmentCode
		if err := cursor.Decode(&code); err != nil {
			return nil, err
		}
		codes = append(codes, &code)
	}

	return codes, nil
}

// IncrementUseCount consumes one use of the code.
func (r *DepartmentCodeRepository) IncrementUseCount(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"use_count": 1}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("department code %w", ErrNotFound)
	}

	return nil
}

func (r *DepartmentCodeRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w department code ID", ErrInvalidID)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("department code %w", ErrNotFound)
	}

	return nil
}

// DeleteExpired removes every code past its expiry. Called by the cleanup
// service.
func (r *DepartmentCodeRepository) DeleteExpired(now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
