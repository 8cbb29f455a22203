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

type AssetRepository struct {
	collection *mongo.Collection
}

func NewAssetRepository(db *mongo.Database) *AssetRepository {
	return &AssetRepository{
		collection: db.Collection("assets"),
	}
}

type AssetFilter struct {
	Status     string
	Category   string
	AssignedTo string
}

func (f AssetFilter) query() (bson.M, error) {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.AssignedTo != "" {
		objectID, err := primitive.ObjectIDFromHex(f.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("%w user ID", ErrInvalidID)
		}
		query["assigned_to"] = objectID
	}
	return query, nil
}

func (r *AssetRepository) Create(asset *models.Asset) (*models.Asset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, asset)
	if err != nil {
		return nil, err
	}

	asset.ID = result.InsertedID.(primitive.ObjectID)
	return asset, nil
}

func (r *AssetRepository) FindByID(id string) (*models.Asset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w asset ID", ErrInvalidID)
	}

	var asset models.Asset
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("asset %w", ErrNotFound)
		}
		return nil, err
	}

	return &asset, nil
}

func (r *AssetRepository) FindByTag(assetTag string) (*models.Asset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var asset models.Asset
	err := r.collection.FindOne(ctx, bson.M{"asset_tag": assetTag}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("asset %w", ErrNotFound)
		}
		return nil, err
	}

	return &asset, nil
}

func (r *AssetRepository) Find(filter AssetFilter, page, limit int) ([]*models.Asset, error) {
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

	var assets []*models.Asset
	for cursor.Next(ctx) {
		var asset models.Asset
		if err := cursor.Decode(&asset); err != nil {
			return nil, err
		}
		assets = append(assets, &asset)
	}

	return assets, nil
}

func (r *AssetRepository) Count(filter AssetFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query, err := filter.query()
	if err != nil {
		return 0, err
	}

	return r.collection.CountDocuments(ctx, query)
}

func (r *AssetRepository) Update(id string, asset *models.Asset) (*models.Asset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w asset ID", ErrInvalidID)
	}

	asset.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": asset},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Asset
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("asset %w", ErrNotFound)
		}
		return nil, err
	}

	return &updated, nil
}

func (r *AssetRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w asset ID", ErrInvalidID)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("asset %w", ErrNotFound)
	}

	return nil
}
