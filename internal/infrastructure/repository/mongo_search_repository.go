package repository

import (
	"context"
	"fmt"
	"time"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/infrastructure/repository/entity"
	"multimodal-product-discovery/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxToggleAttempts bounds the retries when a concurrent toggle wins the unique index race
const maxToggleAttempts = 3

// MongoSearchRepository implements SavedSearchRepository using MongoDB
type MongoSearchRepository struct {
	collection *mongo.Collection
}

// NewMongoSearchRepository creates a new MongoDB saved search repository
func NewMongoSearchRepository(db *mongo.Database) *MongoSearchRepository {
	return &MongoSearchRepository{
		collection: db.Collection("search"),
	}
}

var _ ports.SavedSearchRepository = (*MongoSearchRepository)(nil)

// EnsureIndexes creates the unique index on the toggle tuple.
// The settings row has an empty tuple and is left out by the partial filter.
func (r *MongoSearchRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "customerId", Value: 1},
			{Key: "shop", Value: 1},
			{Key: "productId", Value: 1},
		},
		Options: options.Index().
			SetName("uniq_search_tuple").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"customerId": bson.M{"$gt": ""}}),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	return nil
}

func tupleFilter(key domain.SearchKey) bson.M {
	return bson.M{
		"customerId": key.CustomerID,
		"shop":       key.Shop,
		"productId":  key.ProductID,
	}
}

// Find returns every row matching the tuple
func (r *MongoSearchRepository) Find(ctx context.Context, key domain.SearchKey) ([]*domain.SavedSearch, error) {
	cursor, err := r.collection.Find(ctx, tupleFilter(key))
	if err != nil {
		return nil, fmt.Errorf("failed to find saved searches: %w", err)
	}
	defer cursor.Close(ctx)

	searches := []*domain.SavedSearch{}
	for cursor.Next(ctx) {
		var doc entity.MongoSearchDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode saved search: %w", err)
		}
		searches = append(searches, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return searches, nil
}

// Toggle deletes the tuple's rows or inserts one under the unique index
func (r *MongoSearchRepository) Toggle(ctx context.Context, key domain.SearchKey) (bool, error) {
	filter := tupleFilter(key)
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		result, err := r.collection.DeleteMany(ctx, filter)
		if err != nil {
			return false, fmt.Errorf("failed to delete saved search: %w", err)
		}
		if result.DeletedCount > 0 {
			return false, nil
		}

		now := time.Now()
		doc := entity.MongoSearchDoc{
			ID:         uuid.NewString(),
			CustomerID: key.CustomerID,
			Shop:       key.Shop,
			ProductID:  key.ProductID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		_, err = r.collection.InsertOne(ctx, doc)
		if err == nil {
			return true, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return false, fmt.Errorf("failed to create saved search: %w", err)
		}
	}
	return false, domain.ErrToggleContention
}

// DeleteByCustomer removes every toggle of a customer in a shop
func (r *MongoSearchRepository) DeleteByCustomer(ctx context.Context, shop string, customerID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop, "customerId": customerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete customer saved searches: %w", err)
	}
	return result.DeletedCount, nil
}

// DeleteByShop removes every toggle of a shop
func (r *MongoSearchRepository) DeleteByShop(ctx context.Context, shop string) (int64, error) {
	if shop == "" {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop})
	if err != nil {
		return 0, fmt.Errorf("failed to delete shop saved searches: %w", err)
	}
	return result.DeletedCount, nil
}

// GetSettings returns the singleton settings row
func (r *MongoSearchRepository) GetSettings(ctx context.Context) (*domain.SavedSearch, error) {
	var doc entity.MongoSearchDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": domain.SettingsID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return doc.ToDomain(), nil
}

// UpsertSettings creates or updates the singleton settings row
func (r *MongoSearchRepository) UpsertSettings(ctx context.Context, settings domain.Settings) (*domain.SavedSearch, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":        settings.Name,
			"description": settings.Description,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"customerId": "",
			"shop":       "",
			"productId":  "",
			"createdAt":  now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc entity.MongoSearchDoc
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": domain.SettingsID}, update, opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return doc.ToDomain(), nil
}
