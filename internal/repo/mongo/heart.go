package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo"
)

var _ repo.HeartRepo = (*HeartRepository)(nil)

// HeartRepository implements repo.HeartRepo over the hearts collection.
type HeartRepository struct {
	stores *mongo.Collection
	hearts *mongo.Collection
}

// NewHeartRepository creates a Mongo-backed heart repository.
func NewHeartRepository(db *mongo.Database, c Collections) *HeartRepository {
	return &HeartRepository{stores: db.Collection(c.Stores), hearts: db.Collection(c.Hearts)}
}

// Toggle removes the heart if present; otherwise inserts it. The unique
// (accountId, storeId) index absorbs a concurrent insert of the same heart.
func (r *HeartRepository) Toggle(ctx context.Context, accountID, storeID uuid.UUID) (bool, error) {
	key := bson.M{"accountId": accountID.String(), "storeId": storeID.String()}

	res, err := r.hearts.DeleteOne(ctx, key)
	if err != nil {
		return false, fmt.Errorf("mongo.HeartRepository.Toggle: delete: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	n, err := r.stores.CountDocuments(ctx, bson.M{"_id": storeID.String()}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongo.HeartRepository.Toggle: %w", err)
	}
	if n == 0 {
		return false, fmt.Errorf("mongo.HeartRepository.Toggle: %w", domain.ErrNotFound)
	}

	doc := HeartDocument{AccountID: accountID.String(), StoreID: storeID.String(), CreatedAt: now()}
	if _, err := r.hearts.InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
		return false, fmt.Errorf("mongo.HeartRepository.Toggle: insert: %w", err)
	}
	return true, nil
}

// ListStores returns the stores hearted by accountID, most recently hearted first.
func (r *HeartRepository) ListStores(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"accountId": accountID.String()}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "storeId", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.stores.Name(),
			"localField":   "storeId",
			"foreignField": "_id",
			"as":           "store",
		}}},
		{{Key: "$unwind", Value: "$store"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$store"}}},
	}

	cursor, err := r.hearts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo.HeartRepository.ListStores: %w", err)
	}
	defer cursor.Close(ctx)

	stores, err := decodeStores(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("mongo.HeartRepository.ListStores: %w", err)
	}
	return stores, nil
}
