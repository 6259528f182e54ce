package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// slugIndex is the unique index backing slug uniqueness.
const slugIndex = "uniq_store_slug"

// EnsureIndexes creates every index the repos rely on. It is idempotent and
// runs on startup in place of SQL migrations.
func EnsureIndexes(ctx context.Context, db *mongo.Database, c Collections) error {
	storeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName(slugIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("txt_store_name_description").SetWeights(bson.D{{Key: "name", Value: 2}, {Key: "description", Value: 1}}),
		},
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("geo_store_location"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_store_tags"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_store_created"),
		},
	}
	if _, err := db.Collection(c.Stores).Indexes().CreateMany(ctx, storeIndexes); err != nil {
		return fmt.Errorf("mongo.EnsureIndexes: stores: %w", err)
	}

	if _, err := db.Collection(c.Reviews).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_review_store_created"),
	}); err != nil {
		return fmt.Errorf("mongo.EnsureIndexes: reviews: %w", err)
	}

	if _, err := db.Collection(c.Hearts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "accountId", Value: 1}, {Key: "storeId", Value: 1}},
		Options: options.Index().SetName("uniq_heart_account_store").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("mongo.EnsureIndexes: hearts: %w", err)
	}
	return nil
}
