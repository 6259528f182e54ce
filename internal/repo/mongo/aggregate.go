package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo"
)

var (
	_ repo.TagRepo    = (*TagRepository)(nil)
	_ repo.ReviewRepo = (*ReviewRepository)(nil)
	_ repo.GeoRepo    = (*GeoRepository)(nil)
)

// TagRepository implements repo.TagRepo with an $unwind/$group pipeline.
type TagRepository struct {
	stores *mongo.Collection
}

// NewTagRepository creates a Mongo-backed tag repository.
func NewTagRepository(db *mongo.Database, c Collections) *TagRepository {
	return &TagRepository{stores: db.Collection(c.Stores)}
}

// Counts returns how many stores carry each tag, most used first.
func (r *TagRepository) Counts(ctx context.Context) ([]domain.TagCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := r.stores.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo.TagRepository.Counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make([]domain.TagCount, 0)
	for cursor.Next(ctx) {
		var doc struct {
			Tag   string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo.TagRepository.Counts: decode: %w", err)
		}
		counts = append(counts, domain.TagCount{Tag: doc.Tag, Count: doc.Count})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo.TagRepository.Counts: cursor: %w", err)
	}
	return counts, nil
}

// ReviewRepository implements repo.ReviewRepo over the reviews collection.
type ReviewRepository struct {
	stores  *mongo.Collection
	reviews *mongo.Collection
}

// NewReviewRepository creates a Mongo-backed review repository.
func NewReviewRepository(db *mongo.Database, c Collections) *ReviewRepository {
	return &ReviewRepository{stores: db.Collection(c.Stores), reviews: db.Collection(c.Reviews)}
}

// ListByStore returns the reviews of storeID, newest first.
func (r *ReviewRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.reviews.Find(ctx, bson.M{"storeId": storeID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.ReviewRepository.ListByStore: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo.ReviewRepository.ListByStore: decode: %w", err)
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo.ReviewRepository.ListByStore: cursor: %w", err)
	}
	return reviews, nil
}

// TopStores looks up each store's reviews, keeps stores whose review array
// has at least repo.MinRankedReviews entries and sorts by the average rating.
func (r *ReviewRepository) TopStores(ctx context.Context, limit int) ([]domain.StoreSummary, error) {
	minIndex := fmt.Sprintf("reviews.%d", repo.MinRankedReviews-1)
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         r.reviews.Name(),
			"localField":   "_id",
			"foreignField": "storeId",
			"as":           "reviews",
		}}},
		{{Key: "$match", Value: bson.M{minIndex: bson.M{"$exists": true}}}},
		{{Key: "$addFields", Value: bson.M{
			"averageRating": bson.M{"$avg": "$reviews.rating"},
			"reviewCount":   bson.M{"$size": "$reviews"},
		}}},
		{{Key: "$project", Value: bson.M{"reviews": 0}}},
		{{Key: "$sort", Value: bson.M{"averageRating": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.stores.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo.ReviewRepository.TopStores: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := make([]domain.StoreSummary, 0)
	for cursor.Next(ctx) {
		var doc rankedStoreDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo.ReviewRepository.TopStores: decode: %w", err)
		}
		avg := doc.AverageRating
		summaries = append(summaries, domain.StoreSummary{
			Store:         mapStoreDocument(doc.StoreDocument),
			ReviewCount:   doc.ReviewCount,
			AverageRating: &avg,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo.ReviewRepository.TopStores: cursor: %w", err)
	}
	return summaries, nil
}

// GeoRepository implements repo.GeoRepo with $near on the 2dsphere index.
type GeoRepository struct {
	stores *mongo.Collection
}

// NewGeoRepository creates a Mongo-backed geo repository.
func NewGeoRepository(db *mongo.Database, c Collections) *GeoRepository {
	return &GeoRepository{stores: db.Collection(c.Stores)}
}

// Nearby returns up to limit stores within maxDistanceMeters of center.
// $near already yields documents nearest first.
func (r *GeoRepository) Nearby(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error) {
	filter := bson.M{"location": bson.M{"$near": bson.M{
		"$geometry": bson.M{
			"type":        domain.PointType,
			"coordinates": []float64{center.Lng, center.Lat},
		},
		"$maxDistance": maxDistanceMeters,
	}}}
	opts := options.Find().
		SetProjection(bson.M{"slug": 1, "name": 1, "description": 1, "location": 1, "photo": 1}).
		SetLimit(int64(limit))

	cursor, err := r.stores.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.GeoRepository.Nearby: %w", err)
	}
	defer cursor.Close(ctx)

	stores, err := decodeStores(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("mongo.GeoRepository.Nearby: %w", err)
	}
	out := make([]domain.StoreProjection, 0, len(stores))
	for _, s := range stores {
		out = append(out, s.Project())
	}
	return out, nil
}

// AddReview inserts a review document. Reviews are written by the review
// subsystem; this exists to seed development data and tests.
func (r *ReviewRepository) AddReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	if rv.Rating < domain.MinRating || rv.Rating > domain.MaxRating {
		return domain.Review{}, domain.NewValidationError("rating", "must be between 1 and 5")
	}
	n, err := r.stores.CountDocuments(ctx, bson.M{"_id": rv.StoreID.String()}, options.Count().SetLimit(1))
	if err != nil {
		return domain.Review{}, fmt.Errorf("mongo.ReviewRepository.AddReview: %w", err)
	}
	if n == 0 {
		return domain.Review{}, fmt.Errorf("mongo.ReviewRepository.AddReview: %w", domain.ErrNotFound)
	}
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = now()
	}
	rv.CreatedAt = rv.CreatedAt.UTC().Truncate(time.Millisecond)

	doc := ReviewDocument{
		ID:        rv.ID.String(),
		StoreID:   rv.StoreID.String(),
		AuthorID:  rv.AuthorID.String(),
		Rating:    rv.Rating,
		Text:      rv.Text,
		CreatedAt: rv.CreatedAt,
	}
	if _, err := r.reviews.InsertOne(ctx, doc); err != nil {
		return domain.Review{}, fmt.Errorf("mongo.ReviewRepository.AddReview: %w", err)
	}
	return rv, nil
}
