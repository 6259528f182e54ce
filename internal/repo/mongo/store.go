package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo"
)

var _ repo.StoreRepo = (*StoreRepository)(nil)

// StoreRepository implements repo.StoreRepo on the stores collection.
type StoreRepository struct {
	collection *mongo.Collection
}

// NewStoreRepository creates a Mongo-backed store repository.
func NewStoreRepository(db *mongo.Database, c Collections) *StoreRepository {
	return &StoreRepository{collection: db.Collection(c.Stores)}
}

// Create inserts a store with a fresh ID and timestamps.
func (r *StoreRepository) Create(ctx context.Context, s domain.Store) (domain.Store, error) {
	s.ID = uuid.New()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now()
	}
	s.CreatedAt = s.CreatedAt.UTC().Truncate(time.Millisecond)
	s.UpdatedAt = s.CreatedAt

	doc := newStoreDocument(s)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return domain.Store{}, fmt.Errorf("mongo.StoreRepository.Create: %w", translateWriteErr(err))
	}
	return mapStoreDocument(doc), nil
}

// GetByID returns the store with id.
func (r *StoreRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	s, err := r.findOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return domain.Store{}, fmt.Errorf("mongo.StoreRepository.GetByID: %w", err)
	}
	return s, nil
}

// GetBySlug returns the store with slug.
func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (domain.Store, error) {
	s, err := r.findOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return domain.Store{}, fmt.Errorf("mongo.StoreRepository.GetBySlug: %w", err)
	}
	return s, nil
}

// Update sets the mutable fields of a store and returns the updated document.
func (r *StoreRepository) Update(ctx context.Context, s domain.Store) (domain.Store, error) {
	doc := newStoreDocument(s)
	update := bson.M{"$set": bson.M{
		"name":        doc.Name,
		"slug":        doc.Slug,
		"description": doc.Description,
		"tags":        doc.Tags,
		"location":    doc.Location,
		"photo":       doc.Photo,
		"updatedAt":   now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated StoreDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": doc.ID}, update, opts).Decode(&updated)
	if err != nil {
		return domain.Store{}, fmt.Errorf("mongo.StoreRepository.Update: %w", translateReadErr(translateWriteErr(err)))
	}
	return mapStoreDocument(updated), nil
}

// ListPaged returns one page of stores, newest first.
func (r *StoreRepository) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Store, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))

	stores, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.StoreRepository.ListPaged: %w", err)
	}
	return stores, nil
}

// Count returns the number of stores.
func (r *StoreRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo.StoreRepository.Count: %w", err)
	}
	return n, nil
}

// Search runs a $text query over the weighted name/description index and
// sorts by text score.
func (r *StoreRepository) Search(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	score := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.D{{Key: "score", Value: score}}).
		SetLimit(int64(limit))

	stores, err := r.find(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.StoreRepository.Search: %w", err)
	}
	return stores, nil
}

// ListByTag returns stores carrying tag, newest first. An empty tag matches
// every store.
func (r *StoreRepository) ListByTag(ctx context.Context, tag string) ([]domain.Store, error) {
	filter := bson.M{}
	if tag != "" {
		filter["tags"] = tag
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})

	stores, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.StoreRepository.ListByTag: %w", err)
	}
	return stores, nil
}

// MatchingSlugs returns every slug equal to base or base with a numeric suffix.
func (r *StoreRepository) MatchingSlugs(ctx context.Context, base string, excludeID uuid.UUID) ([]string, error) {
	filter := bson.M{
		"slug": bson.M{"$regex": repo.SlugPattern(base), "$options": "i"},
		"_id":  bson.M{"$ne": excludeID.String()},
	}
	opts := options.Find().
		SetProjection(bson.M{"slug": 1}).
		SetSort(bson.D{{Key: "slug", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.StoreRepository.MatchingSlugs: %w", err)
	}
	defer cursor.Close(ctx)

	slugs := []string{}
	for cursor.Next(ctx) {
		var doc struct {
			Slug string `bson:"slug"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo.StoreRepository.MatchingSlugs: decode: %w", err)
		}
		slugs = append(slugs, doc.Slug)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo.StoreRepository.MatchingSlugs: cursor: %w", err)
	}
	return slugs, nil
}

func (r *StoreRepository) findOne(ctx context.Context, filter bson.M) (domain.Store, error) {
	var doc StoreDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.Store{}, translateReadErr(err)
	}
	return mapStoreDocument(doc), nil
}

func (r *StoreRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Store, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeStores(ctx, cursor)
}

// decodeStores drains a cursor of store documents. It always returns a
// non-nil slice on success.
func decodeStores(ctx context.Context, cursor *mongo.Cursor) ([]domain.Store, error) {
	stores := make([]domain.Store, 0)
	for cursor.Next(ctx) {
		var doc StoreDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		stores = append(stores, mapStoreDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	return stores, nil
}

// translateReadErr maps mongo.ErrNoDocuments to domain.ErrNotFound.
func translateReadErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

// translateWriteErr maps a duplicate key on the slug index to domain.ErrDuplicateSlug.
func translateWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", domain.ErrDuplicateSlug, err)
	}
	return err
}

// now truncates to BSON datetime precision so returned records equal what a
// later read decodes.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
