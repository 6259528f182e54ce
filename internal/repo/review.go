package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/store-locator/internal/domain"
)

// MinRankedReviews is the smallest review count a store needs to be ranked.
// A single review is treated as noise.
const MinRankedReviews = 2

// ReviewRepo is read-only access to reviews written by the review subsystem.
type ReviewRepo interface {
	// ListByStore returns the reviews of one store, newest first.
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]domain.Review, error)

	// TopStores joins every store with its reviews, drops stores with fewer
	// than MinRankedReviews reviews, and returns up to limit summaries by
	// average rating descending. Ties keep whatever order the engine yields.
	TopStores(ctx context.Context, limit int) ([]domain.StoreSummary, error)
}

// pgReviewRepo is the Postgres implementation of ReviewRepo.
type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

// ListByStore returns every review of storeID.
func (r *pgReviewRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]domain.Review, error) {
	const q = `
		SELECT id, store_id, author_id, rating, text, created_at
		FROM reviews
		WHERE store_id = @store_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"store_id": storeID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByStore: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReviewRepo.ListByStore: scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByStore: rows: %w", err)
	}
	return reviews, nil
}

// TopStores computes review count and average rating per store in a single
// grouped join. The inner join is enough: the HAVING clause drops review-less
// stores anyway.
func (r *pgReviewRepo) TopStores(ctx context.Context, limit int) ([]domain.StoreSummary, error) {
	const q = `
		SELECT s.id, s.name, s.slug, s.description, s.tags, s.lng, s.lat, s.address,
		       s.photo, s.author_id, s.created_at, s.updated_at,
		       count(rv.id) AS review_count,
		       avg(rv.rating)::float8 AS average_rating
		FROM stores s
		JOIN reviews rv ON rv.store_id = s.id
		GROUP BY s.id
		HAVING count(rv.id) >= @min_reviews
		ORDER BY average_rating DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"min_reviews": MinRankedReviews, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.TopStores: %w", err)
	}
	defer rows.Close()

	summaries := []domain.StoreSummary{}
	for rows.Next() {
		var (
			count int64
			avg   float64
		)
		st, err := scanStore(rows, &count, &avg)
		if err != nil {
			return nil, fmt.Errorf("repo.ReviewRepo.TopStores: scan: %w", err)
		}
		summaries = append(summaries, domain.StoreSummary{
			Store:         st,
			ReviewCount:   int(count),
			AverageRating: &avg,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.TopStores: rows: %w", err)
	}
	return summaries, nil
}

// scanReview maps a single database row into a domain.Review.
func scanReview(s scanner) (domain.Review, error) {
	var (
		rv       domain.Review
		id       pgtype.UUID
		storeID  pgtype.UUID
		authorID pgtype.UUID
		rating   int16
	)
	err := s.Scan(&id, &storeID, &authorID, &rating, &rv.Text, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	rv.ID = uuid.UUID(id.Bytes)
	rv.StoreID = uuid.UUID(storeID.Bytes)
	rv.AuthorID = uuid.UUID(authorID.Bytes)
	rv.Rating = int(rating)
	return rv, nil
}
