package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/store-locator/internal/domain"
)

// TagRepo aggregates tag usage across the store corpus.
type TagRepo interface {
	// Counts returns how many stores carry each tag, most used first.
	// The order among equal counts is whatever the storage engine yields.
	Counts(ctx context.Context) ([]domain.TagCount, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

// Counts unnests every store's tags array and groups by tag value.
func (r *pgTagRepo) Counts(ctx context.Context) ([]domain.TagCount, error) {
	const q = `
		SELECT tag, count(*) AS n
		FROM stores, unnest(tags) AS tag
		GROUP BY tag
		ORDER BY n DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.Counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.TagCount{}
	for rows.Next() {
		var (
			tc domain.TagCount
			n  int64
		)
		if err := rows.Scan(&tc.Tag, &n); err != nil {
			return nil, fmt.Errorf("repo.TagRepo.Counts: scan: %w", err)
		}
		tc.Count = int(n)
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.Counts: rows: %w", err)
	}
	return counts, nil
}
