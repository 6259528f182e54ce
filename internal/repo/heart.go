package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/store-locator/internal/domain"
)

// HeartRepo stores the favourite stores of each account.
type HeartRepo interface {
	// Toggle hearts storeID for accountID, or removes the heart if it already
	// exists. It reports whether the store is hearted afterwards.
	// Returns domain.ErrNotFound if the store does not exist.
	Toggle(ctx context.Context, accountID, storeID uuid.UUID) (bool, error)

	// ListStores returns the stores hearted by accountID, most recently hearted first.
	ListStores(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error)
}

// pgHeartRepo is the Postgres implementation of HeartRepo.
type pgHeartRepo struct {
	db db
}

// NewHeartRepo constructs a HeartRepo backed by the provided db connection.
func NewHeartRepo(db db) HeartRepo {
	return &pgHeartRepo{db: db}
}

// Toggle deletes the heart if present; otherwise inserts it. The foreign key
// on hearts.store_id turns an unknown store into domain.ErrNotFound.
func (r *pgHeartRepo) Toggle(ctx context.Context, accountID, storeID uuid.UUID) (bool, error) {
	args := pgx.NamedArgs{"account_id": accountID, "store_id": storeID}

	tag, err := r.db.Exec(ctx, `DELETE FROM hearts WHERE account_id = @account_id AND store_id = @store_id`, args)
	if err != nil {
		return false, fmt.Errorf("repo.HeartRepo.Toggle: delete: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	const insert = `
		INSERT INTO hearts (account_id, store_id)
		VALUES (@account_id, @store_id)
		ON CONFLICT (account_id, store_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, insert, args); err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return false, fmt.Errorf("repo.HeartRepo.Toggle: %w", domain.ErrNotFound)
		}
		return false, fmt.Errorf("repo.HeartRepo.Toggle: insert: %w", err)
	}
	return true, nil
}

// ListStores joins hearts with stores for accountID.
func (r *pgHeartRepo) ListStores(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error) {
	const q = `
		SELECT s.id, s.name, s.slug, s.description, s.tags, s.lng, s.lat, s.address,
		       s.photo, s.author_id, s.created_at, s.updated_at
		FROM hearts h
		JOIN stores s ON s.id = h.store_id
		WHERE h.account_id = @account_id
		ORDER BY h.created_at DESC, s.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("repo.HeartRepo.ListStores: %w", err)
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HeartRepo.ListStores: scan: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HeartRepo.ListStores: rows: %w", err)
	}
	return stores, nil
}
