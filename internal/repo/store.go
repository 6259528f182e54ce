package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/store-locator/internal/domain"
)

// StoreRepo defines the persistence operations for Stores.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock or the in-memory store.
type StoreRepo interface {
	// Create inserts a new store and returns the persisted record (with
	// generated id, created_at, and updated_at populated).
	// Returns domain.ErrDuplicateSlug if the slug is already taken.
	Create(ctx context.Context, store domain.Store) (domain.Store, error)

	// GetByID retrieves a single store by its UUID primary key.
	// Returns domain.ErrNotFound if no store with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error)

	// GetBySlug retrieves a single store by slug.
	// Returns domain.ErrNotFound if no store has that slug.
	GetBySlug(ctx context.Context, slug string) (domain.Store, error)

	// Update overwrites the mutable fields of an existing store and returns the
	// updated record. Returns domain.ErrNotFound if the store does not exist and
	// domain.ErrDuplicateSlug if the new slug is already taken.
	Update(ctx context.Context, store domain.Store) (domain.Store, error)

	// ListPaged returns one page of stores ordered by created_at descending.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Store, error)

	// Count returns the total number of stores.
	Count(ctx context.Context) (int64, error)

	// Search returns up to limit stores matching query over name and description,
	// most relevant first.
	Search(ctx context.Context, query string, limit int) ([]domain.Store, error)

	// ListByTag returns the stores carrying tag, newest first.
	// An empty tag returns every store.
	ListByTag(ctx context.Context, tag string) ([]domain.Store, error)

	// MatchingSlugs returns every slug matching ^base(-[0-9]+)?$ case-insensitively,
	// ignoring the store identified by excludeID (pass uuid.Nil on create).
	MatchingSlugs(ctx context.Context, base string, excludeID uuid.UUID) ([]string, error)
}

// pgStoreRepo is the Postgres implementation of StoreRepo.
type pgStoreRepo struct {
	db db
}

// NewStoreRepo constructs a StoreRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStoreRepo(db db) StoreRepo {
	return &pgStoreRepo{db: db}
}

// storeColumns is the column list scanStore expects, in order.
const storeColumns = `id, name, slug, description, tags, lng, lat, address, photo, author_id, created_at, updated_at`

// Create inserts a new store row and returns the full persisted record.
func (r *pgStoreRepo) Create(ctx context.Context, store domain.Store) (domain.Store, error) {
	const q = `
		INSERT INTO stores (name, slug, description, tags, location_type, lng, lat, address, photo, author_id)
		VALUES (@name, @slug, @description, @tags, 'Point', @lng, @lat, @address, @photo, @author_id)
		RETURNING ` + storeColumns

	row := r.db.QueryRow(ctx, q, storeArgs(store))
	result, err := scanStore(row)
	if err != nil {
		return domain.Store{}, fmt.Errorf("repo.StoreRepo.Create: %w", translateWriteErr(err))
	}
	return result, nil
}

// GetByID retrieves a store by primary key.
func (r *pgStoreRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	q := `SELECT ` + storeColumns + ` FROM stores WHERE id = @id`

	result, err := scanStore(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Store{}, fmt.Errorf("repo.StoreRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetBySlug retrieves a store by its unique slug.
func (r *pgStoreRepo) GetBySlug(ctx context.Context, slug string) (domain.Store, error) {
	q := `SELECT ` + storeColumns + ` FROM stores WHERE slug = @slug`

	result, err := scanStore(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Store{}, fmt.Errorf("repo.StoreRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a store and returns the updated record.
// location_type is re-asserted to 'Point' on every update.
func (r *pgStoreRepo) Update(ctx context.Context, store domain.Store) (domain.Store, error) {
	const q = `
		UPDATE stores
		SET name          = @name,
		    slug          = @slug,
		    description   = @description,
		    tags          = @tags,
		    location_type = 'Point',
		    lng           = @lng,
		    lat           = @lat,
		    address       = @address,
		    photo         = @photo,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + storeColumns

	args := storeArgs(store)
	args["id"] = store.ID

	result, err := scanStore(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Store{}, fmt.Errorf("repo.StoreRepo.Update: %w", translateWriteErr(err))
	}
	return result, nil
}

// ListPaged returns one page of stores, newest first.
func (r *pgStoreRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Store, error) {
	q := `SELECT ` + storeColumns + `
		FROM stores
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	stores, err := r.queryStores(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, fmt.Errorf("repo.StoreRepo.ListPaged: %w", err)
	}
	return stores, nil
}

// Count returns the number of stores.
func (r *pgStoreRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM stores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StoreRepo.Count: %w", err)
	}
	return n, nil
}

// Search ranks stores against the generated search tsvector (name weighted
// above description) using websearch syntax, so user input never produces a
// tsquery syntax error.
func (r *pgStoreRepo) Search(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	q := `SELECT ` + storeColumns + `
		FROM stores, websearch_to_tsquery('english', @query) AS query
		WHERE search @@ query
		ORDER BY ts_rank(search, query) DESC
		LIMIT @limit`

	stores, err := r.queryStores(ctx, q, pgx.NamedArgs{"query": query, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.StoreRepo.Search: %w", err)
	}
	return stores, nil
}

// ListByTag returns stores whose tags array contains tag, newest first.
func (r *pgStoreRepo) ListByTag(ctx context.Context, tag string) ([]domain.Store, error) {
	q := `SELECT ` + storeColumns + `
		FROM stores
		WHERE @tag = '' OR tags @> ARRAY[@tag]::text[]
		ORDER BY created_at DESC, id`

	stores, err := r.queryStores(ctx, q, pgx.NamedArgs{"tag": tag})
	if err != nil {
		return nil, fmt.Errorf("repo.StoreRepo.ListByTag: %w", err)
	}
	return stores, nil
}

// MatchingSlugs returns slugs equal to base or base followed by a numeric suffix.
func (r *pgStoreRepo) MatchingSlugs(ctx context.Context, base string, excludeID uuid.UUID) ([]string, error) {
	const q = `
		SELECT slug
		FROM stores
		WHERE slug ~* @pattern
		  AND id <> @exclude_id
		ORDER BY slug`

	args := pgx.NamedArgs{
		"pattern":    SlugPattern(base),
		"exclude_id": excludeID,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.StoreRepo.MatchingSlugs: %w", err)
	}
	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repo.StoreRepo.MatchingSlugs: rows: %w", err)
	}
	return slugs, nil
}

// SlugPattern returns the anchored regular expression matching base and its
// numbered variants. The same expression is valid for Postgres, MongoDB and Go.
func SlugPattern(base string) string {
	return `^` + regexp.QuoteMeta(base) + `(-[0-9]+)?$`
}

// queryStores runs q and scans every row into a domain.Store.
// It always returns a non-nil slice on success.
func (r *pgStoreRepo) queryStores(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Store, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return stores, nil
}

// storeArgs maps the writable store fields to named query arguments.
func storeArgs(s domain.Store) pgx.NamedArgs {
	tags := s.Tags
	if tags == nil {
		tags = []string{} // tags is NOT NULL
	}
	return pgx.NamedArgs{
		"name":        s.Name,
		"slug":        s.Slug,
		"description": s.Description,
		"tags":        tags,
		"lng":         s.Location.Coordinates.Lng,
		"lat":         s.Location.Coordinates.Lat,
		"address":     s.Location.Address,
		"photo":       s.Photo,
		"author_id":   s.AuthorID,
	}
}

// translateWriteErr maps a slug unique violation to domain.ErrDuplicateSlug.
func translateWriteErr(err error) error {
	if code, constraint := pgErrorCode(err); code == pgUniqueViolation && constraint == slugConstraint {
		return fmt.Errorf("%w: %v", domain.ErrDuplicateSlug, err)
	}
	return err
}

// scanStore maps a single database row (in storeColumns order, optionally
// followed by extra columns) into a domain.Store.
func scanStore(s scanner, extra ...any) (domain.Store, error) {
	var (
		st       domain.Store
		id       pgtype.UUID
		authorID pgtype.UUID
	)

	dest := []any{
		&id, &st.Name, &st.Slug, &st.Description, &st.Tags,
		&st.Location.Coordinates.Lng, &st.Location.Coordinates.Lat, &st.Location.Address,
		&st.Photo, &authorID, &st.CreatedAt, &st.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Store{}, domain.ErrNotFound
		}
		return domain.Store{}, err
	}

	st.ID = uuid.UUID(id.Bytes)
	st.AuthorID = uuid.UUID(authorID.Bytes)
	st.Location.Type = domain.PointType
	if st.Tags == nil {
		st.Tags = []string{}
	}
	return st, nil
}
