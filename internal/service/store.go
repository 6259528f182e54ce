// Package service contains the business logic of the store locator.
// Services validate inputs, enforce ownership, resolve slugs and orchestrate
// repo calls. No storage code lives here; services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/metrics"
	"github.com/pkordes/store-locator/internal/repo"
)

// MaxSlugAttempts bounds the resolve-then-save loop of Create and Update.
const MaxSlugAttempts = 5

// DefaultSearchLimit is the number of search results returned when the caller
// does not ask for a specific count.
const DefaultSearchLimit = 5

// StoreService implements the store catalog operations.
type StoreService struct {
	stores  repo.StoreRepo
	reviews repo.ReviewRepo
	slugs   *SlugResolver
	log     *slog.Logger
}

// NewStoreService constructs a StoreService. A nil logger discards output.
func NewStoreService(stores repo.StoreRepo, reviews repo.ReviewRepo, log *slog.Logger) *StoreService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &StoreService{
		stores:  stores,
		reviews: reviews,
		slugs:   NewSlugResolver(stores),
		log:     log,
	}
}

// Create validates in, derives a unique slug and persists the store owned by authorID.
func (s *StoreService) Create(ctx context.Context, authorID uuid.UUID, in domain.StoreInput) (domain.Store, error) {
	if authorID == uuid.Nil {
		return domain.Store{}, fmt.Errorf("service.StoreService.Create: %w", domain.NewValidationError("author", "is required"))
	}

	store := domain.Store{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Tags:        domain.NormalizeTags(in.Tags),
		Location:    normalizeLocation(in.Location),
		Photo:       strings.TrimSpace(in.Photo),
		AuthorID:    authorID,
	}
	if err := validateStore(store); err != nil {
		return domain.Store{}, fmt.Errorf("service.StoreService.Create: %w", err)
	}

	created, err := s.saveWithSlug(ctx, store, "", uuid.Nil, s.stores.Create)
	if err != nil {
		return domain.Store{}, fmt.Errorf("service.StoreService.Create: %w", err)
	}
	s.log.InfoContext(ctx, "store created", "store_id", created.ID, "slug", created.Slug)
	return created, nil
}

// Update applies patch to the store with id on behalf of requesterID.
// Only the owner may update a store. The slug is re-resolved only when the
// name changes.
func (s *StoreService) Update(ctx context.Context, id uuid.UUID, patch domain.StorePatch, requesterID uuid.UUID) (domain.Store, error) {
	current, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return domain.Store{}, fmt.Errorf("service.StoreService.Update: %w", err)
	}
	if current.AuthorID != requesterID {
		return domain.Store{}, fmt.Errorf("service.StoreService.Update: %w", domain.ErrNotOwner)
	}

	next := current
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Tags != nil {
		next.Tags = domain.NormalizeTags(*patch.Tags)
	}
	if patch.Location != nil {
		next.Location = normalizeLocation(*patch.Location)
	}
	if patch.Photo != nil {
		next.Photo = strings.TrimSpace(*patch.Photo)
	}
	if err := validateStore(next); err != nil {
		return domain.Store{}, fmt.Errorf("service.StoreService.Update: %w", err)
	}

	var updated domain.Store
	if next.Name == current.Name {
		updated, err = s.stores.Update(ctx, next)
	} else {
		updated, err = s.saveWithSlug(ctx, next, current.Slug, current.ID, s.stores.Update)
	}
	if err != nil {
		return domain.Store{}, fmt.Errorf("service.StoreService.Update: %w", err)
	}
	if updated.Slug != current.Slug {
		s.log.InfoContext(ctx, "store slug changed", "store_id", id, "from", current.Slug, "to", updated.Slug)
	}
	return updated, nil
}

// saveWithSlug resolves a slug for store and saves it, resolving again when
// a concurrent writer claimed the same slug first.
func (s *StoreService) saveWithSlug(
	ctx context.Context,
	store domain.Store,
	currentSlug string,
	excludeID uuid.UUID,
	save func(context.Context, domain.Store) (domain.Store, error),
) (domain.Store, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxSlugAttempts; attempt++ {
		slug, err := s.slugs.Resolve(ctx, store.Name, currentSlug, excludeID)
		if err != nil {
			return domain.Store{}, err
		}
		store.Slug = slug

		saved, err := save(ctx, store)
		if err == nil {
			metrics.RecordSlugAttempt(metrics.SlugResolved)
			return saved, nil
		}
		if !errors.Is(err, domain.ErrDuplicateSlug) {
			return domain.Store{}, err
		}

		metrics.RecordSlugAttempt(metrics.SlugCollision)
		s.log.DebugContext(ctx, "slug claimed concurrently, resolving again", "slug", slug, "attempt", attempt)
		lastErr = err
		// The slug we computed from is stale now; never hand it back as "unchanged".
		currentSlug = ""
	}

	metrics.RecordSlugAttempt(metrics.SlugExhausted)
	s.log.WarnContext(ctx, "slug retries exhausted", "name", store.Name, "attempts", MaxSlugAttempts)
	return domain.Store{}, lastErr
}

// GetByID returns a single store.
func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return domain.Store{}, fmt.Errorf("service.StoreService.GetByID: %w", err)
	}
	return store, nil
}

// GetBySlug returns the store with slug together with its reviews.
// Reviews are only fetched here, never on listing reads.
func (s *StoreService) GetBySlug(ctx context.Context, slug string) (domain.StoreDetail, error) {
	store, err := s.stores.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return domain.StoreDetail{}, fmt.Errorf("service.StoreService.GetBySlug: %w", err)
	}
	reviews, err := s.reviews.ListByStore(ctx, store.ID)
	if err != nil {
		return domain.StoreDetail{}, fmt.Errorf("service.StoreService.GetBySlug: %w", err)
	}
	return domain.StoreDetail{Store: store, Reviews: reviews}, nil
}

// Reviews returns the reviews of the store with id, newest first.
func (s *StoreService) Reviews(ctx context.Context, id uuid.UUID) ([]domain.Review, error) {
	if _, err := s.stores.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("service.StoreService.Reviews: %w", err)
	}
	reviews, err := s.reviews.ListByStore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.StoreService.Reviews: %w", err)
	}
	return reviews, nil
}

// ListPaged returns one page of stores, newest first. The page and the total
// count are fetched concurrently. A page past the end yields a
// *domain.PageOutOfRangeError carrying the last valid page.
func (s *StoreService) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.StorePage, error) {
	defer metrics.ObserveQuery("list_paged", time.Now())

	var (
		stores []domain.Store
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stores, err = s.stores.ListPaged(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.stores.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.StorePage{}, fmt.Errorf("service.StoreService.ListPaged: %w", err)
	}

	totalPages := p.TotalPages(total)
	if p.Page > 1 && p.Page > totalPages {
		return domain.StorePage{}, fmt.Errorf("service.StoreService.ListPaged: %w",
			&domain.PageOutOfRangeError{Requested: p.Page, TotalPages: totalPages})
	}

	return domain.StorePage{
		Stores:     stores,
		Page:       p.Page,
		PageSize:   p.Limit,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

// Search returns stores relevant to query, best match first. A limit of zero
// selects DefaultSearchLimit.
func (s *StoreService) Search(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	defer metrics.ObserveQuery("search", time.Now())

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("service.StoreService.Search: %w", domain.NewValidationError("q", "is required"))
	}
	if limit < 0 {
		return nil, fmt.Errorf("service.StoreService.Search: %w", domain.NewValidationError("limit", "must not be negative"))
	}

	stores, err := s.stores.Search(ctx, query, domain.ClampLimit(limit, DefaultSearchLimit))
	if err != nil {
		return nil, fmt.Errorf("service.StoreService.Search: %w", err)
	}
	return stores, nil
}

// normalizeLocation trims the address and re-asserts the GeoJSON type.
func normalizeLocation(l domain.Location) domain.Location {
	return domain.Location{
		Type:        domain.PointType,
		Coordinates: l.Coordinates,
		Address:     strings.TrimSpace(l.Address),
	}
}

// validateStore checks the required fields of an already normalized store.
func validateStore(s domain.Store) error {
	if s.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if Slugify(s.Name) == "" {
		return domain.NewValidationError("name", "must contain at least one letter or digit")
	}
	if s.Location.Address == "" {
		return domain.NewValidationError("address", "is required")
	}
	return s.Location.Coordinates.Validate()
}
