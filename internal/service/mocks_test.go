package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.

// ---- mock StoreRepo --------------------------------------------------------

type mockStoreRepo struct {
	create        func(ctx context.Context, s domain.Store) (domain.Store, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Store, error)
	getBySlug     func(ctx context.Context, slug string) (domain.Store, error)
	update        func(ctx context.Context, s domain.Store) (domain.Store, error)
	listPaged     func(ctx context.Context, p domain.PaginationParams) ([]domain.Store, error)
	count         func(ctx context.Context) (int64, error)
	search        func(ctx context.Context, query string, limit int) ([]domain.Store, error)
	listByTag     func(ctx context.Context, tag string) ([]domain.Store, error)
	matchingSlugs func(ctx context.Context, base string, excludeID uuid.UUID) ([]string, error)
}

func (m *mockStoreRepo) Create(ctx context.Context, s domain.Store) (domain.Store, error) {
	return m.create(ctx, s)
}
func (m *mockStoreRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	return m.getByID(ctx, id)
}
func (m *mockStoreRepo) GetBySlug(ctx context.Context, slug string) (domain.Store, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockStoreRepo) Update(ctx context.Context, s domain.Store) (domain.Store, error) {
	return m.update(ctx, s)
}
func (m *mockStoreRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Store, error) {
	return m.listPaged(ctx, p)
}
func (m *mockStoreRepo) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}
func (m *mockStoreRepo) Search(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	return m.search(ctx, query, limit)
}
func (m *mockStoreRepo) ListByTag(ctx context.Context, tag string) ([]domain.Store, error) {
	return m.listByTag(ctx, tag)
}
func (m *mockStoreRepo) MatchingSlugs(ctx context.Context, base string, excludeID uuid.UUID) ([]string, error) {
	return m.matchingSlugs(ctx, base, excludeID)
}

// ---- mock ReviewRepo -------------------------------------------------------

type mockReviewRepo struct {
	listByStore func(ctx context.Context, storeID uuid.UUID) ([]domain.Review, error)
	topStores   func(ctx context.Context, limit int) ([]domain.StoreSummary, error)
}

func (m *mockReviewRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]domain.Review, error) {
	return m.listByStore(ctx, storeID)
}
func (m *mockReviewRepo) TopStores(ctx context.Context, limit int) ([]domain.StoreSummary, error) {
	return m.topStores(ctx, limit)
}

// ---- mock TagRepo ----------------------------------------------------------

type mockTagRepo struct {
	counts func(ctx context.Context) ([]domain.TagCount, error)
}

func (m *mockTagRepo) Counts(ctx context.Context) ([]domain.TagCount, error) {
	return m.counts(ctx)
}

// ---- mock GeoRepo ----------------------------------------------------------

type mockGeoRepo struct {
	nearby func(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error)
}

func (m *mockGeoRepo) Nearby(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error) {
	return m.nearby(ctx, center, maxDistanceMeters, limit)
}

// ---- mock HeartRepo --------------------------------------------------------

type mockHeartRepo struct {
	toggle     func(ctx context.Context, accountID, storeID uuid.UUID) (bool, error)
	listStores func(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error)
}

func (m *mockHeartRepo) Toggle(ctx context.Context, accountID, storeID uuid.UUID) (bool, error) {
	return m.toggle(ctx, accountID, storeID)
}
func (m *mockHeartRepo) ListStores(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error) {
	return m.listStores(ctx, accountID)
}

// compile-time checks
var (
	_ repo.StoreRepo  = (*mockStoreRepo)(nil)
	_ repo.ReviewRepo = (*mockReviewRepo)(nil)
	_ repo.TagRepo    = (*mockTagRepo)(nil)
	_ repo.GeoRepo    = (*mockGeoRepo)(nil)
	_ repo.HeartRepo  = (*mockHeartRepo)(nil)
)
