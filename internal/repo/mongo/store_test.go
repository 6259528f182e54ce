package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo/mongo"
	"github.com/pkordes/store-locator/testutil"
)

type repos struct {
	stores  *mongo.StoreRepository
	tags    *mongo.TagRepository
	reviews *mongo.ReviewRepository
	geo     *mongo.GeoRepository
	hearts  *mongo.HeartRepository
}

// newTestRepos returns repos over a throwaway database with every index in place.
func newTestRepos(t *testing.T) repos {
	t.Helper()
	db := testutil.NewMongoDatabase(t)
	c := mongo.DefaultCollections()
	require.NoError(t, mongo.EnsureIndexes(context.Background(), db, c))
	return repos{
		stores:  mongo.NewStoreRepository(db, c),
		tags:    mongo.NewTagRepository(db, c),
		reviews: mongo.NewReviewRepository(db, c),
		geo:     mongo.NewGeoRepository(db, c),
		hearts:  mongo.NewHeartRepository(db, c),
	}
}

func mustCreateStore(t *testing.T, r repos, s domain.Store) domain.Store {
	t.Helper()
	created, err := r.stores.Create(context.Background(), s)
	require.NoError(t, err)
	return created
}

// ---- StoreRepository ----

func TestStoreRepository_CreateAndGet(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	created := mustCreateStore(t, r, testutil.StoreFixture("Cool Shop", "cool-shop"))
	assert.NotEqual(t, uuid.Nil, created.ID)

	byID, err := r.stores.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	bySlug, err := r.stores.GetBySlug(ctx, "cool-shop")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
	assert.Equal(t, domain.PointType, bySlug.Location.Type)
}

func TestStoreRepository_Create_DuplicateSlug(t *testing.T) {
	r := newTestRepos(t)
	mustCreateStore(t, r, testutil.StoreFixture("Cool Shop", "cool-shop"))

	_, err := r.stores.Create(context.Background(), testutil.StoreFixture("Cool Shop", "cool-shop"))

	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestStoreRepository_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.stores.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreRepository_Update(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	s := mustCreateStore(t, r, testutil.StoreFixture("Cool Shop", "cool-shop"))

	s.Name = "Warm Shop"
	s.Slug = "warm-shop"
	s.Tags = []string{"Vegan"}
	updated, err := r.stores.Update(ctx, s)

	require.NoError(t, err)
	assert.Equal(t, "warm-shop", updated.Slug)
	assert.Equal(t, []string{"Vegan"}, updated.Tags)
	assert.Equal(t, s.AuthorID, updated.AuthorID)

	_, err = r.stores.Update(ctx, testutil.StoreFixture("Ghost", "ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreRepository_ListPagedAndCount(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"a", "b", "c"} {
		s := testutil.StoreFixture(slug, slug)
		s.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		mustCreateStore(t, r, s)
	}

	page, err := r.stores.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Slug)
	assert.Equal(t, "b", page[1].Slug)

	page, err = r.stores.ListPaged(ctx, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].Slug)

	n, err := r.stores.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStoreRepository_Search(t *testing.T) {
	r := newTestRepos(t)
	byName := testutil.StoreFixture("Espresso Bar", "espresso-bar")
	byDesc := testutil.StoreFixture("Corner Cafe", "corner-cafe")
	byDesc.Description = "We also pull espresso."
	other := testutil.StoreFixture("Book Nook", "book-nook")
	other.Description = "Books only."
	for _, s := range []domain.Store{byDesc, byName, other} {
		mustCreateStore(t, r, s)
	}

	got, err := r.stores.Search(context.Background(), "espresso", 5)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "espresso-bar", got[0].Slug)
	assert.Equal(t, "corner-cafe", got[1].Slug)
}

func TestStoreRepository_MatchingSlugs(t *testing.T) {
	r := newTestRepos(t)
	first := mustCreateStore(t, r, testutil.StoreFixture("Cool Shop", "cool-shop"))
	mustCreateStore(t, r, testutil.StoreFixture("Cool Shop", "cool-shop-2"))
	mustCreateStore(t, r, testutil.StoreFixture("Cool Shopping", "cool-shopping"))

	got, err := r.stores.MatchingSlugs(context.Background(), "cool-shop", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cool-shop", "cool-shop-2"}, got)

	got, err = r.stores.MatchingSlugs(context.Background(), "cool-shop", first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"cool-shop-2"}, got)
}

// ---- TagRepository ----

func TestTagRepository_Counts(t *testing.T) {
	r := newTestRepos(t)
	a := testutil.StoreFixture("A", "a")
	a.Tags = []string{"Wifi", "Vegan"}
	b := testutil.StoreFixture("B", "b")
	b.Tags = []string{"Wifi"}
	mustCreateStore(t, r, a)
	mustCreateStore(t, r, b)

	got, err := r.tags.Counts(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.TagCount{Tag: "Wifi", Count: 2}, got[0])
	assert.Equal(t, domain.TagCount{Tag: "Vegan", Count: 1}, got[1])
}

// ---- ReviewRepository ----

func TestReviewRepository_TopStores(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	best := mustCreateStore(t, r, testutil.StoreFixture("Best", "best"))
	good := mustCreateStore(t, r, testutil.StoreFixture("Good", "good"))
	lonely := mustCreateStore(t, r, testutil.StoreFixture("Lonely", "lonely"))
	mustCreateStore(t, r, testutil.StoreFixture("Unreviewed", "unreviewed"))

	for storeID, ratings := range map[uuid.UUID][]int{
		best.ID:   {5, 5, 4},
		good.ID:   {5, 3},
		lonely.ID: {5},
	} {
		for _, rating := range ratings {
			_, err := r.reviews.AddReview(ctx, domain.Review{StoreID: storeID, AuthorID: uuid.New(), Rating: rating})
			require.NoError(t, err)
		}
	}

	got, err := r.reviews.TopStores(ctx, 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "best", got[0].Slug)
	assert.Equal(t, 3, got[0].ReviewCount)
	assert.InDelta(t, 14.0/3.0, *got[0].AverageRating, 1e-9)
	assert.Equal(t, "good", got[1].Slug)
	assert.InDelta(t, 4.0, *got[1].AverageRating, 1e-9)

	reviews, err := r.reviews.ListByStore(ctx, best.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

// ---- GeoRepository ----

func TestGeoRepository_Nearby(t *testing.T) {
	r := newTestRepos(t)
	center := domain.Point{Lng: -79.3832, Lat: 43.6532}
	for slug, p := range map[string]domain.Point{
		"here": center,
		"near": {Lng: -79.3832, Lat: 43.6622},
		"far":  {Lng: -79.3832, Lat: 43.7532},
	} {
		s := testutil.StoreFixture(slug, slug)
		s.Location.Coordinates = p
		mustCreateStore(t, r, s)
	}

	got, err := r.geo.Nearby(context.Background(), center, domain.DefaultMaxDistanceMeters, 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "here", got[0].Slug)
	assert.Equal(t, "near", got[1].Slug)
}

// ---- HeartRepository ----

func TestHeartRepository_Toggle(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	s := mustCreateStore(t, r, testutil.StoreFixture("Cool Shop", "cool-shop"))
	account := uuid.New()

	on, err := r.hearts.Toggle(ctx, account, s.ID)
	require.NoError(t, err)
	assert.True(t, on)

	list, err := r.hearts.ListStores(ctx, account)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, s.ID, list[0].ID)

	off, err := r.hearts.Toggle(ctx, account, s.ID)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = r.hearts.Toggle(ctx, account, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
