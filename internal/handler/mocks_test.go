package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/handler"
	"github.com/pkordes/store-locator/internal/middleware"
)

// ---- mock StoreServicer ----------------------------------------------------

// mockStoreServicer is a test double for handler.StoreServicer.
// Set only the method fields your test needs.
type mockStoreServicer struct {
	create    func(ctx context.Context, authorID uuid.UUID, in domain.StoreInput) (domain.Store, error)
	update    func(ctx context.Context, id uuid.UUID, patch domain.StorePatch, requesterID uuid.UUID) (domain.Store, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Store, error)
	getBySlug func(ctx context.Context, slug string) (domain.StoreDetail, error)
	reviews   func(ctx context.Context, id uuid.UUID) ([]domain.Review, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) (domain.StorePage, error)
	search    func(ctx context.Context, query string, limit int) ([]domain.Store, error)
}

func (m *mockStoreServicer) Create(ctx context.Context, authorID uuid.UUID, in domain.StoreInput) (domain.Store, error) {
	return m.create(ctx, authorID, in)
}
func (m *mockStoreServicer) Update(ctx context.Context, id uuid.UUID, patch domain.StorePatch, requesterID uuid.UUID) (domain.Store, error) {
	return m.update(ctx, id, patch, requesterID)
}
func (m *mockStoreServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error) {
	return m.getByID(ctx, id)
}
func (m *mockStoreServicer) GetBySlug(ctx context.Context, slug string) (domain.StoreDetail, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockStoreServicer) Reviews(ctx context.Context, id uuid.UUID) ([]domain.Review, error) {
	return m.reviews(ctx, id)
}
func (m *mockStoreServicer) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.StorePage, error) {
	return m.listPaged(ctx, p)
}
func (m *mockStoreServicer) Search(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	return m.search(ctx, query, limit)
}

// ---- mock TagServicer ------------------------------------------------------

type mockTagServicer struct {
	listByTag func(ctx context.Context, tag string) (domain.TagListing, error)
}

func (m *mockTagServicer) ListByTag(ctx context.Context, tag string) (domain.TagListing, error) {
	return m.listByTag(ctx, tag)
}

// ---- mock RankingServicer --------------------------------------------------

type mockRankingServicer struct {
	topStores func(ctx context.Context, limit int) ([]domain.StoreSummary, error)
}

func (m *mockRankingServicer) TopStores(ctx context.Context, limit int) ([]domain.StoreSummary, error) {
	return m.topStores(ctx, limit)
}

// ---- mock GeoServicer ------------------------------------------------------

type mockGeoServicer struct {
	nearby func(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error)
}

func (m *mockGeoServicer) Nearby(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error) {
	return m.nearby(ctx, center, maxDistanceMeters, limit)
}

// ---- mock HeartServicer ----------------------------------------------------

type mockHeartServicer struct {
	toggle      func(ctx context.Context, accountID, storeID uuid.UUID) (bool, error)
	listHearted func(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error)
}

func (m *mockHeartServicer) Toggle(ctx context.Context, accountID, storeID uuid.UUID) (bool, error) {
	return m.toggle(ctx, accountID, storeID)
}
func (m *mockHeartServicer) ListHearted(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error) {
	return m.listHearted(ctx, accountID)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.StoreServicer   = (*mockStoreServicer)(nil)
	_ handler.TagServicer     = (*mockTagServicer)(nil)
	_ handler.RankingServicer = (*mockRankingServicer)(nil)
	_ handler.GeoServicer     = (*mockGeoServicer)(nil)
	_ handler.HeartServicer   = (*mockHeartServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services bundles the doubles a test wires. Leave unused fields nil.
type services struct {
	stores  handler.StoreServicer
	tags    handler.TagServicer
	ranking handler.RankingServicer
	geo     handler.GeoServicer
	hearts  handler.HeartServicer
}

// newHTTPHandler mounts a Server on a chi router behind the account identity
// middleware, the same way main.go wires it.
func newHTTPHandler(svc services) http.Handler {
	srv := handler.NewServer(svc.stores, svc.tags, svc.ranking, svc.geo, svc.hearts, nil)
	r := chi.NewRouter()
	r.Use(middleware.NewAccountIdentity())
	srv.Register(r)
	return r
}

// do sends a request and returns the recorder. A non-nil account sets the
// X-Account-ID header.
func do(t *testing.T, h http.Handler, method, target string, body io.Reader, account *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if account != nil {
		req.Header.Set(middleware.AccountHeader, account.String())
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeBody decodes the recorder's JSON body into a generic value.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// errorCode returns error.code from a JSON error body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody[map[string]map[string]string](t, rec)
	return body["error"]["code"]
}

func storeFixture(name, slug string) domain.Store {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Store{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		Description: "Coffee and pastries.",
		Tags:        []string{"Wifi"},
		Location: domain.Location{
			Type:        domain.PointType,
			Coordinates: domain.Point{Lng: -79.3832, Lat: 43.6532},
			Address:     "100 Queen St W, Toronto",
		},
		AuthorID:  uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func storePayload(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "Coffee and pastries.",
		"tags":        []string{"Wifi"},
		"location": map[string]any{
			"coordinates": []float64{-79.3832, 43.6532},
			"address":     "100 Queen St W, Toronto",
		},
	}
}
