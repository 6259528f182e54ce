package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/store-locator/internal/domain"
)

func TestNearbyStores_200(t *testing.T) {
	store := storeFixture("Cool Shop", "cool-shop")
	svc := &mockGeoServicer{
		nearby: func(_ context.Context, center domain.Point, maxDistance float64, limit int) ([]domain.StoreProjection, error) {
			assert.Equal(t, domain.Point{Lng: -79.38, Lat: 43.65}, center)
			assert.Equal(t, 2500.0, maxDistance)
			assert.Equal(t, 5, limit)
			return []domain.StoreProjection{store.Project()}, nil
		},
	}

	rec := do(t, newHTTPHandler(services{geo: svc}), http.MethodGet, "/near?lng=-79.38&lat=43.65&maxDistance=2500&limit=5", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[[]map[string]any](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, "cool-shop", body[0]["slug"])
	assert.NotContains(t, body[0], "id", "projection exposes only the map fields")
	assert.NotContains(t, body[0], "author")
}

func TestNearbyStores_DefaultsLeftToService(t *testing.T) {
	svc := &mockGeoServicer{
		nearby: func(_ context.Context, _ domain.Point, maxDistance float64, limit int) ([]domain.StoreProjection, error) {
			assert.Zero(t, maxDistance)
			assert.Zero(t, limit)
			return []domain.StoreProjection{}, nil
		},
	}

	rec := do(t, newHTTPHandler(services{geo: svc}), http.MethodGet, "/near?lng=0&lat=0", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNearbyStores_422(t *testing.T) {
	svc := &mockGeoServicer{
		nearby: func(_ context.Context, _ domain.Point, _ float64, _ int) ([]domain.StoreProjection, error) {
			return nil, fmt.Errorf("service.GeoService.Nearby: %w", domain.NewValidationError("latitude", "must be between -90 and 90"))
		},
	}
	h := newHTTPHandler(services{geo: svc})

	for _, target := range []string{
		"/near?lat=1",
		"/near?lng=1",
		"/near?lng=east&lat=1",
		"/near?lng=1&lat=1&limit=-1",
		"/near?lng=1&lat=95",
	} {
		rec := do(t, h, http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
	}
}
