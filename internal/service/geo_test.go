package service_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo/memory"
	"github.com/pkordes/store-locator/internal/service"
)

func TestGeoService_Nearby_WithinDistanceAndLimit(t *testing.T) {
	m := memory.New()
	stores := service.NewStoreService(m, m, nil)
	ctx := context.Background()
	center := domain.Point{Lng: -79.3832, Lat: 43.6532}

	// One store every ~1.1 km due north.
	for i := 0; i < 15; i++ {
		in := validInput(fmt.Sprintf("Shop %d", i))
		in.Location.Coordinates = domain.Point{Lng: center.Lng, Lat: center.Lat + float64(i)*0.01}
		_, err := stores.Create(ctx, uuid.New(), in)
		require.NoError(t, err)
	}
	svc := service.NewGeoService(m)

	const d = 5000.0
	got, err := svc.Nearby(ctx, center, d, 0)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	prev := -1.0
	for _, p := range got {
		dist := domain.DistanceMeters(center, p.Location.Coordinates)
		assert.LessOrEqual(t, dist, d)
		assert.GreaterOrEqual(t, dist, prev, "results must be nearest first")
		prev = dist
	}
	assert.Len(t, got, 5) // 0, 1.1, 2.2, 3.3, 4.4 km

	got, err = svc.Nearby(ctx, center, 0, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGeoService_Nearby_Defaults(t *testing.T) {
	var (
		gotDistance float64
		gotLimit    int
	)
	svc := service.NewGeoService(&mockGeoRepo{
		nearby: func(_ context.Context, _ domain.Point, d float64, limit int) ([]domain.StoreProjection, error) {
			gotDistance, gotLimit = d, limit
			return nil, nil
		},
	})

	got, err := svc.Nearby(context.Background(), domain.Point{Lng: 1, Lat: 1}, 0, 0)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, domain.DefaultMaxDistanceMeters, gotDistance)
	assert.Equal(t, service.DefaultNearbyLimit, gotLimit)
}

func TestGeoService_Nearby_InvalidInput(t *testing.T) {
	svc := service.NewGeoService(&mockGeoRepo{}) // repo must not be reached

	tests := []struct {
		name   string
		center domain.Point
		dist   float64
		limit  int
	}{
		{"NaN longitude", domain.Point{Lng: math.NaN(), Lat: 0}, 0, 0},
		{"infinite latitude", domain.Point{Lng: 0, Lat: math.Inf(1)}, 0, 0},
		{"latitude out of range", domain.Point{Lng: 0, Lat: 95}, 0, 0},
		{"negative distance", domain.Point{}, -1, 0},
		{"NaN distance", domain.Point{}, math.NaN(), 0},
		{"negative limit", domain.Point{}, 0, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Nearby(context.Background(), tt.center, tt.dist, tt.limit)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
