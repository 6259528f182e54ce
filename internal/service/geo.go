package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/metrics"
	"github.com/pkordes/store-locator/internal/repo"
)

// DefaultNearbyLimit is the number of stores Nearby returns when the caller
// does not ask for a specific count.
const DefaultNearbyLimit = 10

// GeoService answers proximity queries.
type GeoService struct {
	geo repo.GeoRepo
}

// NewGeoService constructs a GeoService backed by the provided GeoRepo.
func NewGeoService(geo repo.GeoRepo) *GeoService {
	return &GeoService{geo: geo}
}

// Nearby returns up to limit stores within maxDistanceMeters of center,
// nearest first. Zero values select domain.DefaultMaxDistanceMeters and
// DefaultNearbyLimit.
func (s *GeoService) Nearby(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error) {
	defer metrics.ObserveQuery("nearby", time.Now())

	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("service.GeoService.Nearby: %w", err)
	}
	if math.IsNaN(maxDistanceMeters) || math.IsInf(maxDistanceMeters, 0) || maxDistanceMeters < 0 {
		return nil, fmt.Errorf("service.GeoService.Nearby: %w", domain.NewValidationError("maxDistance", "must be a non-negative number of meters"))
	}
	if maxDistanceMeters == 0 {
		maxDistanceMeters = domain.DefaultMaxDistanceMeters
	}
	if limit < 0 {
		return nil, fmt.Errorf("service.GeoService.Nearby: %w", domain.NewValidationError("limit", "must not be negative"))
	}

	stores, err := s.geo.Nearby(ctx, center, maxDistanceMeters, domain.ClampLimit(limit, DefaultNearbyLimit))
	if err != nil {
		return nil, fmt.Errorf("service.GeoService.Nearby: %w", err)
	}
	if stores == nil {
		stores = []domain.StoreProjection{}
	}
	return stores, nil
}
