package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/metrics"
	"github.com/pkordes/store-locator/internal/repo"
)

// DefaultTopStoresLimit is the ranking length when the caller does not ask
// for a specific one.
const DefaultTopStoresLimit = 10

// RankingService ranks stores by their review ratings.
type RankingService struct {
	reviews repo.ReviewRepo
}

// NewRankingService constructs a RankingService backed by the provided ReviewRepo.
func NewRankingService(reviews repo.ReviewRepo) *RankingService {
	return &RankingService{reviews: reviews}
}

// TopStores returns up to limit stores by average rating, highest first.
// Stores with fewer than repo.MinRankedReviews reviews are never ranked.
// A limit of zero selects DefaultTopStoresLimit.
func (s *RankingService) TopStores(ctx context.Context, limit int) ([]domain.StoreSummary, error) {
	defer metrics.ObserveQuery("top_stores", time.Now())

	if limit < 0 {
		return nil, fmt.Errorf("service.RankingService.TopStores: %w", domain.NewValidationError("limit", "must not be negative"))
	}

	summaries, err := s.reviews.TopStores(ctx, domain.ClampLimit(limit, DefaultTopStoresLimit))
	if err != nil {
		return nil, fmt.Errorf("service.RankingService.TopStores: %w", err)
	}
	if summaries == nil {
		summaries = []domain.StoreSummary{}
	}
	return summaries, nil
}
