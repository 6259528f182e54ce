package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo"
)

// HeartService manages the favourite stores of an account.
type HeartService struct {
	hearts repo.HeartRepo
	log    *slog.Logger
}

// NewHeartService constructs a HeartService. A nil logger discards output.
func NewHeartService(hearts repo.HeartRepo, log *slog.Logger) *HeartService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &HeartService{hearts: hearts, log: log}
}

// Toggle hearts storeID for accountID, or removes an existing heart.
// It reports whether the store is hearted afterwards.
func (s *HeartService) Toggle(ctx context.Context, accountID, storeID uuid.UUID) (bool, error) {
	if accountID == uuid.Nil {
		return false, fmt.Errorf("service.HeartService.Toggle: %w", domain.NewValidationError("account", "is required"))
	}
	hearted, err := s.hearts.Toggle(ctx, accountID, storeID)
	if err != nil {
		return false, fmt.Errorf("service.HeartService.Toggle: %w", err)
	}
	s.log.DebugContext(ctx, "heart toggled", "account_id", accountID, "store_id", storeID, "hearted", hearted)
	return hearted, nil
}

// ListHearted returns the stores hearted by accountID, most recent first.
func (s *HeartService) ListHearted(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error) {
	if accountID == uuid.Nil {
		return nil, fmt.Errorf("service.HeartService.ListHearted: %w", domain.NewValidationError("account", "is required"))
	}
	stores, err := s.hearts.ListStores(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("service.HeartService.ListHearted: %w", err)
	}
	if stores == nil {
		stores = []domain.Store{}
	}
	return stores, nil
}
