package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/metrics"
	"github.com/pkordes/store-locator/internal/repo"
)

// TagService aggregates tag usage across the store corpus.
type TagService struct {
	tags   repo.TagRepo
	stores repo.StoreRepo
}

// NewTagService constructs a TagService backed by the provided repos.
func NewTagService(tags repo.TagRepo, stores repo.StoreRepo) *TagService {
	return &TagService{tags: tags, stores: stores}
}

// Counts returns how many stores carry each tag, most used first.
// Order among equal counts is implementation-defined.
func (s *TagService) Counts(ctx context.Context) ([]domain.TagCount, error) {
	defer metrics.ObserveQuery("tag_counts", time.Now())

	counts, err := s.tags.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.Counts: %w", err)
	}
	if counts == nil {
		counts = []domain.TagCount{}
	}
	return counts, nil
}

// ListByTag returns the tag counts together with the stores carrying tag.
// Both are fetched concurrently. An empty tag lists every store.
func (s *TagService) ListByTag(ctx context.Context, tag string) (domain.TagListing, error) {
	tag = strings.TrimSpace(tag)
	listing := domain.TagListing{Tag: tag}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listing.Tags, err = s.Counts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		listing.Stores, err = s.stores.ListByTag(gctx, tag)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.TagListing{}, fmt.Errorf("service.TagService.ListByTag: %w", err)
	}
	if listing.Stores == nil {
		listing.Stores = []domain.Store{}
	}
	return listing, nil
}
