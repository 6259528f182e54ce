// Package memory provides an in-memory implementation of every repo interface.
// It backs STORE_BACKEND=memory for local development and the DB-less tests.
//
// Nearby is a linear scan over all stores with great-circle distance. That is
// fine for development-sized corpora only; production deployments use the
// Postgres or MongoDB backends, which answer it from a spatial index.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo"
)

// compile-time interface checks.
var (
	_ repo.StoreRepo  = (*Store)(nil)
	_ repo.TagRepo    = (*Store)(nil)
	_ repo.ReviewRepo = (*Store)(nil)
	_ repo.GeoRepo    = (*Store)(nil)
	_ repo.HeartRepo  = (*Store)(nil)
)

// Store is an in-memory store corpus with reviews and hearts.
type Store struct {
	mu sync.RWMutex

	stores  map[uuid.UUID]domain.Store
	bySlug  map[string]uuid.UUID
	reviews map[uuid.UUID][]domain.Review // keyed by store ID
	hearts  map[uuid.UUID][]heart         // keyed by account ID

	now func() time.Time
}

type heart struct {
	storeID uuid.UUID
	at      time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		stores:  make(map[uuid.UUID]domain.Store),
		bySlug:  make(map[string]uuid.UUID),
		reviews: make(map[uuid.UUID][]domain.Review),
		hearts:  make(map[uuid.UUID][]heart),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ──────────────────────────────────────────────────
// repo.StoreRepo
// ──────────────────────────────────────────────────

// Create inserts a store, enforcing slug uniqueness like the database constraint.
func (s *Store) Create(_ context.Context, st domain.Store) (domain.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.bySlug[st.Slug]; taken {
		return domain.Store{}, fmt.Errorf("memory.Store.Create: %w", domain.ErrDuplicateSlug)
	}

	st.ID = uuid.New()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = s.now()
	}
	st.UpdatedAt = st.CreatedAt
	st.Location.Type = domain.PointType
	st.Tags = cloneTags(st.Tags)

	s.stores[st.ID] = st
	s.bySlug[st.Slug] = st.ID
	return cloneStore(st), nil
}

// GetByID returns the store with id.
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stores[id]
	if !ok {
		return domain.Store{}, fmt.Errorf("memory.Store.GetByID: %w", domain.ErrNotFound)
	}
	return cloneStore(st), nil
}

// GetBySlug returns the store with slug.
func (s *Store) GetBySlug(_ context.Context, slug string) (domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return domain.Store{}, fmt.Errorf("memory.Store.GetBySlug: %w", domain.ErrNotFound)
	}
	return cloneStore(s.stores[id]), nil
}

// Update replaces the mutable fields of an existing store.
func (s *Store) Update(_ context.Context, st domain.Store) (domain.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.stores[st.ID]
	if !ok {
		return domain.Store{}, fmt.Errorf("memory.Store.Update: %w", domain.ErrNotFound)
	}
	if owner, taken := s.bySlug[st.Slug]; taken && owner != st.ID {
		return domain.Store{}, fmt.Errorf("memory.Store.Update: %w", domain.ErrDuplicateSlug)
	}

	st.AuthorID = old.AuthorID
	st.CreatedAt = old.CreatedAt
	st.UpdatedAt = s.now()
	st.Location.Type = domain.PointType
	st.Tags = cloneTags(st.Tags)

	delete(s.bySlug, old.Slug)
	s.bySlug[st.Slug] = st.ID
	s.stores[st.ID] = st
	return cloneStore(st), nil
}

// ListPaged returns one page of stores, newest first.
func (s *Store) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.newestFirst(func(domain.Store) bool { return true })
	start := p.Offset()
	if start >= len(all) {
		return []domain.Store{}, nil
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// Count returns the number of stores.
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.stores)), nil
}

// Search scores each store by how many query terms occur in its name (weight 2)
// and description (weight 1), case-insensitively, and drops zero scores.
func (s *Store) Search(_ context.Context, query string, limit int) ([]domain.Store, error) {
	terms := strings.Fields(strings.ToLower(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		store domain.Store
		score int
	}
	var hits []scored
	for _, st := range s.stores {
		name := strings.ToLower(st.Name)
		desc := strings.ToLower(st.Description)
		score := 0
		for _, term := range terms {
			score += 2*strings.Count(name, term) + strings.Count(desc, term)
		}
		if score > 0 {
			hits = append(hits, scored{store: st, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].store.CreatedAt.After(hits[j].store.CreatedAt)
	})

	out := []domain.Store{}
	for i := 0; i < len(hits) && i < limit; i++ {
		out = append(out, cloneStore(hits[i].store))
	}
	return out, nil
}

// ListByTag returns stores carrying tag, or every store for an empty tag.
func (s *Store) ListByTag(_ context.Context, tag string) ([]domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.newestFirst(func(st domain.Store) bool {
		if tag == "" {
			return true
		}
		for _, t := range st.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}), nil
}

// MatchingSlugs returns every slug matching base and its numbered variants.
func (s *Store) MatchingSlugs(_ context.Context, base string, excludeID uuid.UUID) ([]string, error) {
	re, err := regexp.Compile(`(?i)` + repo.SlugPattern(base))
	if err != nil {
		return nil, fmt.Errorf("memory.Store.MatchingSlugs: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	slugs := []string{}
	for slug, id := range s.bySlug {
		if id != excludeID && re.MatchString(slug) {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// ──────────────────────────────────────────────────
// repo.TagRepo
// ──────────────────────────────────────────────────

// Counts flattens every store's tags and counts occurrences per tag.
// Equal counts are ordered by tag only so that repeated calls agree; callers
// must not rely on it.
func (s *Store) Counts(_ context.Context) ([]domain.TagCount, error) {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, st := range s.stores {
		for _, t := range st.Tags {
			counts[t]++
		}
	}
	s.mu.RUnlock()

	out := make([]domain.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, domain.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

// ──────────────────────────────────────────────────
// repo.ReviewRepo
// ──────────────────────────────────────────────────

// AddReview records a review for an existing store. Reviews are owned by the
// review subsystem; this exists to seed development data and tests.
func (s *Store) AddReview(_ context.Context, rv domain.Review) (domain.Review, error) {
	if rv.Rating < domain.MinRating || rv.Rating > domain.MaxRating {
		return domain.Review{}, domain.NewValidationError("rating", "must be between 1 and 5")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[rv.StoreID]; !ok {
		return domain.Review{}, fmt.Errorf("memory.Store.AddReview: %w", domain.ErrNotFound)
	}
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = s.now()
	}
	s.reviews[rv.StoreID] = append(s.reviews[rv.StoreID], rv)
	return rv, nil
}

// ListByStore returns the reviews of storeID, newest first.
func (s *Store) ListByStore(_ context.Context, storeID uuid.UUID) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.Review{}, s.reviews[storeID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// TopStores joins stores with their reviews, keeps stores with at least
// repo.MinRankedReviews reviews, and orders them by average rating.
func (s *Store) TopStores(_ context.Context, limit int) ([]domain.StoreSummary, error) {
	s.mu.RLock()
	summaries := []domain.StoreSummary{}
	// Walking stores in insertion-time order keeps equal averages in a stable
	// order between calls; no tie-break is promised beyond that.
	for _, st := range s.newestFirst(func(domain.Store) bool { return true }) {
		reviews := s.reviews[st.ID]
		if len(reviews) < repo.MinRankedReviews {
			continue
		}
		sum := 0
		for _, rv := range reviews {
			sum += rv.Rating
		}
		avg := float64(sum) / float64(len(reviews))
		summaries = append(summaries, domain.StoreSummary{
			Store:         st,
			ReviewCount:   len(reviews),
			AverageRating: &avg,
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(summaries, func(i, j int) bool {
		return *summaries[i].AverageRating > *summaries[j].AverageRating
	})
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// ──────────────────────────────────────────────────
// repo.GeoRepo
// ──────────────────────────────────────────────────

// Nearby scans every store and keeps those within maxDistanceMeters.
func (s *Store) Nearby(_ context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error) {
	type hit struct {
		p    domain.StoreProjection
		dist float64
	}

	s.mu.RLock()
	var hits []hit
	for _, st := range s.stores {
		d := domain.DistanceMeters(center, st.Location.Coordinates)
		if d <= maxDistanceMeters {
			hits = append(hits, hit{p: st.Project(), dist: d})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := []domain.StoreProjection{}
	for i := 0; i < len(hits) && i < limit; i++ {
		out = append(out, hits[i].p)
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// repo.HeartRepo
// ──────────────────────────────────────────────────

// Toggle adds or removes the heart of accountID on storeID.
func (s *Store) Toggle(_ context.Context, accountID, storeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[storeID]; !ok {
		return false, fmt.Errorf("memory.Store.Toggle: %w", domain.ErrNotFound)
	}

	list := s.hearts[accountID]
	for i, h := range list {
		if h.storeID == storeID {
			s.hearts[accountID] = append(list[:i:i], list[i+1:]...)
			return false, nil
		}
	}
	s.hearts[accountID] = append(list, heart{storeID: storeID, at: s.now()})
	return true, nil
}

// ListStores returns the stores hearted by accountID, most recent first.
func (s *Store) ListStores(_ context.Context, accountID uuid.UUID) ([]domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.hearts[accountID]
	out := make([]domain.Store, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if st, ok := s.stores[list[i].storeID]; ok {
			out = append(out, cloneStore(st))
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// helpers
// ──────────────────────────────────────────────────

// newestFirst returns clones of the stores accepted by keep, newest first.
// Callers must hold at least the read lock.
func (s *Store) newestFirst(keep func(domain.Store) bool) []domain.Store {
	out := []domain.Store{}
	for _, st := range s.stores {
		if keep(st) {
			out = append(out, cloneStore(st))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func cloneStore(st domain.Store) domain.Store {
	st.Tags = cloneTags(st.Tags)
	return st
}

func cloneTags(tags []string) []string {
	return append([]string{}, tags...)
}
