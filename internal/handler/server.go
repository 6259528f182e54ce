// Package handler implements the HTTP handlers for the store locator API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (store.go, tag.go, geo.go, etc.) but share the same Server struct so
// they can reach its dependencies. Routes mirror the embedded OpenAPI document.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/store-locator/internal/domain"
)

// StoreServicer defines the store catalog operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching a database or the service layer.
type StoreServicer interface {
	Create(ctx context.Context, authorID uuid.UUID, in domain.StoreInput) (domain.Store, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.StorePatch, requesterID uuid.UUID) (domain.Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Store, error)
	GetBySlug(ctx context.Context, slug string) (domain.StoreDetail, error)
	Reviews(ctx context.Context, id uuid.UUID) ([]domain.Review, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) (domain.StorePage, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Store, error)
}

// TagServicer defines the tag browsing operation. An empty tag lists every store.
type TagServicer interface {
	ListByTag(ctx context.Context, tag string) (domain.TagListing, error)
}

// RankingServicer defines the top-stores ranking.
type RankingServicer interface {
	TopStores(ctx context.Context, limit int) ([]domain.StoreSummary, error)
}

// GeoServicer defines the proximity search.
type GeoServicer interface {
	Nearby(ctx context.Context, center domain.Point, maxDistanceMeters float64, limit int) ([]domain.StoreProjection, error)
}

// HeartServicer defines the favourite-store operations.
type HeartServicer interface {
	Toggle(ctx context.Context, accountID, storeID uuid.UUID) (bool, error)
	ListHearted(ctx context.Context, accountID uuid.UUID) ([]domain.Store, error)
}

// Server serves every API endpoint. Wire it in main.go via Register.
type Server struct {
	stores  StoreServicer
	tags    TagServicer
	ranking RankingServicer
	geo     GeoServicer
	hearts  HeartServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger discards output.
func NewServer(stores StoreServicer, tags TagServicer, ranking RankingServicer, geo GeoServicer, hearts HeartServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		stores:  stores,
		tags:    tags,
		ranking: ranking,
		geo:     geo,
		hearts:  hearts,
		log:     log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil, nil)
}

// Register mounts every route on r. Middleware (account identity in
// particular) must already be installed on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/stores", s.ListStores)
	r.Post("/stores", s.CreateStore)
	r.Get("/stores/{id}", s.GetStore)
	r.Put("/stores/{id}", s.UpdateStore)
	r.Get("/stores/{id}/reviews", s.ListStoreReviews)
	r.Post("/stores/{id}/heart", s.ToggleHeart)
	r.Get("/store/{slug}", s.GetStoreBySlug)

	r.Get("/tags", s.ListTags)
	r.Get("/tags/{tag}", s.ListStoresByTag)

	r.Get("/top", s.TopStores)
	r.Get("/search", s.SearchStores)
	r.Get("/near", s.NearbyStores)
	r.Get("/hearts", s.ListHearts)
}

// Handler returns a standalone chi router serving every route, without any
// middleware. Tests and tools that need the bare API use it.
func (s *Server) Handler() chi.Router {
	r := chi.NewRouter()
	s.Register(r)
	return r
}
