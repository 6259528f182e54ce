package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/store-locator/internal/domain"
)

// locationJSON is the GeoJSON-flavoured wire form of domain.Location.
// Coordinates are [longitude, latitude].
type locationJSON struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}

func (l locationJSON) toDomain() (domain.Location, error) {
	if len(l.Coordinates) != 2 {
		return domain.Location{}, domain.NewValidationError("coordinates", "must be [longitude, latitude]")
	}
	return domain.Location{
		Type:        domain.PointType,
		Coordinates: domain.Point{Lng: l.Coordinates[0], Lat: l.Coordinates[1]},
		Address:     l.Address,
	}, nil
}

func locationToResponse(l domain.Location) locationJSON {
	return locationJSON{
		Type:        domain.PointType,
		Coordinates: []float64{l.Coordinates.Lng, l.Coordinates.Lat},
		Address:     l.Address,
	}
}

// storeRequest is the body of POST /stores.
type storeRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Location    *locationJSON `json:"location"`
	Photo       string        `json:"photo"`
}

func (req storeRequest) toDomain() (domain.StoreInput, error) {
	if req.Location == nil {
		return domain.StoreInput{}, domain.NewValidationError("location", "is required")
	}
	loc, err := req.Location.toDomain()
	if err != nil {
		return domain.StoreInput{}, err
	}
	return domain.StoreInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Location:    loc,
		Photo:       req.Photo,
	}, nil
}

// storePatchRequest is the body of PUT /stores/{id}. Omitted fields are left unchanged.
type storePatchRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Tags        *[]string     `json:"tags"`
	Location    *locationJSON `json:"location"`
	Photo       *string       `json:"photo"`
}

func (req storePatchRequest) toDomain() (domain.StorePatch, error) {
	patch := domain.StorePatch{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Photo:       req.Photo,
	}
	if req.Location != nil {
		loc, err := req.Location.toDomain()
		if err != nil {
			return domain.StorePatch{}, err
		}
		patch.Location = &loc
	}
	return patch, nil
}

type storeResponse struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Location    locationJSON `json:"location"`
	Photo       string       `json:"photo,omitempty"`
	Author      uuid.UUID    `json:"author"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func storeToResponse(s domain.Store) storeResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return storeResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Tags:        tags,
		Location:    locationToResponse(s.Location),
		Photo:       s.Photo,
		Author:      s.AuthorID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func storesToResponse(stores []domain.Store) []storeResponse {
	out := make([]storeResponse, len(stores))
	for i, s := range stores {
		out[i] = storeToResponse(s)
	}
	return out
}

type storeSummaryResponse struct {
	storeResponse
	ReviewCount   int      `json:"reviewCount"`
	AverageRating *float64 `json:"averageRating,omitempty"`
}

type storeDetailResponse struct {
	storeResponse
	Reviews []reviewResponse `json:"reviews"`
}

type projectionResponse struct {
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Location    locationJSON `json:"location"`
	Photo       string       `json:"photo,omitempty"`
}

type reviewResponse struct {
	ID        uuid.UUID `json:"id"`
	Store     uuid.UUID `json:"store"`
	Author    uuid.UUID `json:"author"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func reviewsToResponse(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = reviewResponse{
			ID:        rv.ID,
			Store:     rv.StoreID,
			Author:    rv.AuthorID,
			Rating:    rv.Rating,
			Text:      rv.Text,
			CreatedAt: rv.CreatedAt,
		}
	}
	return out
}

type tagCountResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type tagListingResponse struct {
	Tag    string             `json:"tag"`
	Tags   []tagCountResponse `json:"tags"`
	Stores []storeResponse    `json:"stores"`
}

func tagListingToResponse(tag string, counts []domain.TagCount, stores []domain.Store) tagListingResponse {
	tags := make([]tagCountResponse, len(counts))
	for i, c := range counts {
		tags[i] = tagCountResponse{Tag: c.Tag, Count: c.Count}
	}
	return tagListingResponse{Tag: tag, Tags: tags, Stores: storesToResponse(stores)}
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type storePageResponse struct {
	Data       []storeResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type heartResponse struct {
	Hearted bool `json:"hearted"`
}

type healthResponse struct {
	Status string `json:"status"`
}
