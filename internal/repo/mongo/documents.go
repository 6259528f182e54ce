// Package mongo implements the repo interfaces on MongoDB. Stores, reviews and
// hearts live in their own collections; identifiers are UUID strings so that
// records move freely between the Postgres and MongoDB backends.
package mongo

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/store-locator/internal/domain"
)

// Collections names the collections the repos read and write.
type Collections struct {
	Stores  string
	Reviews string
	Hearts  string
}

// DefaultCollections returns the collection names used in production.
func DefaultCollections() Collections {
	return Collections{Stores: "stores", Reviews: "reviews", Hearts: "hearts"}
}

// LocationDocument is a GeoJSON point with a free-text address alongside it.
type LocationDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"` // [lng, lat]
	Address     string    `bson:"address"`
}

// StoreDocument is the stores collection schema.
type StoreDocument struct {
	ID          string           `bson:"_id"`
	Name        string           `bson:"name"`
	Slug        string           `bson:"slug"`
	Description string           `bson:"description"`
	Tags        []string         `bson:"tags"`
	Location    LocationDocument `bson:"location"`
	Photo       string           `bson:"photo,omitempty"`
	AuthorID    string           `bson:"author"`
	CreatedAt   time.Time        `bson:"createdAt"`
	UpdatedAt   time.Time        `bson:"updatedAt"`
}

// ReviewDocument is the reviews collection schema.
type ReviewDocument struct {
	ID        string    `bson:"_id"`
	StoreID   string    `bson:"storeId"`
	AuthorID  string    `bson:"author"`
	Rating    int       `bson:"rating"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

// HeartDocument is the hearts collection schema.
type HeartDocument struct {
	AccountID string    `bson:"accountId"`
	StoreID   string    `bson:"storeId"`
	CreatedAt time.Time `bson:"createdAt"`
}

// rankedStoreDocument is a store decorated by the top-stores pipeline.
type rankedStoreDocument struct {
	StoreDocument `bson:",inline"`
	ReviewCount   int     `bson:"reviewCount"`
	AverageRating float64 `bson:"averageRating"`
}

func newStoreDocument(s domain.Store) StoreDocument {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return StoreDocument{
		ID:          s.ID.String(),
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Tags:        tags,
		Location: LocationDocument{
			Type:        domain.PointType,
			Coordinates: []float64{s.Location.Coordinates.Lng, s.Location.Coordinates.Lat},
			Address:     s.Location.Address,
		},
		Photo:     s.Photo,
		AuthorID:  s.AuthorID.String(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func mapStoreDocument(doc StoreDocument) domain.Store {
	var p domain.Point
	if len(doc.Location.Coordinates) == 2 {
		p = domain.Point{Lng: doc.Location.Coordinates[0], Lat: doc.Location.Coordinates[1]}
	}
	return domain.Store{
		ID:          parseID(doc.ID),
		Name:        doc.Name,
		Slug:        doc.Slug,
		Description: doc.Description,
		Tags:        append([]string{}, doc.Tags...),
		Location: domain.Location{
			Type:        domain.PointType,
			Coordinates: p,
			Address:     doc.Location.Address,
		},
		Photo:     doc.Photo,
		AuthorID:  parseID(doc.AuthorID),
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	return domain.Review{
		ID:        parseID(doc.ID),
		StoreID:   parseID(doc.StoreID),
		AuthorID:  parseID(doc.AuthorID),
		Rating:    doc.Rating,
		Text:      doc.Text,
		CreatedAt: doc.CreatedAt.UTC(),
	}
}

// parseID returns uuid.Nil for identifiers written by something other than
// this package.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
