// Package domain contains the core data types for the store locator.
// This package depends only on uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PointType is the only GeoJSON geometry a store location may have.
const PointType = "Point"

// Location is where a store is. Type is always PointType; it is re-asserted
// on every write because stored defaults are not applied on update.
type Location struct {
	Type        string
	Coordinates Point
	Address     string
}

// Store is a storefront listing owned by exactly one author account.
// Slug is derived from Name and never supplied by the caller.
type Store struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	Tags        []string
	Location    Location
	Photo       string // file name of an externally stored image, empty when absent
	AuthorID    uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StoreInput is the validated write payload for a new store.
type StoreInput struct {
	Name        string
	Description string
	Tags        []string
	Location    Location
	Photo       string
}

// StorePatch holds the fields an owner wants to change. Nil means unchanged.
type StorePatch struct {
	Name        *string
	Description *string
	Tags        *[]string
	Location    *Location
	Photo       *string
}

// StoreSummary is a store augmented with its review statistics.
// AverageRating is nil when ReviewCount is zero.
type StoreSummary struct {
	Store
	ReviewCount   int
	AverageRating *float64
}

// StoreProjection is the narrow field set used for map rendering.
type StoreProjection struct {
	Slug        string
	Name        string
	Description string
	Location    Location
	Photo       string
}

// Project returns the map projection of s.
func (s Store) Project() StoreProjection {
	return StoreProjection{
		Slug:        s.Slug,
		Name:        s.Name,
		Description: s.Description,
		Location:    s.Location,
		Photo:       s.Photo,
	}
}

// StoreDetail is a single store with its reviews joined on demand.
type StoreDetail struct {
	Store
	Reviews []Review
}

// TagCount is the number of stores carrying Tag.
type TagCount struct {
	Tag   string
	Count int
}

// TagListing is the tag browsing view: every tag count plus the stores for
// the selected tag (all stores when Tag is empty).
type TagListing struct {
	Tag    string
	Tags   []TagCount
	Stores []Store
}

// NormalizeTags trims every tag, drops empties and duplicates, and sorts the
// result. It never returns nil.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
