package testutil

import (
	"github.com/google/uuid"

	"github.com/pkordes/store-locator/internal/domain"
)

// StoreFixture returns a valid store with the given name and slug, placed in
// downtown Toronto. Callers override individual fields as needed.
func StoreFixture(name, slug string) domain.Store {
	return domain.Store{
		Name:        name,
		Slug:        slug,
		Description: "Coffee, pastries and a quiet back room.",
		Tags:        []string{"Family Friendly", "Wifi"},
		Location: domain.Location{
			Type:        domain.PointType,
			Coordinates: domain.Point{Lng: -79.3832, Lat: 43.6532},
			Address:     "100 Queen St W, Toronto",
		},
		AuthorID: uuid.New(),
	}
}
