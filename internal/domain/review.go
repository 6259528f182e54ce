package domain

import (
	"time"

	"github.com/google/uuid"
)

// MinRating and MaxRating bound Review.Rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is owned by the review subsystem; the store locator only reads it.
type Review struct {
	ID        uuid.UUID
	StoreID   uuid.UUID
	AuthorID  uuid.UUID
	Rating    int
	Text      string
	CreatedAt time.Time
}
