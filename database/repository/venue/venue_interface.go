package venueRepo

import (
	"context"
	"errors"

	"venuebook/models"
)

// ErrCacheMiss is returned when no cached venue exists for the key.
var ErrCacheMiss = errors.New("venue not cached")

// VenueCache stores venue details per language, since the backend localizes them.
type VenueCache interface {
	Get(ctx context.Context, lang string, id int64) (*models.Venue, error)
	Set(ctx context.Context, lang string, venue *models.Venue) error
	Invalidate(ctx context.Context, id int64) error
}
