package venueRepo

import (
	"context"

	"venuebook/models"
)

// NoopVenueCache always misses. Used when sessions live in memory and no
// Redis is configured.
type NoopVenueCache struct{}

func (NoopVenueCache) Get(context.Context, string, int64) (*models.Venue, error) {
	return nil, ErrCacheMiss
}

func (NoopVenueCache) Set(context.Context, string, *models.Venue) error { return nil }

func (NoopVenueCache) Invalidate(context.Context, int64) error { return nil }
