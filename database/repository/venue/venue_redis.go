package venueRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"venuebook/models"
)

const venuePrefix = "venue:"

// Languages whose cached copies are dropped on Invalidate.
var cachedLangs = []string{"uz", "ru", "en"}

type RedisVenueCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVenueCache(client *redis.Client, ttl time.Duration) *RedisVenueCache {
	return &RedisVenueCache{client: client, ttl: ttl}
}

func venueKey(lang string, id int64) string {
	return fmt.Sprintf("%s%s:%d", venuePrefix, lang, id)
}

func (r *RedisVenueCache) Get(ctx context.Context, lang string, id int64) (*models.Venue, error) {
	data, err := r.client.Get(ctx, venueKey(lang, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached venue: %w", err)
	}
	var v models.Venue
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached venue: %w", err)
	}
	return &v, nil
}

func (r *RedisVenueCache) Set(ctx context.Context, lang string, venue *models.Venue) error {
	data, err := json.Marshal(venue)
	if err != nil {
		return fmt.Errorf("failed to marshal venue: %w", err)
	}
	return r.client.Set(ctx, venueKey(lang, venue.ID), data, r.ttl).Err()
}

func (r *RedisVenueCache) Invalidate(ctx context.Context, id int64) error {
	keys := make([]string, 0, len(cachedLangs))
	for _, lang := range cachedLangs {
		keys = append(keys, venueKey(lang, id))
	}
	return r.client.Del(ctx, keys...).Err()
}
