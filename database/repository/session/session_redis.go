package sessionRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionPrefix = "browserSession:"

// maxUpdateAttempts bounds optimistic retries when concurrent requests of the
// same browser race on one key.
const maxUpdateAttempts = 5

type RedisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepo(client *redis.Client, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{client: client, ttl: ttl}
}

func (r *RedisSessionRepo) Create(ctx context.Context, lang string) (*BrowserSession, error) {
	now := time.Now()
	s := &BrowserSession{
		ID:        uuid.New().String(),
		Lang:      lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal browser session: %w", err)
	}
	if err := r.client.Set(ctx, sessionPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to save browser session: %w", err)
	}
	return s, nil
}

// Get also extends the session's TTL.
func (r *RedisSessionRepo) Get(ctx context.Context, id string) (*BrowserSession, error) {
	data, err := r.client.GetEx(ctx, sessionPrefix+id, r.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load browser session: %w", err)
	}
	return decode(data)
}

func (r *RedisSessionRepo) Update(ctx context.Context, id string, fn func(*BrowserSession) error) (*BrowserSession, error) {
	key := sessionPrefix + id
	var updated *BrowserSession

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}
		s, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = time.Now()
		out, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal browser session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("browser session %s: too many concurrent updates", id)
}

func (r *RedisSessionRepo) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionPrefix+id).Err()
}

func decode(data []byte) (*BrowserSession, error) {
	var s BrowserSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal browser session: %w", err)
	}
	return &s, nil
}
