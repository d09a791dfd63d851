package database

import (
	"context"
	"fmt"
	"time"

	"venuebook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionClient holds browser sessions.
	SessionClient *redis.Client
	// CacheClient holds cached backend responses.
	CacheClient *redis.Client
)

// InitRedis connects both Redis clients and pings them.
func InitRedis(ctx context.Context) error {
	var err error
	if SessionClient, err = open(ctx, config.AppConfig.RedisSessionDB); err != nil {
		return fmt.Errorf("session redis: %w", err)
	}
	if CacheClient, err = open(ctx, config.AppConfig.RedisCacheDB); err != nil {
		return fmt.Errorf("cache redis: %w", err)
	}
	return nil
}

func open(ctx context.Context, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Ping reports whether every initialized client answers.
func Ping(ctx context.Context) map[string]bool {
	status := map[string]bool{}
	for name, client := range map[string]*redis.Client{"session": SessionClient, "cache": CacheClient} {
		if client == nil {
			continue
		}
		status[name] = client.Ping(ctx).Err() == nil
	}
	return status
}

// Close releases the clients.
func Close() {
	for _, client := range []*redis.Client{SessionClient, CacheClient} {
		if client != nil {
			client.Close()
		}
	}
}
