package utils

import (
	"context"
	"fmt"
	"time"

	"pulsefit/config"

	"github.com/go-redis/redis/v8"
)

var (
	// AuthCacheClient caches verified token hashes.
	AuthCacheClient *redis.Client
	// LockClient holds capacity leases when LOCK_DRIVER=redis.
	LockClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// InitAuthCache initializes the Redis client for authorization caching.
func InitAuthCache() error {
	client, err := newRedisClient(config.AppConfig.RedisAuthDB)
	if err != nil {
		return err
	}
	AuthCacheClient = client
	return nil
}

// InitLockClient initializes the Redis client used for distributed capacity locks.
func InitLockClient() error {
	client, err := newRedisClient(config.AppConfig.RedisLockDB)
	if err != nil {
		return err
	}
	LockClient = client
	return nil
}

// RedisClients returns every initialized client, for health checks and shutdown.
func RedisClients() []*redis.Client {
	var out []*redis.Client
	for _, c := range []*redis.Client{AuthCacheClient, LockClient} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
