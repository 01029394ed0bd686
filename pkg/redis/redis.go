package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/latifliving/storefront-backend/config"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// revokedKeyPrefix namespaces revoked-token entries so the same Redis
// database can be shared with other caches.
const revokedKeyPrefix = "revoked_token:"

var client *redis.Client

// Init connects to Redis and verifies the connection with a ping. The
// server runs without Redis when this fails; callers decide how to degrade.
func Init(cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})
	return nil
}

// GetClient returns the shared client, or nil when Redis is unavailable.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection.
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// BlacklistToken records a revoked access token until its natural expiry,
// after which the key lapses on its own.
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if err := client.Set(ctx, revokedKeyPrefix+token, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted reports whether a token has been revoked via logout.
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	_, err := client.Get(ctx, revokedKeyPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}
	return true, nil
}
