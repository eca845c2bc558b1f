package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"newsproof/backend/internal/config"
)

// Cache is a read-through Redis cache for analyze responses and source
// scores. A zero Cache is valid and disabled; every method is a no-op then,
// so callers never branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(cfg config.Config) Cache {
	if cfg.RedisURL == "" {
		return Cache{}
	}

	options, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("cache disabled: parse redis url: %v", err)
		return Cache{}
	}

	client := redis.NewClient(options)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache disabled: ping redis: %v", err)
		return Cache{}
	}

	return Cache{client: client, ttl: cfg.CacheTTL}
}

func (c Cache) Enabled() bool {
	return c.client != nil
}

func (c Cache) Get(ctx context.Context, key string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (c Cache) Set(ctx context.Context, key, value string) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// AnalyzeKey hashes the submission so arbitrarily long article bodies become
// fixed-size cache keys.
func AnalyzeKey(inputType, inputValue string) string {
	sum := sha256.Sum256([]byte(inputType + "\x00" + inputValue))
	return "analyze:" + base64.RawURLEncoding.EncodeToString(sum[:])
}

func SourceKey(domain string) string {
	return "source:" + domain
}
