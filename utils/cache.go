// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"resortagent/config"

	"github.com/go-redis/redis/v8"
)

// DedupCacheClient marks already-processed inbound mail so a restart between
// processing and the IMAP Seen flag cannot double-book.
var DedupCacheClient *redis.Client

// InitDedupCache initializes the Redis client for mailbox deduplication.
func InitDedupCache() {
	DedupCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDedupDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := DedupCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Dedup Cache): %v", err)
	}
}

// GetDedupCacheClient returns the Redis client for mailbox deduplication.
func GetDedupCacheClient() *redis.Client {
	if DedupCacheClient == nil {
		InitDedupCache()
	}
	return DedupCacheClient
}
