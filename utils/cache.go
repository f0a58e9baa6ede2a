package utils

import (
	"context"
	"log"
	"sync"
	"time"

	"tourbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the visitor session store.
	CacheClient *redis.Client
	// RateClient is the dedicated client for rate-limit counters.
	RateClient *redis.Client

	cacheOnce sync.Once
	rateOnce  sync.Once
)

// InitCache initializes the Redis client for session caching.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the session cache client.
func GetCacheClient() *redis.Client {
	cacheOnce.Do(InitCache)
	return CacheClient
}

// InitRateCache initializes the Redis client for rate-limit counters.
func InitRateCache() {
	RateClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRateDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := RateClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Rate): %v", err)
	}
}

// GetRateClient returns the Redis client for rate-limit counters.
func GetRateClient() *redis.Client {
	rateOnce.Do(InitRateCache)
	return RateClient
}
