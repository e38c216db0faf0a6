package config

import (
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	onceRedis   sync.Once
)

// RedisClient returns the shared client for the profile snapshot cache.
func RedisClient() *redis.Client {
	onceRedis.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         Env().RedisAddr,
			Password:     Env().RedisPassword,
			DB:           0,
			MaxRetries:   3,
			PoolSize:     20,
			MinIdleConns: 2,
			PoolTimeout:  30 * time.Second,
		})
	})
	return redisClient
}
