package cache

import (
	"context"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisCtx    = context.Background()
	initOnce    sync.Once
	initialized bool
	mockMode    bool
)

// InitRedis initializes the Redis connection. When the server is
// unreachable the package falls back to mock mode: callers get
// ErrRedisNotAvailable and degrade to local behaviour.
func InitRedis() error {
	initOnce.Do(func() {
		if os.Getenv("REDIS_MOCK") == "true" {
			log.Println("Forcing Redis mock mode")
			mockMode = true
			initialized = true
			return
		}

		redisAddr := os.Getenv("REDIS_ADDR")
		redisPassword := os.Getenv("REDIS_PASSWORD")
		redisDb := 0

		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if db, err := strconv.Atoi(dbStr); err == nil {
				redisDb = db
			}
		}

		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}

		client := redis.NewClient(&redis.Options{
			Addr:        redisAddr,
			Password:    redisPassword,
			DB:          redisDb,
			DialTimeout: 3 * time.Second,
			ReadTimeout: 3 * time.Second,
			PoolSize:    10,
		})

		if _, err := client.Ping(redisCtx).Result(); err != nil {
			log.Printf("Redis connection failed: %v, falling back to mock mode", err)
			mockMode = true
			initialized = true
			return
		}

		redisClient = client
		initialized = true
		log.Println("Redis connection initialized")
	})

	return nil
}

// GetClient returns the Redis client instance
func GetClient() (*redis.Client, error) {
	if !initialized || mockMode {
		return nil, ErrRedisNotAvailable
	}
	return redisClient, nil
}

// CloseRedis closes the Redis connection
func CloseRedis() {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Failed to close Redis connection: %v", err)
		}
	}
}
