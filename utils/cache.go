// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"meetsync/config"

	"github.com/go-redis/redis/v8"
)

// CheckpointCacheClient backs the conversation checkpoint store.
var CheckpointCacheClient *redis.Client

// InitRedis initializes the Redis client used for checkpoint persistence.
func InitRedis() {
	CheckpointCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCheckpointDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CheckpointCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (checkpoints): %v", err)
	}
}

// GetCheckpointCacheClient returns the checkpoint Redis client.
func GetCheckpointCacheClient() *redis.Client {
	if CheckpointCacheClient == nil {
		InitRedis()
	}
	return CheckpointCacheClient
}
