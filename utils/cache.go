// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SchedulerClient holds the scheduled-task store (the ZSET of due reminders).
	SchedulerClient *redis.Client
	// AgentContextClient is the dedicated client for agent conversation caching.
	AgentContextClient *redis.Client
)

// InitSchedulerCache initializes the Redis client backing the reminder store.
func InitSchedulerCache() {
	SchedulerClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSchedulerDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SchedulerClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Scheduler): %v", err)
	}
}

// GetSchedulerCacheClient returns the reminder store client.
func GetSchedulerCacheClient() *redis.Client {
	if SchedulerClient == nil {
		InitSchedulerCache()
	}
	return SchedulerClient
}

// InitAgentContextCache initializes the Redis client for agent conversation state.
func InitAgentContextCache() {
	AgentContextClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAgentCtxDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AgentContextClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Agent Context): %v", err)
	}
}

// GetAgentContextCacheClient returns the Redis client for agent conversation state.
func GetAgentContextCacheClient() *redis.Client {
	if AgentContextClient == nil {
		InitAgentContextCache()
	}
	return AgentContextClient
}
