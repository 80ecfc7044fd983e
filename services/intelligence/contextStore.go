// File: services/intelligence/contextStore.go
package ai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"

	"github.com/go-redis/redis/v8"
)

const agentContextPrefix = "agent:ctx:"

// maxHistoryTurns bounds the stored conversation so prompts stay small.
const maxHistoryTurns = 20

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, phoneNumber string) (*models.AgentContext, error) {
	key := agentContextPrefix + phoneNumber
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.AgentContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var agentCtx models.AgentContext
	if err := json.Unmarshal([]byte(data), &agentCtx); err != nil {
		return nil, err
	}
	return &agentCtx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, phoneNumber string, agentCtx *models.AgentContext) error {
	if len(agentCtx.History) > maxHistoryTurns {
		agentCtx.History = agentCtx.History[len(agentCtx.History)-maxHistoryTurns:]
	}
	key := agentContextPrefix + phoneNumber
	b, err := json.Marshal(agentCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, phoneNumber string) error {
	key := agentContextPrefix + phoneNumber
	return s.client.Del(ctx, key).Err()
}
