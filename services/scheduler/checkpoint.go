// File: services/scheduler/checkpoint.go
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meetsync/models"

	"github.com/go-redis/redis/v8"
)

const checkpointPrefix = "sched:ckpt:"

// CheckpointStore persists ConversationState per session so execution can be
// paused indefinitely and resumed exactly where it left off.
type CheckpointStore interface {
	Load(ctx context.Context, sessionID string) (*models.ConversationState, error)
	Save(ctx context.Context, state *models.ConversationState) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisCheckpointStore keeps checkpoints in Redis with a TTL refreshed on
// every save, so abandoned sessions age out on their own.
type RedisCheckpointStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCheckpointStore(client *redis.Client, ttl time.Duration) *RedisCheckpointStore {
	return &RedisCheckpointStore{client: client, ttl: ttl}
}

func (s *RedisCheckpointStore) Load(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	data, err := s.client.Get(ctx, checkpointPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	return &state, nil
}

func (s *RedisCheckpointStore) Save(ctx context.Context, state *models.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := s.client.Set(ctx, checkpointPrefix+state.SessionID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("store checkpoint: %w", err)
	}
	return nil
}

func (s *RedisCheckpointStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, checkpointPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}
