package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"meetsync/models"
)

// MemoryCheckpointStore is an in-process CheckpointStore for tests and
// redis-less development. States are stored serialized so callers never
// share memory with the store.
type MemoryCheckpointStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{states: make(map[string][]byte)}
}

func (s *MemoryCheckpointStore) Load(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	s.mu.RLock()
	data, ok := s.states[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCheckpointNotFound
	}
	var state models.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	return &state, nil
}

func (s *MemoryCheckpointStore) Save(ctx context.Context, state *models.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	s.mu.Lock()
	s.states[state.SessionID] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryCheckpointStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}
