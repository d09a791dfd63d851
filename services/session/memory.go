package session

import (
	"context"
	"sync"

	"venuebook/models"
)

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	tokens models.TokenPair
}

func NewMemoryStore(tokens models.TokenPair) *MemoryStore {
	return &MemoryStore{tokens: tokens}
}

func (s *MemoryStore) Load(context.Context) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens, nil
}

func (s *MemoryStore) Save(_ context.Context, tokens models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = models.TokenPair{}
	return nil
}

func (s *MemoryStore) ClearIfRefresh(_ context.Context, refresh string) (models.TokenPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens.Refresh != refresh {
		return s.tokens, false, nil
	}
	s.tokens = models.TokenPair{}
	return s.tokens, true, nil
}
