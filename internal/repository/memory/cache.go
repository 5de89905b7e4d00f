package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// Store is an in-memory RequestThrottle, TokenDenylist and ActivityBroadcaster.
type Store struct {
	mu        sync.Mutex
	counters  map[string]int
	revoked   map[string]time.Duration
	Published []model.ActivityEntry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		counters: make(map[string]int),
		revoked:  make(map[string]time.Duration),
	}
}

// Allow counts attempts per key; windows never roll over.
func (s *Store) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key] <= limit, nil
}

func (s *Store) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = ttl
	return nil
}

func (s *Store) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

func (s *Store) Publish(_ context.Context, e *model.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, *e)
	return nil
}
