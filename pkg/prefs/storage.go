package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Storage persists per-user preference documents. Load returns the raw
// stored JSON so callers can deep-merge it over Defaults; documents written
// by older application versions simply leave the newer fields at their
// default values.
type Storage interface {
	Load(ctx context.Context, userID string) (json.RawMessage, error)
	Save(ctx context.Context, userID string, prefs Preferences) error
	ListDigestUsers(ctx context.Context, freq DigestFrequency) ([]string, error)
}

// MemoryStorage is an in-memory Storage for tests and development.
type MemoryStorage struct {
	mu   sync.RWMutex
	docs map[string]Preferences
}

// NewMemoryStorage creates an empty in-memory preferences store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{docs: make(map[string]Preferences)}
}

func (s *MemoryStorage) Load(ctx context.Context, userID string) (json.RawMessage, error) {
	s.mu.RLock()
	p, ok := s.docs[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	return data, nil
}

func (s *MemoryStorage) Save(ctx context.Context, userID string, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[userID] = prefs
	return nil
}

func (s *MemoryStorage) ListDigestUsers(ctx context.Context, freq DigestFrequency) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []string
	for id, p := range s.docs {
		if p.Digest == freq {
			users = append(users, id)
		}
	}
	return users, nil
}
