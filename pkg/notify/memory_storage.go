package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage for tests and development.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string][]Record // keyed by user id
}

// NewMemoryStorage creates an empty in-memory record store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string][]Record)}
}

func (s *MemoryStorage) Create(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = append(s.records[rec.UserID], rec)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records[userID] {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

func (s *MemoryStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Record
	for _, r := range s.records[userID] {
		if r.IsExpired() {
			continue
		}
		if opts.OnlyUnread && r.Read {
			continue
		}
		if opts.Category != nil && r.Category != *opts.Category {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	start := opts.offset()
	if start > total {
		return []Record{}, total, nil
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, exists := s.records[userID]
	if !exists {
		return nil
	}

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for i := range records {
		if idSet[records[i].ID] {
			records[i].MarkAsRead()
		}
	}
	s.records[userID] = records
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, exists := s.records[userID]
	if !exists {
		return nil
	}

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var kept []Record
	for _, r := range records {
		if !idSet[r.ID] {
			kept = append(kept, r)
		}
	}
	s.records[userID] = kept
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.records[userID] {
		if !r.Read && !r.IsExpired() {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) ListForDigest(ctx context.Context, userID string, since time.Time) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records[userID] {
		if r.Read || r.Digested || r.IsExpired() || !r.CreatedAt.After(since) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryStorage) MarkDigested(ctx context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, exists := s.records[userID]
	if !exists {
		return nil
	}

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for i := range records {
		if idSet[records[i].ID] {
			records[i].MarkDigested()
		}
	}
	s.records[userID] = records
	return nil
}
