package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const defaultCacheTTL = 24 * time.Hour

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCacheTTL overrides how long resolved preferences stay cached.
func WithCacheTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithLogger sets the logger used for cache and storage warnings.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store resolves user preferences by layering a cache over the backing
// storage, deep-merging stored documents over Defaults.
type Store struct {
	storage  Storage
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewStore creates a preference store. The cache may be nil, in which case
// every Get goes to storage.
func NewStore(storage Storage, cache Cache, opts ...StoreOption) *Store {
	s := &Store{
		storage:  storage,
		cache:    cache,
		cacheTTL: defaultCacheTTL,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(userID string) string {
	return "prefs:" + userID
}

// Get returns the user's preferences. Users with no stored document get
// Defaults. When storage is unreachable Get still returns Defaults so the
// caller can proceed, alongside the storage error.
func (s *Store) Get(ctx context.Context, userID string) (Preferences, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, cacheKey(userID)); err != nil {
			s.log.WarnContext(ctx, "preferences cache read failed",
				slog.String("user_id", userID), slog.Any("error", err))
		} else if ok {
			p := Defaults()
			if err := json.Unmarshal(data, &p); err == nil {
				return p, nil
			}
			// Corrupt cache entry, fall through to storage.
		}
	}

	doc, err := s.storage.Load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), errors.Join(ErrStorageUnavailable, err)
	}

	p := Defaults()
	if err := json.Unmarshal(doc, &p); err != nil {
		return Defaults(), fmt.Errorf("unmarshal preferences for user %s: %w", userID, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(ctx, cacheKey(userID), data, s.cacheTTL); err != nil {
				s.log.WarnContext(ctx, "preferences cache write failed",
					slog.String("user_id", userID), slog.Any("error", err))
			}
		}
	}
	return p, nil
}

// Update merges the patch over the user's current preferences, persists the
// result and invalidates the cache entry. The merged preferences are returned.
func (s *Store) Update(ctx context.Context, userID string, patch Patch) (Preferences, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}

	merged := current.Apply(patch)
	if err := s.storage.Save(ctx, userID, merged); err != nil {
		return Preferences{}, fmt.Errorf("save preferences for user %s: %w", userID, err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(userID)); err != nil {
			s.log.WarnContext(ctx, "preferences cache invalidation failed",
				slog.String("user_id", userID), slog.Any("error", err))
		}
	}
	return merged, nil
}

// Invalidate drops the cached entry for a user.
func (s *Store) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cacheKey(userID))
}

// ListDigestUsers returns the ids of users whose digest frequency matches freq.
func (s *Store) ListDigestUsers(ctx context.Context, freq DigestFrequency) ([]string, error) {
	return s.storage.ListDigestUsers(ctx, freq)
}
