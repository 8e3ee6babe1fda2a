package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStorage persists preferences as a jsonb document per user in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE notification_preferences (
//	    user_id    TEXT PRIMARY KEY,
//	    prefs      JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Storage backed by the given connection pool.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Load(ctx context.Context, userID string) (json.RawMessage, error) {
	var doc json.RawMessage
	err := s.pool.QueryRow(ctx,
		`SELECT prefs FROM notification_preferences WHERE user_id = $1`,
		userID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return doc, nil
}

func (s *PGStorage) Save(ctx context.Context, userID string, prefs Preferences) error {
	doc, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO notification_preferences (user_id, prefs, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET prefs = EXCLUDED.prefs, updated_at = now()`,
		userID, doc,
	)
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

func (s *PGStorage) ListDigestUsers(ctx context.Context, freq DigestFrequency) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM notification_preferences WHERE prefs->>'digest' = $1`,
		string(freq),
	)
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Join(ErrStorageUnavailable, err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return users, nil
}
