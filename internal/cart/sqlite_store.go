package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// storeKey is the single well-known key the cart snapshot lives under.
const storeKey = "cart"

// SQLiteStore persists the cart snapshot in the cart_store table, one row per
// key. Writes upsert the full payload.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore returns a store writing under the default cart key.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, key: storeKey}
}

// NewSQLiteStoreWithKey returns a store writing under a caller-chosen key,
// for hosts that keep one cart per session in the same table.
func NewSQLiteStoreWithKey(db *sql.DB, key string) *SQLiteStore {
	return &SQLiteStore{db: db, key: key}
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload
		FROM cart_store
		WHERE key = ?
	`, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query cart snapshot: %w", err)
	}
	return payload, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_store (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, s.key, payload)
	if err != nil {
		return fmt.Errorf("upsert cart snapshot: %w", err)
	}
	return nil
}
