package cart

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Store.Load when nothing has been persisted yet.
var ErrNoSnapshot = errors.New("cart: no persisted snapshot")

// Store is a durable key-value home for the serialized cart. Writes replace
// the whole snapshot (last writer wins); there is no finer-grained locking.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// MemoryStore keeps the snapshot in memory. Useful for tests and for callers
// that handle durability themselves.
type MemoryStore struct {
	payload []byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	if s.payload == nil {
		return nil, ErrNoSnapshot
	}
	out := make([]byte, len(s.payload))
	copy(out, s.payload)
	return out, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, payload []byte) error {
	s.payload = make([]byte, len(payload))
	copy(s.payload, payload)
	return nil
}
