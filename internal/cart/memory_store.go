package cart

import (
	"context"

	"storefront-service/internal/models"
)

// MemoryStore is an in-process Store used when Redis is not configured
// and in tests. Carts held here do not survive a restart.
type MemoryStore struct {
	entries []models.CartEntry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the stored state with a copy of entries.
func (s *MemoryStore) Save(_ context.Context, entries []models.CartEntry) error {
	s.entries = make([]models.CartEntry, len(entries))
	copy(s.entries, entries)
	return nil
}

// Load returns a copy of the stored state.
func (s *MemoryStore) Load(_ context.Context) ([]models.CartEntry, error) {
	out := make([]models.CartEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
