package memory

import (
	"context"
	"sync"

	"github.com/springbooks/storefront/internal/cart/domain"
)

// Store keeps encoded snapshots in a map. It goes through the same
// encode/decode path as the redis store so versioning behaves identically;
// used by tests and local development.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	s.mu.Lock()
	payload, ok := s.data[userID]
	s.mu.Unlock()

	if !ok {
		return domain.Snapshot{}, false, nil
	}
	snap, err := domain.DecodeSnapshot(payload)
	if err != nil {
		return domain.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	payload, err := domain.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[userID] = payload
	s.mu.Unlock()
	return nil
}

// SeedRaw plants an arbitrary payload, bypassing the encoder. Tests use it to
// simulate legacy and corrupt snapshots.
func (s *Store) SeedRaw(userID string, payload []byte) {
	s.mu.Lock()
	s.data[userID] = payload
	s.mu.Unlock()
}
