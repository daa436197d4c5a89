package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/springbooks/storefront/internal/cart/domain"
)

const keyPrefix = "cart:"

// Store persists cart snapshots as JSON values under a fixed key namespace.
// Snapshots have no TTL; the cart service owns the namespace.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	payload, err := s.rdb.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("load cart for %s: %w", userID, err)
	}

	snap, err := domain.DecodeSnapshot(payload)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("load cart for %s: %w", userID, err)
	}
	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	payload, err := domain.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+userID, payload, 0).Err(); err != nil {
		return fmt.Errorf("save cart for %s: %w", userID, err)
	}
	return nil
}
