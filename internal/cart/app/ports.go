package app

import (
	"context"

	"github.com/springbooks/storefront/internal/cart/domain"
)

// SnapshotStore is the persisted key-value collaborator. Only the cart service
// writes to its namespace.
type SnapshotStore interface {
	Load(ctx context.Context, userID string) (domain.Snapshot, bool, error)
	Save(ctx context.Context, userID string, snap domain.Snapshot) error
}
