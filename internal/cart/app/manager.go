package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/springbooks/storefront/internal/cart/domain"
)

// Manager owns one user's cart for the lifetime of a session. Mutations never
// fail by contract: the in-memory cart is authoritative, and each mutation is
// followed by a best-effort persist of the full snapshot. A persist failure is
// logged and the session carries on.
//
// Lifecycle: NewManager -> Hydrate -> mutations -> Dispose (via Service).
type Manager struct {
	userID string
	store  SnapshotStore
	log    *slog.Logger

	mu       sync.Mutex
	cart     domain.Cart
	hydrated bool
}

func NewManager(userID string, store SnapshotStore, log *slog.Logger) *Manager {
	return &Manager{
		userID: userID,
		store:  store,
		log:    log.With(slog.String("user_id", userID)),
	}
}

// Hydrate loads the persisted snapshot on first use; later calls are no-ops.
// A corrupt or unsupported snapshot is logged loudly and the cart starts
// empty, with the stored value left in place until the next mutation
// overwrites it. A store transport failure is returned instead: starting
// empty there would let the next mutation persist over a cart that is still
// intact, so the caller retries hydration.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hydrated {
		return nil
	}

	snap, ok, err := m.store.Load(ctx, m.userID)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptSnapshot) {
			m.log.Error("cart snapshot unreadable, starting empty", slog.Any("err", err))
			m.cart = domain.Cart{}
			m.hydrated = true
			return nil
		}
		return fmt.Errorf("hydrate cart for %s: %w", m.userID, err)
	}

	if ok {
		m.cart = snap.Cart()
	} else {
		m.cart = domain.Cart{}
	}
	m.hydrated = true
	return nil
}

func (m *Manager) AddItem(ctx context.Context, b domain.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart.Add(b)
	m.persistLocked(ctx)
}

func (m *Manager) RemoveItem(ctx context.Context, bookID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart.Remove(bookID)
	m.persistLocked(ctx)
}

func (m *Manager) SetQuantity(ctx context.Context, bookID string, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart.SetQuantity(bookID, qty)
	m.persistLocked(ctx)
}

func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart.Clear()
	m.persistLocked(ctx)
}

// Items returns a snapshot copy of the current lines in insertion order.
func (m *Manager) Items() []domain.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone().Items
}

func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Subtotal()
}

// persistLocked writes the current snapshot. Must hold m.mu, which also
// guarantees persists happen in mutation order.
func (m *Manager) persistLocked(ctx context.Context) {
	if err := m.store.Save(ctx, m.userID, domain.NewSnapshot(m.cart)); err != nil {
		m.log.Error("cart persist failed, in-memory state kept", slog.Any("err", err))
	}
}
