package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/springbooks/storefront/internal/cart/app"
	"github.com/springbooks/storefront/internal/cart/domain"
	"github.com/springbooks/storefront/internal/cart/infra/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBook(id, price string) domain.Book {
	return domain.Book{ID: id, Title: "title-" + id, Author: "author", Price: decimal.RequireFromString(price)}
}

// failStore records saves and fails every one of them.
type failStore struct {
	mu    sync.Mutex
	saves int
}

func (f *failStore) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	return domain.Snapshot{}, false, nil
}

func (f *failStore) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	f.mu.Lock()
	f.saves++
	f.mu.Unlock()
	return errors.New("store down")
}

func TestManagerPersistsAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	m := app.NewManager("u1", store, discardLogger())
	if err := m.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	m.AddItem(ctx, testBook("b1", "20.00"))
	m.AddItem(ctx, testBook("b1", "20.00"))
	m.SetQuantity(ctx, "b1", 5)

	snap, ok, err := store.Load(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("expected persisted snapshot, ok=%v err=%v", ok, err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 5 {
		t.Fatalf("persisted state out of sync: %+v", snap.Items)
	}
}

func TestManagerHydratesFromStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first := app.NewManager("u1", store, discardLogger())
	if err := first.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	first.AddItem(ctx, testBook("b1", "20.00"))
	first.AddItem(ctx, testBook("b2", "10.00"))

	// New session, same store: the cart comes back.
	second := app.NewManager("u1", store, discardLogger())
	if err := second.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	items := second.Items()
	if len(items) != 2 || items[0].BookID != "b1" || items[1].BookID != "b2" {
		t.Fatalf("hydrated cart wrong: %+v", items)
	}
	if got := second.Subtotal(); !got.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected subtotal 30.00, got %s", got)
	}
}

func TestManagerHydrateCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SeedRaw("u1", []byte(`{"items": garbage`))

	m := app.NewManager("u1", store, discardLogger())
	if err := m.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate should fall back, not fail: %v", err)
	}
	if len(m.Items()) != 0 {
		t.Fatalf("expected empty cart after corrupt snapshot")
	}
}

func TestManagerHydrateLegacySnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SeedRaw("u1", []byte(`{"items":[{"id":"b1","title":"Dune","author":"Herbert","price":"12.99","quantity":3}]}`))

	m := app.NewManager("u1", store, discardLogger())
	if err := m.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	items := m.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("legacy snapshot not hydrated: %+v", items)
	}

	// Next mutation rewrites the snapshot at the current schema version.
	m.AddItem(ctx, testBook("b1", "12.99"))
	snap, ok, err := store.Load(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("expected upgraded snapshot, ok=%v err=%v", ok, err)
	}
	if snap.SchemaVersion != domain.SnapshotSchemaVersion {
		t.Fatalf("expected schema version %d after rewrite, got %d", domain.SnapshotSchemaVersion, snap.SchemaVersion)
	}
}

// outageStore delegates to an inner store but fails the next n Loads with a
// transport error.
type outageStore struct {
	inner    *memory.Store
	mu       sync.Mutex
	failures int
}

func (o *outageStore) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	o.mu.Lock()
	if o.failures > 0 {
		o.failures--
		o.mu.Unlock()
		return domain.Snapshot{}, false, errors.New("dial tcp: connection refused")
	}
	o.mu.Unlock()
	return o.inner.Load(ctx, userID)
}

func (o *outageStore) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	return o.inner.Save(ctx, userID, snap)
}

func seedSavedCart(t *testing.T, inner *memory.Store, userID string) {
	t.Helper()
	ctx := context.Background()
	m := app.NewManager(userID, inner, discardLogger())
	if err := m.Hydrate(ctx); err != nil {
		t.Fatalf("seed hydrate: %v", err)
	}
	m.AddItem(ctx, testBook("b1", "20.00"))
	m.AddItem(ctx, testBook("b2", "10.00"))
}

func TestManagerHydrateTransientOutageIsNotCorruption(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	seedSavedCart(t, inner, "u1")

	store := &outageStore{inner: inner, failures: 1}
	m := app.NewManager("u1", store, discardLogger())

	// A transport failure must surface, not fabricate an empty cart.
	if err := m.Hydrate(ctx); err == nil {
		t.Fatal("expected hydrate error during store outage")
	}

	// Once the store is back, the saved cart comes through intact.
	if err := m.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate after outage: %v", err)
	}
	items := m.Items()
	if len(items) != 2 || items[0].BookID != "b1" || items[1].BookID != "b2" {
		t.Fatalf("saved cart lost across outage: %+v", items)
	}
}

func TestServiceOutageDoesNotDestroySavedCart(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	seedSavedCart(t, inner, "u1")

	store := &outageStore{inner: inner, failures: 1}
	svc := app.NewService(store, discardLogger())

	if _, err := svc.GetOrCreate(ctx, "u1"); err == nil {
		t.Fatal("expected GetOrCreate to fail during store outage")
	}

	// The retry hydrates the saved cart, and a new mutation extends it
	// instead of replacing it.
	m, err := svc.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate after outage: %v", err)
	}
	m.AddItem(ctx, testBook("b3", "5.00"))

	snap, ok, err := inner.Load(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("expected persisted snapshot, ok=%v err=%v", ok, err)
	}
	if len(snap.Items) != 3 {
		t.Fatalf("expected saved lines plus the new one, got %+v", snap.Items)
	}
}

func TestManagerPersistFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	store := &failStore{}

	m := app.NewManager("u1", store, discardLogger())
	if err := m.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	m.AddItem(ctx, testBook("b1", "20.00"))
	m.AddItem(ctx, testBook("b2", "15.00"))
	m.RemoveItem(ctx, "b2")

	if store.saves != 3 {
		t.Fatalf("expected a save per mutation, got %d", store.saves)
	}
	// In-memory state stays authoritative for the session.
	items := m.Items()
	if len(items) != 1 || items[0].BookID != "b1" {
		t.Fatalf("in-memory state lost after persist failures: %+v", items)
	}
}

func TestServiceGetOrCreateReturnsSameManager(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewStore(), discardLogger())

	a, err := svc.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	b, err := svc.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if a != b {
		t.Fatal("expected one manager per user")
	}

	other, err := svc.GetOrCreate(ctx, "u2")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if other == a {
		t.Fatal("users must not share a manager")
	}
}

func TestServiceDisposeKeepsPersistedState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := app.NewService(store, discardLogger())

	m, err := svc.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	m.AddItem(ctx, testBook("b1", "20.00"))

	svc.Dispose("u1")

	again, err := svc.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate after dispose: %v", err)
	}
	if again == m {
		t.Fatal("expected a fresh manager after dispose")
	}
	if items := again.Items(); len(items) != 1 || items[0].BookID != "b1" {
		t.Fatalf("state should survive dispose via the store: %+v", items)
	}
}

func TestManagerConcurrentAddsMerge(t *testing.T) {
	ctx := context.Background()
	m := app.NewManager("u1", memory.NewStore(), discardLogger())
	if err := m.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AddItem(ctx, testBook("b1", "20.00"))
		}()
	}
	wg.Wait()

	items := m.Items()
	if len(items) != 1 || items[0].Quantity != n {
		t.Fatalf("expected one line with quantity %d, got %+v", n, items)
	}
}
