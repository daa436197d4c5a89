package app

import (
	"context"
	"log/slog"
	"sync"
)

// Service hands out one Manager per user, hydrating it from the snapshot store
// on first use. Managers are kept for the process lifetime unless disposed;
// their state survives in the store either way.
type Service struct {
	store SnapshotStore
	log   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Manager
}

func NewService(store SnapshotStore, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		log:      log,
		sessions: make(map[string]*Manager),
	}
}

func (s *Service) GetOrCreate(ctx context.Context, userID string) (*Manager, error) {
	s.mu.Lock()
	m, ok := s.sessions[userID]
	if !ok {
		m = NewManager(userID, s.store, s.log)
		s.sessions[userID] = m
	}
	s.mu.Unlock()

	// Hydration runs outside the registry lock so one slow store load cannot
	// stall other users. Hydrate is idempotent and serialized per manager;
	// after a transient store failure the next call retries it.
	if err := m.Hydrate(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Dispose drops the in-memory manager for a user.
func (s *Service) Dispose(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}
