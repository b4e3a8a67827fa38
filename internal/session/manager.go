package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
)

// StoreFactory builds the cart store for a session id. The Redis
// factory scopes each session to its own key; tests plug in memory
// stores.
type StoreFactory func(sessionID string) cart.Store

// Manager creates and tracks sessions against one catalog snapshot.
// Sessions are created lazily on first use and hydrate their cart from
// the store, so a returning visitor keeps their cart across visits.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	snapshot     *catalog.Snapshot
	storeFactory StoreFactory
	debounce     time.Duration
	listeners    []RenderListener
	logger       *logrus.Logger
}

// NewManager creates a session manager. Listeners registered here are
// subscribed to every session the manager creates.
func NewManager(snapshot *catalog.Snapshot, storeFactory StoreFactory, debounce time.Duration, logger *logrus.Logger, listeners ...RenderListener) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		snapshot:     snapshot,
		storeFactory: storeFactory,
		debounce:     debounce,
		listeners:    listeners,
		logger:       logger,
	}
}

// Get returns the session for the id, creating it if needed.
func (m *Manager) Get(ctx context.Context, sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		return s
	}
	s := newSession(ctx, sessionID, m.snapshot, m.storeFactory(sessionID), m.debounce, m.logger)
	for _, l := range m.listeners {
		s.listeners = append(s.listeners, l)
	}
	m.sessions[sessionID] = s
	return s
}

// Snapshot returns the catalog snapshot sessions browse against.
func (m *Manager) Snapshot() *catalog.Snapshot {
	return m.snapshot
}

// Close stops all session timers.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.Close()
	}
}
