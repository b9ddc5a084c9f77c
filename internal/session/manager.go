// Package session keeps the live list sessions of the HTTP API.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/lombahub/internal/kv"
	"github.com/MrSnakeDoc/lombahub/internal/listing"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
	"github.com/MrSnakeDoc/lombahub/internal/prefs"
)

const (
	// DefaultIdleTTL is how long an untouched session stays in memory
	DefaultIdleTTL = 30 * time.Minute
)

var (
	// ErrInvalidID is returned for identifiers that are not UUIDs.
	ErrInvalidID = errors.New("session: invalid id")
	// ErrNotFound is returned when no live session has the identifier.
	ErrNotFound = errors.New("session: not found")
)

// Manager owns the live sessions. Engine state is ephemeral and dropped by
// Sweep; bookmarks and view mode live in the kv store and survive it.
type Manager struct {
	source  listing.Source
	store   kv.Store
	logger  logger.Logger
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session registry over the given catalog source.
// A nil store keeps preferences in memory only.
func NewManager(source listing.Source, store kv.Store, log logger.Logger, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Manager{
		source:   source,
		store:    store,
		logger:   log,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session with a fresh identifier.
func (m *Manager) Create(ctx context.Context, mobile bool) *Session {
	s := m.build(ctx, uuid.NewString(), mobile)
	m.put(s)
	m.logger.Debug("Session created", logger.String("session", s.ID), logger.Bool("mobile", mobile))
	return s
}

// Open returns the live session with id, or rebuilds one from the persisted
// preferences as a reloaded page would.
func (m *Manager) Open(ctx context.Context, id string, mobile bool) (*Session, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	if s, err := m.Get(id); err == nil {
		return s, nil
	}

	// Storage reads happen outside the registry lock.
	built := m.build(ctx, id, mobile)

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have rebuilt it meanwhile.
	if s, ok := m.sessions[id]; ok {
		s.touch(m.now())
		return s, nil
	}
	s := built
	m.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))

	m.logger.Debug("Session restored", logger.String("session", id))
	return s, nil
}

// Get returns the live session with id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	s.touch(m.now())
	return s, nil
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) < m.idleTTL {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return removed
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) build(ctx context.Context, id string, mobile bool) *Session {
	log := m.logger.With(logger.String("session", id))
	return &Session{
		ID:        id,
		view:      listing.NewView(m.source),
		bookmarks: prefs.NewBookmarkStore(ctx, m.store, kv.BookmarksKey(id), log),
		viewMode:  prefs.NewViewModePreference(ctx, m.store, kv.ViewModeKey(id), mobile, log),
		lastSeen:  m.now(),
	}
}

func (m *Manager) put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
}

func normalizeID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return u.String(), nil
}
