package service

import (
	"encoding/json"
	"sync"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"go.uber.org/zap"
)

// SessionManager owns the session persistence contract. All store operations
// are fail-soft: a persistence error degrades the bot to stateless behavior
// for that action instead of failing the pipeline.
type SessionManager struct {
	repo   repository.SessionRepository
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is one key's mutex plus the count of holders and waiters;
// the entry is dropped from the map when the count reaches zero
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionManager creates a new session manager
func NewSessionManager(repo repository.SessionRepository, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		repo:   repo,
		logger: logger,
		locks:  make(map[string]*sessionLock),
	}
}

// Lock acquires the per-key mutex, serializing actions for one session key.
// The returned function releases it and evicts the entry once no action
// holds or awaits it, so the map stays bounded by in-flight actions.
func (m *SessionManager) Lock(key string) func() {
	m.mu.Lock()
	entry, exists := m.locks[key]
	if !exists {
		entry = &sessionLock{}
		m.locks[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		m.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}

// Load returns the session for key, a fresh idle session when absent, and a
// fresh transient one on store failure
func (m *SessionManager) Load(key string) *domain.Session {
	data, err := m.repo.Get(key)
	if err != nil {
		m.logger.Warn("Failed to load session, degrading to stateless",
			zap.String("key", key),
			zap.Error(err),
		)
		s := domain.NewSession(key)
		s.Transient = true
		return s
	}

	if data == nil {
		return domain.NewSession(key)
	}

	s := domain.NewSession(key)
	if err := json.Unmarshal(data, s); err != nil {
		m.logger.Warn("Failed to decode session, starting fresh",
			zap.String("key", key),
			zap.Error(err),
		)
		return domain.NewSession(key)
	}

	return s
}

// Save persists the session; write errors are logged and ignored. Transient
// sessions (created after a load failure or without identity) are not written.
func (m *SessionManager) Save(s *domain.Session) {
	if s.Transient || s.Key == "" {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		m.logger.Error("Failed to encode session", zap.String("key", s.Key), zap.Error(err))
		return
	}

	if err := m.repo.Set(s.Key, data); err != nil {
		m.logger.Warn("Failed to persist session, write ignored",
			zap.String("key", s.Key),
			zap.Error(err),
		)
	}
}

// Delete removes the session record; errors are logged and ignored
func (m *SessionManager) Delete(key string) {
	if err := m.repo.Delete(key); err != nil {
		m.logger.Warn("Failed to delete session", zap.String("key", key), zap.Error(err))
	}
}
