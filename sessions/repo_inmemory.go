package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
)

// InMemoryStore is an in-memory implementation of Store. Sessions idle for longer than
// the max age are dropped.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession // sessionID -> values
	maxAge   time.Duration
	nowTime  func() time.Time
}

type memorySession struct {
	values  map[string]string
	touched time.Time
}

var _ Store = (*InMemoryStore)(nil)

// InMemoryStoreOption configures an InMemoryStore
type InMemoryStoreOption func(*InMemoryStore)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.nowTime = nowFunc
	}
}

// NewInMemoryStore creates a store whose sessions expire after maxAge of inactivity.
// A maxAge of zero keeps sessions until the process ends.
func NewInMemoryStore(maxAge time.Duration, options ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		sessions: make(map[string]*memorySession),
		maxAge:   maxAge,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context, sessionID, key string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("sessionID is required: %w", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.liveSession(sessionID)
	if session == nil {
		return "", apperrors.ErrSessionKeyNotFound
	}
	value, ok := session.values[key]
	if !ok {
		return "", apperrors.ErrSessionKeyNotFound
	}
	return value, nil
}

func (s *InMemoryStore) Set(_ context.Context, sessionID, key, value string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required: %w", apperrors.ErrInvalidArgument)
	}
	if key == "" {
		return fmt.Errorf("key is required: %w", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	session := s.liveSession(sessionID)
	if session == nil {
		session = &memorySession{values: make(map[string]string), touched: s.nowTime()}
		s.sessions[sessionID] = session
	}
	session.values[key] = value
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, sessionID, key string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required: %w", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.liveSession(sessionID)
	if session == nil {
		return nil // Already doesn't exist, no error
	}
	delete(session.values, key)

	// Clean up empty sessions
	if len(session.values) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}

// Len returns the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	return len(s.sessions)
}

// liveSession returns the session and refreshes its idle timer, or drops it if expired.
// Callers hold mu.
func (s *InMemoryStore) liveSession(sessionID string) *memorySession {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	now := s.nowTime()
	if s.expired(session, now) {
		delete(s.sessions, sessionID)
		return nil
	}
	session.touched = now
	return session
}

func (s *InMemoryStore) prune() {
	now := s.nowTime()
	for id, session := range s.sessions {
		if s.expired(session, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *InMemoryStore) expired(session *memorySession, now time.Time) bool {
	return s.maxAge > 0 && now.Sub(session.touched) > s.maxAge
}
