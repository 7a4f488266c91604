package storage

import (
	"sync"
)

// SessionStorage provides in-memory storage for live game sessions by key.
type SessionStorage[T any] struct {
	mu       sync.RWMutex
	sessions map[string]T
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage[T any]() *SessionStorage[T] {
	return &SessionStorage[T]{
		sessions: make(map[string]T),
	}
}

// Store saves a session under key and returns the one it replaced, if any.
func (s *SessionStorage[T]) Store(key string, session T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.sessions[key]
	s.sessions[key] = session
	return prev, ok
}

// Get retrieves the session stored under key.
func (s *SessionStorage[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[key]
	return session, ok
}

// Delete removes the session stored under key and returns it.
func (s *SessionStorage[T]) Delete(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	delete(s.sessions, key)
	return session, ok
}

// DeleteFunc removes every session for which fn returns true and returns them.
func (s *SessionStorage[T]) DeleteFunc(fn func(key string, session T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []T
	for key, session := range s.sessions {
		if fn(key, session) {
			removed = append(removed, session)
			delete(s.sessions, key)
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *SessionStorage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
