package view

import (
	"context"
	"sync"
	"time"

	id "docnotify/pkg/domain"
)

type key struct {
	document id.DocumentID
	user     id.UserID
}

// InMemoryStore tracks last-view timestamps per (document, user).
type InMemoryStore struct {
	mu    sync.RWMutex
	views map[key]time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{views: make(map[key]time.Time)}
}

// Touch records a view. Older timestamps never overwrite newer ones.
func (s *InMemoryStore) Touch(_ context.Context, documentID id.DocumentID, userID id.UserID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{documentID, userID}
	if prev, ok := s.views[k]; ok && prev.After(at) {
		return nil
	}
	s.views[k] = at
	return nil
}

func (s *InMemoryStore) LastViewed(_ context.Context, documentID id.DocumentID, userID id.UserID) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.views[key{documentID, userID}]
	return at, ok, nil
}
