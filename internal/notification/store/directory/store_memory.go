package directory

import (
	"context"
	"sync"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
	"docnotify/pkg/platform/sentinel"
)

// InMemoryStore serves rosters, users and documents from maps. Team members are
// returned in insertion order.
type InMemoryStore struct {
	mu        sync.RWMutex
	users     map[id.UserID]models.User
	suspended map[id.UserID]bool
	members   map[id.TeamID][]id.UserID
	documents map[id.DocumentID]models.Document
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:     make(map[id.UserID]models.User),
		suspended: make(map[id.UserID]bool),
		members:   make(map[id.TeamID][]id.UserID),
		documents: make(map[id.DocumentID]models.Document),
	}
}

// PutUser adds or replaces a user and places them on their team's roster.
func (s *InMemoryStore) PutUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.ID]; !exists {
		s.members[user.TeamID] = append(s.members[user.TeamID], user.ID)
	}
	s.users[user.ID] = user
	return nil
}

// Suspend removes a user from roster results without deleting them.
func (s *InMemoryStore) Suspend(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended[userID] = true
	return nil
}

// PutDocument adds or replaces a document.
func (s *InMemoryStore) PutDocument(_ context.Context, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.CollaboratorIDs = append([]id.UserID(nil), doc.CollaboratorIDs...)
	s.documents[doc.ID] = doc
	return nil
}

// DeleteDocument removes a document.
func (s *InMemoryStore) DeleteDocument(_ context.Context, documentID id.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, documentID)
	return nil
}

func (s *InMemoryStore) TeamMembers(_ context.Context, teamID id.TeamID) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]id.UserID, 0, len(s.members[teamID]))
	for _, u := range s.members[teamID] {
		if !s.suspended[u] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Users(_ context.Context, userIDs []id.UserID) (map[id.UserID]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.UserID]models.User, len(userIDs))
	for _, u := range userIDs {
		if user, ok := s.users[u]; ok {
			out[u] = user
		}
	}
	return out, nil
}

func (s *InMemoryStore) Document(_ context.Context, documentID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	doc.CollaboratorIDs = append([]id.UserID(nil), doc.CollaboratorIDs...)
	return &doc, nil
}
