package preference

import (
	"context"
	"sync"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
)

type key struct {
	user  id.UserID
	team  id.TeamID
	event models.EventType
}

// InMemoryStore keeps notification opt-ins in a map. Presence means enabled.
type InMemoryStore struct {
	mu      sync.RWMutex
	enabled map[key]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{enabled: make(map[key]struct{})}
}

// Enable records an opt-in. Enabling twice is a no-op.
func (s *InMemoryStore) Enable(_ context.Context, pref models.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[key{pref.UserID, pref.TeamID, pref.Event}] = struct{}{}
	return nil
}

// Disable removes an opt-in.
func (s *InMemoryStore) Disable(_ context.Context, pref models.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.enabled, key{pref.UserID, pref.TeamID, pref.Event})
	return nil
}

func (s *InMemoryStore) IsEnabled(_ context.Context, userID id.UserID, teamID id.TeamID, eventType models.EventType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enabled[key{userID, teamID, eventType}]
	return ok, nil
}

// ListByUser returns every opt-in the user holds in the team.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, teamID id.TeamID) ([]models.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var prefs []models.Preference
	for k := range s.enabled {
		if k.user == userID && k.team == teamID {
			prefs = append(prefs, models.Preference{UserID: k.user, TeamID: k.team, Event: k.event})
		}
	}
	return prefs, nil
}
