package models

import (
	"time"

	id "docnotify/pkg/domain"
)

// Document is the read model of a document as seen by the resolver.
type Document struct {
	ID               id.DocumentID
	TeamID           id.TeamID
	CollectionID     id.CollectionID
	Title            string
	LastModifiedByID id.UserID
	UpdatedAt        time.Time
	CollaboratorIDs  []id.UserID
}

// HasCollaborator reports whether userID contributed to the document.
func (d *Document) HasCollaborator(userID id.UserID) bool {
	for _, c := range d.CollaboratorIDs {
		if c == userID {
			return true
		}
	}
	return false
}

// User is the identity used to address and describe people in deliveries.
type User struct {
	ID     id.UserID
	TeamID id.TeamID
	Name   string
	Email  string
}

// Preference records that a user opted in to one event type within a team.
type Preference struct {
	UserID id.UserID
	TeamID id.TeamID
	Event  EventType
}
