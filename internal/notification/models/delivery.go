package models

import (
	"time"

	"github.com/google/uuid"

	id "docnotify/pkg/domain"
)

// DocumentSummary is the document context included in a delivery.
type DocumentSummary struct {
	ID    id.DocumentID `json:"id"`
	Title string        `json:"title"`
}

// Person is the addressable identity included in a delivery.
type Person struct {
	ID    id.UserID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

// Delivery is the payload handed to the mail collaborator for one recipient.
type Delivery struct {
	ID           uuid.UUID       `json:"id"`
	EventID      id.EventID      `json:"event_id"`
	EventName    EventType       `json:"event_name"`
	TeamID       id.TeamID       `json:"team_id"`
	CollectionID id.CollectionID `json:"collection_id"`
	Recipient    Person          `json:"recipient"`
	Actor        *Person         `json:"actor,omitempty"`
	Document     DocumentSummary `json:"document"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Data         map[string]any  `json:"data,omitempty"`
}

// PersonFrom converts a directory user into a delivery identity.
func PersonFrom(u User) Person {
	return Person{ID: u.ID, Name: u.Name, Email: u.Email}
}
