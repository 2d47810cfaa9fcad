// Package ports defines the read-only collaborators the notification engine
// consults and the delivery collaborator it drives. Adapters live under
// internal/notification/store, internal/notification/policy and
// internal/notification/delivery.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
)

// AccessPolicy answers capability queries. Implementations return an all-false
// Capabilities for missing resources instead of an error.
type AccessPolicy interface {
	Abilities(ctx context.Context, userID id.UserID, resource models.Resource) (models.Capabilities, error)
}

// RecencyStore reports when a user last viewed a document.
type RecencyStore interface {
	// LastViewed returns ok=false when the user never opened the document.
	LastViewed(ctx context.Context, documentID id.DocumentID, userID id.UserID) (viewedAt time.Time, ok bool, err error)
}

// PreferenceStore reports per-user notification opt-ins.
type PreferenceStore interface {
	// IsEnabled returns false when no preference record exists.
	IsEnabled(ctx context.Context, userID id.UserID, teamID id.TeamID, eventType models.EventType) (bool, error)
}

// TeamRoster lists the active members of a team.
type TeamRoster interface {
	TeamMembers(ctx context.Context, teamID id.TeamID) ([]id.UserID, error)
}

// DocumentStore loads the document read model.
type DocumentStore interface {
	// Document returns sentinel.ErrNotFound when the document no longer exists.
	Document(ctx context.Context, documentID id.DocumentID) (*models.Document, error)
}

// UserDirectory resolves display identities. Unknown ids are omitted from the result.
type UserDirectory interface {
	Users(ctx context.Context, userIDs []id.UserID) (map[id.UserID]models.User, error)
}

// Mailer hands one delivery to the mail pipeline.
type Mailer interface {
	Deliver(ctx context.Context, delivery *models.Delivery) error
}
