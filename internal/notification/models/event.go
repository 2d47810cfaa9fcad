package models

import (
	"errors"
	"time"

	id "docnotify/pkg/domain"
	dErrors "docnotify/pkg/domain-errors"
)

// EventType is the closed set of domain event names this engine understands.
// Construct via ParseEventType at trust boundaries.
type EventType string

const (
	EventDocumentPublish EventType = "documents.publish"
	EventRevisionCreate  EventType = "revisions.create"
	EventViewCreate      EventType = "views.create"

	// EventDocumentUpdate is never emitted to this engine; it is the
	// preference key users opt into for revision notifications.
	EventDocumentUpdate EventType = "documents.update"
)

// ErrUnknownEventType is returned by ParseEventType for tags outside the enum.
var ErrUnknownEventType = errors.New("unknown event type")

var knownEventTypes = map[EventType]struct{}{
	EventDocumentPublish: {},
	EventRevisionCreate:  {},
	EventViewCreate:      {},
}

// ParseEventType maps a producer tag to an EventType.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if _, ok := knownEventTypes[t]; !ok {
		return "", ErrUnknownEventType
	}
	return t, nil
}

func (t EventType) String() string {
	return string(t)
}

// Notifiable reports whether events of this type can produce notifications.
func (t EventType) Notifiable() bool {
	_, ok := eventRules[t]
	return ok
}

// Event is an immutable record of one domain occurrence. Zero ids mean the
// field was absent on the wire.
type Event struct {
	ID           id.EventID
	Name         EventType
	DocumentID   id.DocumentID
	CollectionID id.CollectionID
	TeamID       id.TeamID
	ActorID      id.UserID
	CreatedAt    time.Time
	Data         map[string]any
}

// Validate enforces the fields every notifiable event must carry.
func (e Event) Validate() error {
	if e.TeamID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "event is missing team_id")
	}
	if e.DocumentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "event is missing document_id")
	}
	return nil
}

// HasActor reports whether the event names the user who caused it.
func (e Event) HasActor() bool {
	return !e.ActorID.IsNil()
}

// DataString returns a string value from the event payload.
func (e Event) DataString(key string) string {
	if e.Data == nil {
		return ""
	}
	if v, ok := e.Data[key].(string); ok {
		return v
	}
	return ""
}
