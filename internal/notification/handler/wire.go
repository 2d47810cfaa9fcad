package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"docnotify/internal/notification/models"
	id "docnotify/pkg/domain"
	dErrors "docnotify/pkg/domain-errors"
)

// EventMessage is the JSON shape producers publish for domain events.
type EventMessage struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name"`
	DocumentID   string         `json:"documentId,omitempty"`
	CollectionID string         `json:"collectionId,omitempty"`
	TeamID       string         `json:"teamId,omitempty"`
	ActorID      string         `json:"actorId,omitempty"`
	CreatedAt    *time.Time     `json:"createdAt,omitempty"`
	Data         map[string]any `json:"data,omitempty"`

	parsed models.Event
}

// Validate parses the message so it can be used as an HTTP request body.
func (m *EventMessage) Validate() error {
	if m == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	event, err := m.ToEvent(id.NewEventID(), time.Now().UTC())
	if err != nil {
		return err
	}
	m.parsed = event
	return nil
}

// Event returns the event parsed by Validate.
func (m *EventMessage) Event() models.Event {
	return m.parsed
}

// ToEvent converts the wire message into a domain event. fallbackID and
// receivedAt fill in an absent id or timestamp. Unknown event names are
// reported as models.ErrUnknownEventType wrapped in a validation error.
func (m *EventMessage) ToEvent(fallbackID id.EventID, receivedAt time.Time) (models.Event, error) {
	name, err := models.ParseEventType(strings.TrimSpace(m.Name))
	if err != nil {
		return models.Event{}, dErrors.Wrap(err, dErrors.CodeValidation, "event name "+strconv.Quote(m.Name))
	}

	event := models.Event{
		ID:        fallbackID,
		Name:      name,
		CreatedAt: receivedAt,
		Data:      m.Data,
	}
	if m.CreatedAt != nil && !m.CreatedAt.IsZero() {
		event.CreatedAt = *m.CreatedAt
	}

	if m.ID != "" {
		if event.ID, err = id.ParseEventID(m.ID); err != nil {
			return models.Event{}, err
		}
	}
	if m.DocumentID != "" {
		if event.DocumentID, err = id.ParseDocumentID(m.DocumentID); err != nil {
			return models.Event{}, err
		}
	}
	if m.CollectionID != "" {
		if event.CollectionID, err = id.ParseCollectionID(m.CollectionID); err != nil {
			return models.Event{}, err
		}
	}
	if m.TeamID != "" {
		if event.TeamID, err = id.ParseTeamID(m.TeamID); err != nil {
			return models.Event{}, err
		}
	}
	if m.ActorID != "" {
		if event.ActorID, err = id.ParseUserID(m.ActorID); err != nil {
			return models.Event{}, err
		}
	}
	return event, nil
}

// ResolutionResponse is the dry-run answer.
type ResolutionResponse struct {
	EventName  models.EventType        `json:"event_name"`
	Document   *models.DocumentSummary `json:"document,omitempty"`
	Recipients []id.UserID             `json:"recipients"`
	Suppressed []SuppressionResponse   `json:"suppressed"`
}

type SuppressionResponse struct {
	UserID id.UserID    `json:"user_id"`
	Stage  models.Stage `json:"stage"`
}

func toResolutionResponse(event models.Event, res *models.Resolution) ResolutionResponse {
	out := ResolutionResponse{
		EventName:  event.Name,
		Recipients: res.Recipients,
		Suppressed: make([]SuppressionResponse, 0, len(res.Suppressed)),
	}
	if out.Recipients == nil {
		out.Recipients = []id.UserID{}
	}
	if res.Document != nil {
		out.Document = &models.DocumentSummary{ID: res.Document.ID, Title: res.Document.Title}
	}
	for _, s := range res.Suppressed {
		out.Suppressed = append(out.Suppressed, SuppressionResponse{UserID: s.UserID, Stage: s.Stage})
	}
	return out
}

// messageEventID derives a stable event id from the record position so a
// redelivered record keeps its id.
func messageEventID(topic string, partition int32, offset int64) id.EventID {
	key := topic + "/" + strconv.FormatInt(int64(partition), 10) + "/" + strconv.FormatInt(offset, 10)
	return id.EventID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)))
}
