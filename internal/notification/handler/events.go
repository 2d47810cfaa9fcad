package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"docnotify/internal/notification/dispatcher"
	"docnotify/internal/notification/metrics"
	"docnotify/internal/notification/models"
	"docnotify/internal/platform/kafka/consumer"
	id "docnotify/pkg/domain"
	dErrors "docnotify/pkg/domain-errors"
	"docnotify/pkg/requestcontext"
)

// Dispatcher handles one notifiable event.
type Dispatcher interface {
	OnEvent(ctx context.Context, event models.Event) (*dispatcher.Report, error)
}

// ViewRecorder records document views.
type ViewRecorder interface {
	Touch(ctx context.Context, documentID id.DocumentID, userID id.UserID, at time.Time) error
}

// EventHandler consumes domain events from Kafka. Malformed and irrelevant
// records are logged and committed; only transient failures are returned so
// the consumer retries them.
type EventHandler struct {
	dispatcher Dispatcher
	views      ViewRecorder
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewEventHandler(d Dispatcher, views ViewRecorder, logger *slog.Logger, m *metrics.Metrics) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		dispatcher: d,
		views:      views,
		logger:     logger,
		metrics:    m,
	}
}

func (h *EventHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var wire EventMessage
	if err := json.Unmarshal(msg.Value, &wire); err != nil {
		h.malformed(ctx, msg, "", err)
		return nil
	}

	event, err := wire.ToEvent(messageEventID(msg.Topic, msg.Partition, msg.Offset), msg.Timestamp)
	if errors.Is(err, models.ErrUnknownEventType) {
		h.metrics.IncEvent("unknown", "ignored")
		h.logger.DebugContext(ctx, "ignoring unknown event type",
			"event_name", wire.Name,
			"offset", msg.Offset,
		)
		return nil
	}
	if err != nil {
		h.malformed(ctx, msg, wire.Name, err)
		return nil
	}
	ctx = requestcontext.WithEventID(ctx, event.ID)

	if event.Name == models.EventViewCreate {
		return h.recordView(ctx, event)
	}

	_, err = h.dispatcher.OnEvent(ctx, event)
	switch {
	case err == nil:
		return nil
	case dErrors.HasCode(err, dErrors.CodeValidation):
		// already counted by the dispatcher
		h.logger.WarnContext(ctx, "discarding invalid event",
			"event_id", event.ID,
			"event_name", event.Name,
			"error", err,
		)
		return nil
	default:
		return err
	}
}

func (h *EventHandler) recordView(ctx context.Context, event models.Event) error {
	if event.DocumentID.IsNil() || !event.HasActor() {
		h.metrics.IncEvent(event.Name.String(), "rejected")
		h.logger.WarnContext(ctx, "view event without document or actor",
			"event_id", event.ID,
		)
		return nil
	}
	if err := h.views.Touch(ctx, event.DocumentID, event.ActorID, event.CreatedAt); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "record view")
	}
	h.metrics.IncEvent(event.Name.String(), "recorded")
	return nil
}

func (h *EventHandler) malformed(ctx context.Context, msg *consumer.Message, name string, err error) {
	h.metrics.IncEvent(eventLabel(name), "rejected")
	h.logger.WarnContext(ctx, "discarding malformed event",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"event_name", name,
		"error", err,
	)
}

func eventLabel(name string) string {
	if t, err := models.ParseEventType(name); err == nil {
		return t.String()
	}
	return "unknown"
}
