package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"docnotify/internal/notification/metrics"
	"docnotify/internal/notification/models"
	"docnotify/internal/notification/ports"
	id "docnotify/pkg/domain"
	dErrors "docnotify/pkg/domain-errors"
)

const defaultConcurrency = 8

// RecipientResolver computes the recipient set for a notifiable event.
type RecipientResolver interface {
	Resolve(ctx context.Context, event models.Event) (*models.Resolution, error)
}

// Failure records one recipient whose delivery call returned an error.
type Failure struct {
	RecipientID id.UserID
	Err         error
}

// Report summarises one OnEvent call.
type Report struct {
	EventID    id.EventID
	EventName  models.EventType
	Ignored    bool
	Recipients []id.UserID
	Delivered  int
	Failed     []Failure
}

// Dispatcher turns events into delivery calls.
type Dispatcher struct {
	resolver  RecipientResolver
	directory ports.UserDirectory
	mailer    ports.Mailer

	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithConcurrency bounds the number of delivery calls in flight per event.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

func New(resolver RecipientResolver, directory ports.UserDirectory, mailer ports.Mailer, opts ...Option) (*Dispatcher, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}

	d := &Dispatcher{
		resolver:    resolver,
		directory:   directory,
		mailer:      mailer,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
		tracer:      otel.Tracer("docnotify/notification/dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// OnEvent resolves the recipients of event and calls the mailer once per
// recipient. Events of a type that cannot notify anyone are ignored without
// error. A returned error means no delivery was attempted; individual
// delivery failures are reported in the Report instead.
func (d *Dispatcher) OnEvent(ctx context.Context, event models.Event) (*Report, error) {
	report := &Report{EventID: event.ID, EventName: event.Name}

	if !event.Name.Notifiable() {
		d.metrics.IncEvent(eventLabel(event.Name), "ignored")
		d.logger.DebugContext(ctx, "event type does not notify, ignoring",
			"event_id", event.ID,
			"event_name", event.Name,
		)
		report.Ignored = true
		return report, nil
	}
	if err := event.Validate(); err != nil {
		d.metrics.IncEvent(event.Name.String(), "rejected")
		return nil, err
	}
	// Delivery ids derive from the event id.
	if event.ID.IsNil() {
		d.metrics.IncEvent(event.Name.String(), "rejected")
		return nil, dErrors.New(dErrors.CodeValidation, "event is missing id")
	}

	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "notification.dispatch", trace.WithAttributes(
		attribute.String("event.id", event.ID.String()),
		attribute.String("event.name", event.Name.String()),
	))
	defer span.End()
	defer func() {
		d.metrics.ObserveDispatchLatency(time.Since(start))
	}()

	res, err := d.resolver.Resolve(ctx, event)
	if err != nil {
		return nil, d.fail(ctx, span, event, dErrors.Wrap(err, dErrors.CodeUnavailable,
			fmt.Sprintf("resolve recipients for %s event %s", event.Name, event.ID)))
	}
	report.Recipients = res.Recipients
	if len(res.Recipients) == 0 {
		d.metrics.IncEvent(event.Name.String(), "dispatched")
		d.logger.DebugContext(ctx, "no recipients for event",
			"event_id", event.ID,
			"event_name", event.Name,
			"suppressed", len(res.Suppressed),
		)
		return report, nil
	}

	deliveries, err := d.buildDeliveries(ctx, event, res)
	if err != nil {
		return nil, d.fail(ctx, span, event, err)
	}

	d.deliverAll(ctx, event, deliveries, report)

	d.metrics.IncEvent(event.Name.String(), "dispatched")
	span.SetAttributes(
		attribute.Int("recipients", len(report.Recipients)),
		attribute.Int("delivered", report.Delivered),
		attribute.Int("failed", len(report.Failed)),
	)
	d.logger.InfoContext(ctx, "event dispatched",
		"event_id", event.ID,
		"event_name", event.Name,
		"recipients", len(report.Recipients),
		"delivered", report.Delivered,
		"failed", len(report.Failed),
	)
	return report, nil
}

func (d *Dispatcher) fail(ctx context.Context, span trace.Span, event models.Event, err error) error {
	d.metrics.IncEvent(event.Name.String(), "failed")
	span.RecordError(err)
	span.SetStatus(codes.Error, "dispatch failed")
	d.logger.ErrorContext(ctx, "event dispatch failed",
		"event_id", event.ID,
		"event_name", event.Name,
		"error", err,
	)
	return err
}

// buildDeliveries looks up the identities referenced by the payload. A
// recipient missing from the directory is still delivered to by id.
func (d *Dispatcher) buildDeliveries(ctx context.Context, event models.Event, res *models.Resolution) ([]*models.Delivery, error) {
	actorID := event.ActorID
	if actorID.IsNil() && res.Document != nil {
		actorID = res.Document.LastModifiedByID
	}

	lookup := make([]id.UserID, 0, len(res.Recipients)+1)
	lookup = append(lookup, res.Recipients...)
	if !actorID.IsNil() {
		lookup = append(lookup, actorID)
	}
	users, err := d.directory.Users(ctx, lookup)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable,
			fmt.Sprintf("look up users for %s event %s", event.Name, event.ID))
	}

	var actor *models.Person
	if !actorID.IsNil() {
		p := models.Person{ID: actorID}
		if u, ok := users[actorID]; ok {
			p = models.PersonFrom(u)
		}
		actor = &p
	}

	summary := models.DocumentSummary{ID: event.DocumentID, Title: event.DataString("title")}
	if res.Document != nil && res.Document.Title != "" {
		summary.Title = res.Document.Title
	}

	seen := make(map[id.UserID]struct{}, len(res.Recipients))
	out := make([]*models.Delivery, 0, len(res.Recipients))
	for _, recipientID := range res.Recipients {
		if _, dup := seen[recipientID]; dup {
			continue
		}
		seen[recipientID] = struct{}{}

		recipient := models.Person{ID: recipientID}
		if u, ok := users[recipientID]; ok {
			recipient = models.PersonFrom(u)
		}
		out = append(out, &models.Delivery{
			ID:           deliveryID(event.ID, recipientID),
			EventID:      event.ID,
			EventName:    event.Name,
			TeamID:       event.TeamID,
			CollectionID: event.CollectionID,
			Recipient:    recipient,
			Actor:        actor,
			Document:     summary,
			OccurredAt:   event.CreatedAt,
			Data:         event.Data,
		})
	}
	return out, nil
}

// deliverAll calls the mailer for every delivery. Calls run detached from
// ctx's cancellation so a started batch always completes.
func (d *Dispatcher) deliverAll(ctx context.Context, event models.Event, deliveries []*models.Delivery, report *Report) {
	ctx = context.WithoutCancel(ctx)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, delivery := range deliveries {
		delivery := delivery
		g.Go(func() error {
			err := d.mailer.Deliver(ctx, delivery)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.metrics.IncDelivery(event.Name.String(), "failed")
				d.logger.WarnContext(ctx, "delivery failed",
					"event_id", event.ID,
					"event_name", event.Name,
					"recipient_id", delivery.Recipient.ID,
					"error", err,
				)
				report.Failed = append(report.Failed, Failure{RecipientID: delivery.Recipient.ID, Err: err})
				return nil
			}
			d.metrics.IncDelivery(event.Name.String(), "delivered")
			report.Delivered++
			return nil
		})
	}
	_ = g.Wait()
}

// deliveryID is stable for an (event, recipient) pair so a redelivered event
// produces the same delivery ids.
func deliveryID(eventID id.EventID, recipientID id.UserID) uuid.UUID {
	return uuid.NewSHA1(uuid.UUID(eventID), []byte(recipientID.String()))
}

// eventLabel keeps metric cardinality bounded for tags outside the enum.
func eventLabel(t models.EventType) string {
	if _, err := models.ParseEventType(t.String()); err != nil {
		return "unknown"
	}
	return t.String()
}
