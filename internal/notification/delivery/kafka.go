// Package delivery hands notification deliveries to the outside world.
//
// KafkaMailer publishes one JSON record per delivery for the mail service to
// render and send. LogMailer only logs and is meant for local runs.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"docnotify/internal/notification/models"
	dErrors "docnotify/pkg/domain-errors"
)

// Producer is the subset of *kgo.Client used for publishing.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaMailer publishes deliveries keyed by recipient so every recipient's
// notifications land on one partition in order.
type KafkaMailer struct {
	producer Producer
	topic    string
	breaker  *breaker
	logger   *slog.Logger
}

type KafkaOption func(*KafkaMailer)

func WithLogger(logger *slog.Logger) KafkaOption {
	return func(m *KafkaMailer) {
		m.logger = logger
	}
}

// WithCircuitBreaker fails deliveries fast after threshold consecutive
// produce failures, for cooldown.
func WithCircuitBreaker(threshold int, cooldown time.Duration) KafkaOption {
	return func(m *KafkaMailer) {
		m.breaker = newBreaker(threshold, cooldown)
	}
}

func NewKafkaMailer(producer Producer, topic string, opts ...KafkaOption) (*KafkaMailer, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("delivery topic is required")
	}
	m := &KafkaMailer{
		producer: producer,
		topic:    topic,
		breaker:  newBreaker(0, 0),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *KafkaMailer) Deliver(ctx context.Context, delivery *models.Delivery) error {
	if delivery == nil {
		return dErrors.New(dErrors.CodeBadRequest, "delivery is required")
	}
	if !m.breaker.allow() {
		return dErrors.New(dErrors.CodeUnavailable, "delivery transport circuit open")
	}

	value, err := json.Marshal(delivery)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode delivery")
	}
	record := &kgo.Record{
		Topic: m.topic,
		Key:   []byte(delivery.Recipient.ID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_name", Value: []byte(delivery.EventName)},
			{Key: "delivery_id", Value: []byte(delivery.ID.String())},
		},
	}

	if err := m.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		if m.breaker.failure() {
			m.logger.WarnContext(ctx, "delivery circuit opened",
				"topic", m.topic,
				"error", err,
			)
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "publish delivery")
	}
	m.breaker.success()
	return nil
}

// LogMailer logs each delivery instead of sending it.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Deliver(ctx context.Context, delivery *models.Delivery) error {
	if delivery == nil {
		return dErrors.New(dErrors.CodeBadRequest, "delivery is required")
	}
	m.logger.InfoContext(ctx, "notification delivery",
		"delivery_id", delivery.ID,
		"event_id", delivery.EventID,
		"event_name", delivery.EventName,
		"recipient_id", delivery.Recipient.ID,
		"recipient_email", delivery.Recipient.Email,
		"document_id", delivery.Document.ID,
		"document_title", delivery.Document.Title,
	)
	return nil
}
