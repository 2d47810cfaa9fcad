// Package consumer runs a Kafka consumer-group loop that hands each record to
// a Handler, retries transient failures and parks exhausted records on a
// dead-letter topic before committing.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	dErrors "docnotify/pkg/domain-errors"
)

// Message is the transport-neutral view of a consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message. Returning nil commits it. Errors that
// dErrors.IsRetryable accepts are retried; all others go straight to the
// dead-letter topic.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Client is the subset of *kgo.Client the consumer needs.
type Client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Consumer drives the poll, handle, commit loop.
type Consumer struct {
	client      Client
	handler     Handler
	dlqTopic    string
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// WithRetry sets the attempt budget per record and the base backoff, which
// grows linearly with the attempt number.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Consumer) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// WithDeadLetterTopic names the topic exhausted records are copied to. Without
// one, exhausted records are logged and committed.
func WithDeadLetterTopic(topic string) Option {
	return func(c *Consumer) {
		c.dlqTopic = topic
	}
}

func New(client Client, handler Handler, opts ...Option) (*Consumer, error) {
	if client == nil {
		return nil, fmt.Errorf("kafka client is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	c := &Consumer{
		client:      client,
		handler:     handler,
		maxAttempts: 5,
		backoff:     500 * time.Millisecond,
		logger:      slog.Default(),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClient builds a franz-go client joined to group and consuming topics.
// Offsets are committed explicitly by Run.
func NewClient(brokers []string, group string, topics ...string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// Run polls until ctx is cancelled or the client is closed. It returns a
// non-nil error only when a record could neither be handled nor parked, in
// which case its offset is left uncommitted.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var done []*kgo.Record
		var runErr error
		fetches.EachRecord(func(record *kgo.Record) {
			if runErr != nil {
				return
			}
			if err := c.process(ctx, record); err != nil {
				runErr = err
				return
			}
			done = append(done, record)
		})

		if len(done) > 0 {
			if err := c.client.CommitRecords(context.WithoutCancel(ctx), done...); err != nil {
				c.logger.ErrorContext(ctx, "commit offsets failed", "error", err)
			}
		}
		if runErr != nil {
			if errors.Is(runErr, context.Canceled) {
				return nil
			}
			return runErr
		}
	}
}

// process handles one record to completion. A nil return means the record
// may be committed.
func (c *Consumer) process(ctx context.Context, record *kgo.Record) error {
	msg := toMessage(record)

	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.handler.Handle(ctx, msg)
		if err == nil {
			return nil
		}
		if !dErrors.IsRetryable(err) {
			break
		}
		if attempt == c.maxAttempts {
			break
		}
		c.logger.WarnContext(ctx, "handler failed, retrying",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"attempt", attempt,
			"error", err,
		)
		if serr := c.sleep(ctx, c.backoff*time.Duration(attempt)); serr != nil {
			return serr
		}
	}

	// A failure during shutdown stays on the topic for the next owner.
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return c.park(ctx, record, err)
}

func (c *Consumer) park(ctx context.Context, record *kgo.Record, cause error) error {
	if c.dlqTopic == "" {
		c.logger.ErrorContext(ctx, "dropping message after failed handling",
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
			"error", cause,
		)
		return nil
	}

	headers := append([]kgo.RecordHeader(nil), record.Headers...)
	headers = append(headers,
		kgo.RecordHeader{Key: "dlq_source_topic", Value: []byte(record.Topic)},
		kgo.RecordHeader{Key: "dlq_source_offset", Value: []byte(strconv.FormatInt(record.Offset, 10))},
		kgo.RecordHeader{Key: "dlq_error", Value: []byte(cause.Error())},
	)
	dead := &kgo.Record{
		Topic:   c.dlqTopic,
		Key:     record.Key,
		Value:   record.Value,
		Headers: headers,
	}
	if err := c.client.ProduceSync(context.WithoutCancel(ctx), dead).FirstErr(); err != nil {
		return fmt.Errorf("park message at %s/%d@%d: %w", record.Topic, record.Partition, record.Offset, err)
	}
	c.logger.WarnContext(ctx, "message moved to dead-letter topic",
		"topic", record.Topic,
		"partition", record.Partition,
		"offset", record.Offset,
		"dlq_topic", c.dlqTopic,
		"error", cause,
	)
	return nil
}

func toMessage(record *kgo.Record) *Message {
	headers := make(map[string]string, len(record.Headers))
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     record.Topic,
		Partition: record.Partition,
		Offset:    record.Offset,
		Key:       record.Key,
		Value:     record.Value,
		Headers:   headers,
		Timestamp: record.Timestamp,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
