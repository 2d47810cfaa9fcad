package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"docnotify/internal/notification/delivery"
	"docnotify/internal/notification/ports"
	"docnotify/internal/platform/config"
)

const produceTimeout = 10 * time.Second

// newProducer builds the client used for deliveries, dead letters and topic
// administration. It joins no consumer group.
func newProducer(cfg config.KafkaConfig) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProduceRequestTimeout(produceTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return client, nil
}

func newMailer(cfg config.Config, producer *kgo.Client, log *slog.Logger) (ports.Mailer, error) {
	switch cfg.Notifier.Mailer {
	case "log":
		return delivery.NewLogMailer(log), nil
	case "kafka":
		return delivery.NewKafkaMailer(producer, cfg.Kafka.DeliveriesTopic,
			delivery.WithLogger(log),
			delivery.WithCircuitBreaker(cfg.Notifier.BreakerThreshold, cfg.Notifier.BreakerCooldown),
		)
	default:
		return nil, fmt.Errorf("unknown mailer %q", cfg.Notifier.Mailer)
	}
}
