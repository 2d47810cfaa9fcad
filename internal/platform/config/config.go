package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the notifier's full runtime configuration.
type Config struct {
	AdminAddr          string `env:"NOTIFIER_ADMIN_ADDR" envDefault:":8081"`
	AdminJWTSigningKey string `env:"ADMIN_JWT_SIGNING_KEY"`
	DatabaseURL        string `env:"DATABASE_URL"`

	Redis    RedisConfig
	Kafka    KafkaConfig
	Notifier NotifierConfig
	Log      LogConfig
}

// RedisConfig holds connection settings for the recency store.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig holds broker, topic and consumer settings.
type KafkaConfig struct {
	Brokers         []string `env:"KAFKA_BROKERS" envSeparator:","`
	EventsTopic     string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"kb.events"`
	DeliveriesTopic string   `env:"KAFKA_DELIVERIES_TOPIC" envDefault:"notifications.deliveries"`
	DeadLetterTopic string   `env:"KAFKA_DLQ_TOPIC" envDefault:"kb.events.dlq"`
	ConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"docnotify"`
	Partitions      int32    `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"6"`
	Replication     int16    `env:"KAFKA_TOPIC_REPLICATION" envDefault:"1"`
	EnsureTopics    bool     `env:"KAFKA_ENSURE_TOPICS" envDefault:"false"`
}

// NotifierConfig tunes event handling.
type NotifierConfig struct {
	Mailer              string        `env:"MAILER" envDefault:"kafka"`
	ResolverConcurrency int           `env:"RESOLVER_CONCURRENCY" envDefault:"16"`
	DeliveryConcurrency int           `env:"DELIVERY_CONCURRENCY" envDefault:"8"`
	HandlerMaxAttempts  int           `env:"HANDLER_MAX_ATTEMPTS" envDefault:"5"`
	HandlerBackoff      time.Duration `env:"HANDLER_BACKOFF" envDefault:"500ms"`
	ViewRetention       time.Duration `env:"VIEW_RETENTION" envDefault:"720h"`
	BreakerThreshold    int           `env:"DELIVERY_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown     time.Duration `env:"DELIVERY_BREAKER_COOLDOWN" envDefault:"30s"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// FromEnv parses and validates configuration from the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the notifier cannot start with.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	switch c.Notifier.Mailer {
	case "kafka", "log":
	default:
		return fmt.Errorf("MAILER must be kafka or log, got %q", c.Notifier.Mailer)
	}
	if c.Notifier.HandlerMaxAttempts < 1 {
		return fmt.Errorf("HANDLER_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
