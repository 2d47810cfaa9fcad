//go:build integration

// Package containers starts the notifier's backing services for integration
// tests. Each container is started once per test binary and shared across
// suites; Ryuk removes them when the process exits.
package containers

import (
	"context"
	"sync"
	"testing"

	"docnotify/migrations"
)

type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(t *testing.T, start func(context.Context) (T, error)) T {
	t.Helper()
	l.once.Do(func() {
		l.val, l.err = start(context.Background())
	})
	if l.err != nil {
		t.Fatalf("container unavailable: %v", l.err)
	}
	return l.val
}

// Manager hands out shared containers, starting each on first use.
type Manager struct {
	redis    lazy[*RedisContainer]
	postgres lazy[*PostgresContainer]
	kafka    lazy[*KafkaContainer]
}

var (
	manager     *Manager
	managerOnce sync.Once
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	return m.redis.get(t, startRedis)
}

// GetPostgres returns PostgreSQL with every migration applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	return m.postgres.get(t, func(ctx context.Context) (*PostgresContainer, error) {
		return startPostgres(ctx, migrations.FS)
	})
}

// GetKafka returns a Redpanda broker.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	return m.kafka.get(t, startKafka)
}
