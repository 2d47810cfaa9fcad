package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "docnotify/pkg/domain"
)

var lastViewedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "docnotify_view_lookup_duration_seconds",
	Help:    "Latency of last-viewed lookups against Redis",
	Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
})

const viewKeyPrefix = "views:doc:"

// touchScript stores ARGV[2] under field ARGV[1] unless a newer value is
// already present, then refreshes the key's TTL (ARGV[3] milliseconds).
// Timestamps are unix microseconds so they stay exact as Lua numbers.
var touchScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if (not current) or tonumber(current) < tonumber(ARGV[2]) then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
end
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// RedisStore keeps one hash per document: field = user id, value = last view
// time in unix microseconds.
type RedisStore struct {
	client    redis.UniversalClient
	retention time.Duration
}

type RedisOption func(*RedisStore)

// WithRetention expires a document's view hash after it has gone unviewed
// for d. Zero keeps views forever.
func WithRetention(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.retention = d
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Touch(ctx context.Context, documentID id.DocumentID, userID id.UserID, at time.Time) error {
	err := touchScript.Run(ctx, s.client,
		[]string{viewKey(documentID)},
		userID.String(), at.UnixMicro(), s.retention.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("touch view: %w", err)
	}
	return nil
}

func (s *RedisStore) LastViewed(ctx context.Context, documentID id.DocumentID, userID id.UserID) (time.Time, bool, error) {
	start := time.Now()
	defer func() {
		lastViewedDuration.Observe(time.Since(start).Seconds())
	}()

	raw, err := s.client.HGet(ctx, viewKey(documentID), userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read last view: %w", err)
	}
	micros, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode last view %q: %w", raw, err)
	}
	return time.UnixMicro(micros).UTC(), true, nil
}

func viewKey(documentID id.DocumentID) string {
	return viewKeyPrefix + documentID.String()
}
