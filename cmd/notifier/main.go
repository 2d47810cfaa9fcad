package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	jwttoken "docnotify/internal/jwt_token"
	"docnotify/internal/notification/dispatcher"
	"docnotify/internal/notification/handler"
	notificationmetrics "docnotify/internal/notification/metrics"
	"docnotify/internal/notification/policy"
	"docnotify/internal/notification/resolver"
	"docnotify/internal/notification/store/directory"
	"docnotify/internal/notification/store/preference"
	"docnotify/internal/notification/store/view"
	"docnotify/internal/platform/config"
	"docnotify/internal/platform/httpserver"
	"docnotify/internal/platform/kafka/admin"
	"docnotify/internal/platform/kafka/consumer"
	"docnotify/internal/platform/logger"
	"docnotify/internal/platform/metrics"
	"docnotify/internal/platform/postgres"
	redisclient "docnotify/internal/platform/redis"
	"docnotify/migrations"
)

const shutdownTimeout = 10 * time.Second

// main wires the notifier: a Kafka consumer feeding the dispatcher and an
// admin HTTP server for health, metrics and dry-run resolution.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("notifier stopped", "error", err)
		os.Exit(1)
	}
	log.Info("notifier stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db, migrations.FS); err != nil {
		return err
	}

	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	reg := metrics.New()
	m := notificationmetrics.New(reg)

	dir := directory.NewPostgres(db)
	views := view.NewRedisStore(rdb.Client, view.WithRetention(cfg.Notifier.ViewRetention))

	res, err := resolver.New(
		dir,
		dir,
		preference.NewPostgres(db),
		policy.NewPostgresOracle(db),
		views,
		resolver.WithLogger(log),
		resolver.WithMetrics(m),
		resolver.WithConcurrency(cfg.Notifier.ResolverConcurrency),
	)
	if err != nil {
		return err
	}

	producer, err := newProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	defer producer.Close()

	if cfg.Kafka.EnsureTopics {
		if err := admin.EnsureTopics(ctx, producer, cfg.Kafka.Partitions, cfg.Kafka.Replication,
			cfg.Kafka.EventsTopic, cfg.Kafka.DeliveriesTopic, cfg.Kafka.DeadLetterTopic); err != nil {
			return err
		}
	}

	mailer, err := newMailer(cfg, producer, log)
	if err != nil {
		return err
	}

	disp, err := dispatcher.New(res, dir, mailer,
		dispatcher.WithLogger(log),
		dispatcher.WithMetrics(m),
		dispatcher.WithConcurrency(cfg.Notifier.DeliveryConcurrency),
	)
	if err != nil {
		return err
	}

	router := consumer.NewRouter(log, nil)
	router.Register(cfg.Kafka.EventsTopic, handler.NewEventHandler(disp, views, log, m))

	client, err := consumer.NewClient(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.EventsTopic)
	if err != nil {
		return err
	}
	defer client.Close()

	cons, err := consumer.New(client, router,
		consumer.WithLogger(log),
		consumer.WithRetry(cfg.Notifier.HandlerMaxAttempts, cfg.Notifier.HandlerBackoff),
		consumer.WithDeadLetterTopic(cfg.Kafka.DeadLetterTopic),
	)
	if err != nil {
		return err
	}

	signingKey := cfg.AdminJWTSigningKey
	if signingKey == "" {
		log.Warn("ADMIN_JWT_SIGNING_KEY not set, admin endpoints will reject every token")
		signingKey = uuid.NewString()
	}
	tokens := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(signingKey, "docnotify"))

	checks := map[string]handler.HealthCheck{
		"postgres": db.PingContext,
		"redis":    rdb.Health,
		"kafka":    client.Ping,
	}
	adminHandler := handler.NewAdminHandler(res, checks, log)
	srv := httpserver.New(cfg.AdminAddr, adminHandler.Router(tokens, reg.Handler()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting admin server", "addr", cfg.AdminAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("consuming events",
			"topic", cfg.Kafka.EventsTopic,
			"group", cfg.Kafka.ConsumerGroup,
			"mailer", cfg.Notifier.Mailer,
		)
		return cons.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
