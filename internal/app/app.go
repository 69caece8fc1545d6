package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jannat-miftahul/plantnet/internal/config"
	"github.com/jannat-miftahul/plantnet/internal/event"
	handler "github.com/jannat-miftahul/plantnet/internal/handler/http"
	"github.com/jannat-miftahul/plantnet/internal/service"
	"github.com/jannat-miftahul/plantnet/internal/source"
	"github.com/jannat-miftahul/plantnet/internal/store"
	"github.com/jannat-miftahul/plantnet/pkg/health"
	"github.com/jannat-miftahul/plantnet/pkg/httpclient"
	pkgkafka "github.com/jannat-miftahul/plantnet/pkg/kafka"
	"github.com/jannat-miftahul/plantnet/pkg/middleware"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	redis      *redis.Client
	refresher  *source.Refresher
	consumers  []*pkgkafka.Consumer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st := store.New(cfg.Taxonomy())

	// Optional Redis snapshot backup. When disabled, the service still
	// works; it just starts empty if the upstream is down.
	var redisClient *redis.Client
	var backup source.SnapshotBackup
	if cfg.RedisEnabled {
		var err error
		redisClient, err = store.NewRedisClient(ctx, store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		backup = store.NewBackup(redisClient, 0)
		logger.Info("redis snapshot backup initialized", slog.String("addr", cfg.RedisAddr))
	}

	// Upstream plants API client behind a retrying HTTP client and a
	// circuit breaker.
	cbClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("plants-upstream"),
		logger,
	)
	sourceClient := source.NewClient(cbClient, cfg.PlantsAPIURL, logger)
	refresher := source.NewRefresher(sourceClient, st, backup, cfg.RefreshInterval, logger)

	// Build the service layer.
	catalogService := service.NewCatalogService(st, refresher.RefreshNow, logger)

	// Optional Kafka consumers for incremental plant events.
	var consumers []*pkgkafka.Consumer
	if cfg.KafkaEnabled {
		eventConsumer := event.NewConsumer(st, logger)
		for _, topic := range event.Topics() {
			consumerCfg := pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  cfg.KafkaGroupID,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6, // 10 MB
			}
			consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
		}
		logger.Info("kafka consumers initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.Int("topic_count", len(event.Topics())),
		)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("catalog", catalogService.Ready)
	if cfg.KafkaEnabled {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	corsConfig := middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}

	router := handler.NewRouter(catalogService, healthHandler, corsConfig, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		redis:      redisClient,
		refresher:  refresher,
		consumers:  consumers,
		httpServer: httpServer,
	}, nil
}

// Run starts the refresher, Kafka consumers, and HTTP server, blocking until
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2+len(a.consumers))

	go func() {
		if err := a.refresher.Run(ctx); err != nil {
			errCh <- fmt.Errorf("catalog refresher: %w", err)
		}
	}()

	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
