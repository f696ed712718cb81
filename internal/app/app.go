package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/catalog-readpath/internal/cache"
	"github.com/utafrali/catalog-readpath/internal/config"
	"github.com/utafrali/catalog-readpath/internal/engine/elastic"
	"github.com/utafrali/catalog-readpath/internal/engine/memory"
	pgengine "github.com/utafrali/catalog-readpath/internal/engine/postgres"
	"github.com/utafrali/catalog-readpath/internal/event"
	handler "github.com/utafrali/catalog-readpath/internal/handler/http"
	"github.com/utafrali/catalog-readpath/internal/search"
	"github.com/utafrali/catalog-readpath/pkg/database"
	"github.com/utafrali/catalog-readpath/pkg/health"
	"github.com/utafrali/catalog-readpath/pkg/kafka"
	"github.com/utafrali/catalog-readpath/pkg/logger"
)

const serviceName = "catalog-readpath"

// App wires the read path together and owns the lifecycle of its
// dependencies.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	coordinator *cache.Coordinator
	consumers   []*kafka.Consumer
	server      *http.Server
}

// New builds the application from configuration. The search backend is
// chosen here, once: an unreachable engine at startup means the process
// serves from the relational fallback until restarted.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(serviceName, cfg.LogLevel)

	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.Postgres.Host
	pgCfg.Port = cfg.Postgres.Port
	pgCfg.User = cfg.Postgres.User
	pgCfg.Password = cfg.Postgres.Password
	pgCfg.DBName = cfg.Postgres.DBName
	pgCfg.SSLMode = cfg.Postgres.SSLMode

	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	fallback := pgengine.New(pool, log)
	primary := newPrimaryEngine(cfg, log)
	svc := search.NewService(ctx, primary, fallback, fallback, log)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if primary != nil {
		healthHandler.Register("search_engine", primary.Ping)
	}

	app := &App{
		cfg:    cfg,
		logger: log,
		pool:   pool,
	}

	var store cache.Store
	if cfg.Cache.Enabled {
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// The cache is an optimization; a dead Redis must not take the
			// read path down with it.
			log.Warn("redis unreachable, serving uncached", "error", err)
		} else {
			app.redisClient = client
			store = cache.NewRedisStore(client)
			app.coordinator = cache.NewCoordinator(store, log)
			healthHandler.Register("redis", func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			})
		}
	}

	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		sync := event.NewCatalogSync(svc, app.invalidator(), log)
		app.consumers = event.NewConsumers(brokers, cfg.Kafka.GroupID, sync, log)
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return kafka.PingBrokers(ctx, brokers)
		})
	}

	router := handler.NewRouter(handler.RouterDeps{
		Search:      handler.NewSearchHandler(svc, log),
		Store:       store,
		Coordinator: app.coordinator,
		Health:      healthHandler,
		SearchTTL:   cfg.Cache.SearchTTL,
		Logger:      log,
	})

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("application initialized",
		"port", cfg.HTTPPort,
		"search_mode", string(svc.Mode()),
		"cache_enabled", store != nil,
		"consumers", len(app.consumers),
	)
	return app, nil
}

// newPrimaryEngine constructs the configured engine backend. A nil return
// selects fallback mode downstream.
func newPrimaryEngine(cfg *config.Config, log *slog.Logger) search.EngineBackend {
	switch cfg.SearchEngine {
	case "memory":
		return memory.New()
	default:
		eng, err := elastic.New(cfg.Elasticsearch.URL, cfg.Elasticsearch.Index, log)
		if err != nil {
			log.Warn("elasticsearch unavailable at startup", "error", err)
			return nil
		}
		return eng
	}
}

// noopInvalidator stands in when the cache layer is disabled.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(cache.Family, string) {}

func (a *App) invalidator() event.Invalidator {
	if a.coordinator != nil {
		return a.coordinator
	}
	return noopInvalidator{}
}

// Run serves HTTP and consumes catalog events until the context is canceled,
// then shuts everything down in dependency order.
func (a *App) Run(ctx context.Context) error {
	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	for _, c := range a.consumers {
		go func(c *kafka.Consumer) {
			if err := c.Start(consumerCtx); err != nil {
				a.logger.Error("consumer stopped with error", "error", err)
			}
		}(c)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", "error", err)
	}

	stopConsumers()
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("consumer close failed", "error", err)
		}
	}

	if a.coordinator != nil {
		a.coordinator.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close failed", "error", err)
		}
	}
	a.pool.Close()

	a.logger.Info("shutdown complete")
	return nil
}
