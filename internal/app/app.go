package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/lombahub/internal/config"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/index"
	"github.com/MrSnakeDoc/lombahub/internal/kv"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
	"github.com/MrSnakeDoc/lombahub/internal/redis"
	"github.com/MrSnakeDoc/lombahub/internal/scheduler"
	"github.com/MrSnakeDoc/lombahub/internal/session"
	redisstore "github.com/MrSnakeDoc/lombahub/internal/store/redis"
	sqlitestore "github.com/MrSnakeDoc/lombahub/internal/store/sqlite"
	"github.com/MrSnakeDoc/lombahub/internal/utils"
	"github.com/MrSnakeDoc/lombahub/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	closers  map[string]io.Closer
	catalog  *index.CatalogIndex
	reloader *scheduler.CatalogReloader
	sweeper  *scheduler.SessionSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	closers := make(map[string]io.Closer)

	// Initialize Redis early when configured - fail fast if unavailable
	var redisClient *goredis.Client
	var catalogCache scheduler.CatalogCache
	var cachePinger deps.Pinger
	if cfg.UsesRedis() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		closers["redis"] = client

		cache := redisstore.NewStore(client)
		catalogCache = cache
		cachePinger = cache
	}

	// Preference storage
	var store kv.Store
	switch cfg.Storage {
	case config.StorageRedis:
		store = redisstore.NewStore(redisClient)
	case config.StorageSQLite:
		sqlite, err := sqlitestore.New(cfg.SQLiteDir)
		if err != nil {
			loggerClient.Errorf("Failed to open SQLite store: %v", err)
			os.Exit(1)
		}
		store = sqlite
		closers["sqlite"] = sqlite
	default:
		store = kv.NewMemory()
	}
	loggerClient.Info("Preference storage ready", logger.String("backend", cfg.Storage))

	catalog := index.NewCatalogIndex()

	// Try to seed the catalog from Redis so the API answers before the file is parsed
	if catalogCache != nil {
		syncer := scheduler.NewCatalogSyncer(catalogCache, catalog, loggerClient)
		if err := syncer.Sync(context.Background()); err != nil {
			loggerClient.Warn("failed to sync catalog from redis on startup, will load from file",
				logger.Error(err))
		}
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		catalogCache,
		catalog,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	sessions := session.NewManager(catalog, store, loggerClient, cfg.SessionIdleTTL)
	sweeper := scheduler.NewSessionSweeper(sessions, loggerClient, cfg.SweepInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CORSOrigins:   cfg.CORSOrigins,
		SubmitBurst:   cfg.SubmitBurst,
		SubmitPerMin:  cfg.SubmitPerMin,
		CatalogFile:   cfg.CatalogFile,
		Index:         catalog,
		Sessions:      sessions,
		Storage:       cfg.Storage,
		Store:         store,
		CatalogCache:  cachePinger,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   server,
		closers:  closers,
		catalog:  catalog,
		reloader: reloader,
		sweeper:  sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LombaHub v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("LombaHub %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start catalog reloader (loads the catalog file and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Int("competitions", a.catalog.Count()),
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Start idle session sweeper
	a.sweeper.Start(ctx)
	a.logger.Info("session sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval),
		logger.Duration("idle_ttl", a.cfg.SessionIdleTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	for name, c := range a.closers {
		utils.MustClose(c, name, a.logger)
	}

	a.logger.Info("✅ LombaHub stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
