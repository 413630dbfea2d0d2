package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linkhaven/linkhaven/internal/config"
	"github.com/linkhaven/linkhaven/internal/feed"
	"github.com/linkhaven/linkhaven/internal/httpserver"
	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/redis"
	"github.com/linkhaven/linkhaven/internal/remote"
	"github.com/linkhaven/linkhaven/internal/session"
	"github.com/linkhaven/linkhaven/internal/sources/seedfile"
	"github.com/linkhaven/linkhaven/internal/suggest"
	"github.com/linkhaven/linkhaven/internal/syncchan"
	"github.com/linkhaven/linkhaven/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sessions    *session.Manager
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
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

	// Change feed and remote bookmark service share the client
	source := feed.NewRedisSource(redisClient, loggerClient)
	remoteService := remote.NewService(redisClient, source, loggerClient)

	// Each session gets its own sync-channel endpoint so sibling
	// sessions of the same owner hear each other's mutations
	channels := func(owner string) syncchan.Channel {
		return syncchan.NewRedisChannel(redisClient, owner, loggerClient)
	}
	sessions := session.NewManager(remoteService, source, channels, loggerClient)

	// Optional one-shot seed import
	if cfg.SeedFile != "" {
		importer := seedfile.NewImporter(cfg.SeedFile, remoteService, loggerClient)
		if _, err := importer.Run(context.Background(), cfg.SeedOwner); err != nil {
			loggerClient.Warn("seed import failed, continuing without it",
				logger.String("file", cfg.SeedFile),
				logger.Error(err))
		}
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RedisClient:     redisClient,
		Sessions:        sessions,
		Suggester:       suggest.Heuristic{},
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sessions:    sessions,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LinkHaven v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("LinkHaven %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	// Sessions first: their feed and sync subscriptions must be gone
	// before the Redis client closes underneath them
	a.sessions.CloseAll()
	a.logger.Info("sessions closed")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ LinkHaven stopped cleanly")
	return nil
}
