package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking-web/internal/config"
	"github.com/iliyamo/hotel-booking-web/internal/database"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/inflight"
	"github.com/iliyamo/hotel-booking-web/internal/lifecycle"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/queue"
	"github.com/iliyamo/hotel-booking-web/internal/router"
	"github.com/iliyamo/hotel-booking-web/internal/service"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load .env", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable; cache, rate limiting and redis sessions disabled")
	} else {
		defer rdb.Close()
	}

	sessCfg := config.LoadSessionConfig()
	storage, db := openStorage(sessCfg, rdb, logger)
	if db != nil {
		defer db.Close()
		go purgeLoop(ctx, storage.(*session.SQLStorage), logger)
	}
	store := session.NewStore(storage, logger)
	store.OnTeardown(func(_ context.Context, sid string) {
		logger.Info("session ended", "component", "session", "sid", shortSID(sid))
	})

	gw, err := gateway.New(gateway.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout, Logger: logger})
	if err != nil {
		logger.Error("gateway", "err", err)
		os.Exit(1)
	}

	var guard inflight.Guard = inflight.NewLocalGuard()
	if rdb != nil {
		guard = inflight.NewRedisGuard(rdb, "inflight", sessCfg.GuardTTL)
	}

	publisher := service.NewPublisher(cfg.RabbitMQURL, logger)
	if publisher.Enabled() {
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.RabbitMQURL, cfg.ActivityLog, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("activity consumer stopped", "err", err)
			}
		}()
	} else {
		logger.Info("RABBITMQ_URL not set; booking activity events disabled")
	}

	e := router.New(router.Deps{
		Store:     store,
		Gateway:   gw,
		Bookings:  lifecycle.NewService(gw, guard, publisher, logger),
		Logger:    logger,
		Redis:     rdb,
		Cookie:    middleware.CookieConfig{Name: sessCfg.CookieName, Secure: sessCfg.CookieSecure, MaxAge: sessCfg.TTL},
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "session_backend", store.Backend(), "api", cfg.APIBaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStorage picks the configured session backend, falling back to memory
// when it cannot be reached.  db is non-nil only for the MySQL backend.
func openStorage(cfg config.SessionConfig, rdb *redis.Client, logger *slog.Logger) (session.Storage, *sql.DB) {
	switch cfg.Backend {
	case config.BackendRedis:
		if rdb != nil {
			return session.NewRedisStorage(rdb, cfg.RedisPrefix, cfg.TTL), nil
		}
		logger.Warn("redis session storage unavailable; falling back to memory")
	case config.BackendMySQL:
		db, err := database.Open(cfg.DSN())
		if err == nil {
			return session.NewSQLStorage(db, cfg.TTL), db
		}
		logger.Warn("mysql session storage unavailable; falling back to memory", "err", err)
	}
	return session.NewMemoryStorage(), nil
}

func purgeLoop(ctx context.Context, s *session.SQLStorage, logger *slog.Logger) {
	t := time.NewTicker(15 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired sessions failed", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired sessions", "rows", n)
			}
		}
	}
}

func shortSID(sid string) string {
	if i := strings.IndexByte(sid, '-'); i > 0 {
		return sid[:i]
	}
	return sid
}
