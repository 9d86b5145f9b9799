// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/hotel-maintenance/internal/admin"
	"github.com/carterperez-dev/hotel-maintenance/internal/auth"
	"github.com/carterperez-dev/hotel-maintenance/internal/broker"
	"github.com/carterperez-dev/hotel-maintenance/internal/config"
	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/dashboard"
	"github.com/carterperez-dev/hotel-maintenance/internal/health"
	"github.com/carterperez-dev/hotel-maintenance/internal/mailer"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/repair"
	"github.com/carterperez-dev/hotel-maintenance/internal/server"
	"github.com/carterperez-dev/hotel-maintenance/internal/user"
	"github.com/carterperez-dev/hotel-maintenance/migrations"
)

const drainDelay = 5 * time.Second

//nolint:funlen // bootstrap code is inherently verbose
func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("trace export enabled", "endpoint", cfg.Otel.Endpoint)
	}

	core.SetPasswordHasher(core.NewPasswordHasher(core.ParamsFromConfig(cfg.Auth.Password)))

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return err
		}
		logger.Info("database migrated")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	healthDeps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
	}
	notifyOpts := []notification.Option{notification.WithLogger(logger)}

	var producer *broker.Producer
	if cfg.Kafka.Enabled {
		producer = broker.NewProducer(logger, cfg.Kafka)
		notifyOpts = append(notifyOpts, notification.WithPublisher(producer))
		healthDeps = append(healthDeps, health.Dependency{
			Name:     "kafka",
			Checker:  producer,
			Optional: true,
		})
		logger.Info("kafka producer initialized",
			"brokers", cfg.Kafka.Brokers,
			"topic", cfg.Kafka.Topic,
		)
	}

	if cfg.Mail.Enabled {
		notifyOpts = append(notifyOpts,
			notification.WithMailer(mailer.New(logger, cfg.Mail)))
		logger.Info("mail delivery enabled", "host", cfg.Mail.Host)
	}

	userRepo := user.NewRepository(db.DB)
	notificationSvc := notification.NewService(
		notification.NewRepository(db.DB),
		userRepo,
		notifyOpts...,
	)

	userSvc := user.NewService(userRepo, notificationSvc)
	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		jwtManager,
		userSvc,
		auth.WithRevocations(auth.NewRedisRevocations(redis)),
		auth.WithRegistration(cfg.Auth.AllowRegistration),
		auth.WithLogger(logger),
	)
	repairSvc := repair.NewService(repair.NewRepository(db.DB), notificationSvc)
	dashboardSvc := dashboard.NewService(
		dashboard.NewRepository(db.DB),
		repairSvc,
		dashboard.NewRedisCache(redis),
		cfg.Cache,
		logger,
	)

	healthHandler := health.NewHandler(healthDeps...)

	adminCfg := admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Sessions:   authSvc,

		SessionRetention: cfg.Auth.SessionRetention,
	}
	if producer != nil {
		adminCfg.BrokerStats = producer.Stats
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(telemetry.Tracer("http")))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			BypassFunc: middleware.SkipProbes,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	if cfg.RateLimit.PerRole {
		roleLimit := middleware.RoleRateLimiter(
			redis,
			middleware.DefaultRoleLimits,
		)
		verify := authenticator
		authenticator = func(next http.Handler) http.Handler {
			return verify(roleLimit(next))
		}
	}

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator)
		user.NewHandler(userSvc).RegisterRoutes(r, authenticator)
		repair.NewHandler(repairSvc).RegisterRoutes(r, authenticator)
		notification.NewHandler(notificationSvc).RegisterRoutes(r, authenticator)
		dashboard.NewHandler(dashboardSvc).RegisterRoutes(r, authenticator)
		admin.NewHandler(adminCfg).RegisterRoutes(r, authenticator, middleware.RequireAdmin)
	})

	go pruneSessions(ctx, logger, authSvc, cfg.Auth)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func pruneSessions(ctx context.Context, logger *slog.Logger, svc *auth.Service, cfg config.AuthConfig) {
	ticker := time.NewTicker(cfg.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PruneExpiredSessions(ctx, cfg.SessionRetention)
			if err != nil {
				logger.Warn("session prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned expired sessions", "deleted", n)
			}
		}
	}
}
