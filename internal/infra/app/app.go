package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
	kafkainfra "github.com/arklim/social-platform-accounts/internal/infra/kafka"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
	"github.com/arklim/social-platform-accounts/internal/infra/notification"
	redisinfra "github.com/arklim/social-platform-accounts/internal/infra/redis"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/infra/telemetry"
	postgresrepo "github.com/arklim/social-platform-accounts/internal/repository/postgres"
	redisrepo "github.com/arklim/social-platform-accounts/internal/repository/redis"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// Application wires the lifecycle core together and owns the process-level
// resources. The services are exported: callers embed the core behind their
// own transport.
type Application struct {
	Accounts  *usecase.AccountService
	Analytics *usecase.AnalyticsService
	Tokens    *security.TokenService

	cfg      *config.AppConfig
	logger   *zap.Logger
	store    *postgresrepo.Store
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := postgresrepo.NewStore(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	accounts := postgresrepo.NewAccountRepository(store.Pool())
	analytics := postgresrepo.NewAnalyticsRepository(store.Pool())
	transactor := postgresrepo.NewTransactor(store.Pool(), accounts, analytics)

	tokens, err := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTokenTTL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init token service: %w", err)
	}

	metrics, err := telemetry.NewLifecycleMetrics(telemetry.LifecycleMetricsOptions{
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	app := &Application{
		Tokens: tokens,
		cfg:    cfg,
		logger: log,
		store:  store,
	}

	var publisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			publisher = kafkainfra.NewStubPublisher(log)
		} else {
			app.producer = producer
			publisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		publisher = kafkainfra.NewStubPublisher(log)
	}

	rules := []security.PasswordRule{
		security.MinLengthRule(8),
		security.RequireUppercaseRule(),
		security.RequireLowercaseRule(),
		security.RequireDigitRule(),
		security.RequireSymbolRule(),
	}
	if cfg.Security.MinPasswordScore > 0 {
		rules = append(rules, security.RequirePasswordStrengthRule(cfg.Security.MinPasswordScore))
	}
	validator := security.NewPasswordValidator(rules...)

	notifier := notification.NewStubNotifier(log)

	accountService := usecase.NewAccountService(cfg, transactor, accounts, notifier, publisher, validator, log).
		WithMetrics(metrics)

	if cfg.Redis.Enabled {
		redisClient, err := redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		app.redis = redisClient

		ttl := cfg.Redis.LoginAttemptTTL
		if ttl <= 0 {
			ttl = 2 * cfg.Security.LoginThrottleWindow
		}
		rateLimits := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: cfg.Redis.LoginAttemptPrefix,
			TTL:       ttl,
		})
		accountService.WithRateLimitStore(rateLimits)
	}

	app.Accounts = accountService
	app.Analytics = usecase.NewAnalyticsService(transactor, accounts, analytics, log).
		WithMetrics(metrics)

	return app, nil
}

// Run serves the metrics and health endpoints until the context is cancelled,
// then releases all resources.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", a.handleHealth)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Telemetry.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting accounts service",
		zap.String("env", a.cfg.App.Env),
		zap.String("telemetry_address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run telemetry server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown telemetry server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

func (a *Application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.store.Pool().Ping(ctx); err != nil {
		a.logger.Warn("health check failed", zap.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	if a.redis != nil {
		if err := a.redis.HealthCheck(ctx); err != nil {
			a.logger.Warn("health check failed", zap.Error(err))
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *Application) close() {
	if a.producer != nil {
		_ = a.producer.Close()
		a.producer = nil
	}
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}
