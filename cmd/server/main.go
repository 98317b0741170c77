package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authhandler "lifecover/internal/auth/handler"
	authmetrics "lifecover/internal/auth/metrics"
	authservice "lifecover/internal/auth/service"
	"lifecover/internal/auth/store/user"
	httpapi "lifecover/internal/http"
	"lifecover/internal/platform/config"
	"lifecover/internal/platform/httpserver"
	"lifecover/internal/platform/logger"
	"lifecover/internal/platform/metrics"
	"lifecover/internal/platform/postgres"
	"lifecover/internal/platform/redis"
	rlconfig "lifecover/internal/ratelimit/config"
	rlmetrics "lifecover/internal/ratelimit/metrics"
	rlmiddleware "lifecover/internal/ratelimit/middleware"
	"lifecover/internal/ratelimit/service/requestlimit"
	"lifecover/internal/ratelimit/store/bucket"
	"lifecover/internal/recommendation"
	rechandler "lifecover/internal/recommendation/handler"
	recmetrics "lifecover/internal/recommendation/metrics"
	recservice "lifecover/internal/recommendation/service"
	recstore "lifecover/internal/recommendation/store"
	"lifecover/pkg/platform/audit"
	"lifecover/pkg/platform/audit/publisher"
	"lifecover/pkg/platform/audit/publishers/kafka"
	auditpg "lifecover/pkg/platform/audit/store/postgres"
	"lifecover/pkg/platform/audit/store/logsink"
)

const (
	shutdownTimeout = 10 * time.Second
	auditBufferSize = 1024
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	health := httpapi.NewHealth(2 * time.Second)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		health.Register("database", db.PingContext)
		log.Info("using postgres stores")
	} else {
		log.Warn("database_url not set, using in-memory stores")
	}

	redisClient, err := redis.New(ctx, cfg.RedisURL, cfg.RedisPoolSize)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		health.Register("redis", redisClient.Health)
	}

	auditStore, closeAudit, err := openAuditStore(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
	)
	defer auditPublisher.Close()

	users, submissions := openStores(db)

	authMetrics := authmetrics.New(reg)
	authSvc, err := authservice.New(users, authservice.Config{
		SigningKey: cfg.JWTSigningKey,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	},
		authservice.WithLogger(log),
		authservice.WithMetrics(authMetrics),
		authservice.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	if err := seedAdmin(ctx, cfg, users, authSvc, auditPublisher, log); err != nil {
		return err
	}

	formatter, err := recommendation.ParseCurrencyFormatter(cfg.CurrencyLocale, cfg.CurrencySymbol)
	if err != nil {
		return fmt.Errorf("currency formatter: %w", err)
	}
	recSvc, err := recservice.New(submissions,
		recservice.WithLogger(log),
		recservice.WithMetrics(recmetrics.New(reg)),
		recservice.WithAuditPublisher(auditPublisher),
		recservice.WithEngine(recommendation.NewEngine(recommendation.WithFormatter(formatter))),
		recservice.WithMaxListLimit(cfg.ListMaxLimit),
	)
	if err != nil {
		return fmt.Errorf("init recommendation service: %w", err)
	}

	rateLimit, err := newRateLimitMiddleware(cfg, redisClient, auditPublisher, rlmetrics.New(reg), log)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:          log,
		Registry:        reg,
		HTTPMetrics:     metrics.NewHTTP(reg),
		Health:          health,
		RateLimit:       rateLimit,
		TokenVerifier:   authSvc,
		Auth:            authhandler.New(authSvc, log),
		Recommendations: rechandler.New(recSvc, log),
		Audit:           auditPublisher,
		AdminDenials:    authMetrics,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting lifecover", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type credentialStore interface {
	authservice.CredentialStore
	adminWriter
}

func openStores(db *sql.DB) (credentialStore, recservice.Store) {
	if db == nil {
		return user.New(), recstore.NewInMemoryStore()
	}
	return user.NewPostgres(db), recstore.NewPostgres(db)
}

// openAuditStore picks the audit sink: Kafka when brokers are configured,
// then the database, then the structured log.
func openAuditStore(ctx context.Context, cfg config.Server, db *sql.DB, log *slog.Logger) (audit.Store, func(), error) {
	switch {
	case len(cfg.KafkaBrokers) > 0:
		sink, err := kafka.New(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			return nil, nil, fmt.Errorf("audit kafka sink: %w", err)
		}
		log.Info("audit events streaming to kafka", "topic", cfg.KafkaAuditTopic)
		return sink, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := sink.Close(closeCtx); err != nil {
				log.Warn("failed to flush audit sink", "error", err)
			}
		}, nil
	case db != nil:
		return auditpg.New(db), func() {}, nil
	default:
		return logsink.New(log), func() {}, nil
	}
}

// newRateLimitMiddleware uses Redis when configured, with an in-memory
// limiter taking over while Redis is failing.
func newRateLimitMiddleware(cfg config.Server, redisClient *redis.Client, emitter audit.Emitter, m *rlmetrics.Metrics, log *slog.Logger) (*rlmiddleware.Middleware, error) {
	limits := rlconfig.New(cfg.RateLimitWindow, cfg.RateLimitRecommendation, cfg.RateLimitAuth, cfg.RateLimitGeneral)
	newLimiter := func(store requestlimit.BucketStore) (*requestlimit.Service, error) {
		return requestlimit.New(store,
			requestlimit.WithConfig(limits),
			requestlimit.WithLogger(log),
			requestlimit.WithAuditPublisher(emitter),
			requestlimit.WithMetrics(m),
		)
	}

	memoryLimiter, err := newLimiter(bucket.New())
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}
	opts := []rlmiddleware.Option{
		rlmiddleware.WithDisabled(cfg.RateLimitDisabled),
		rlmiddleware.WithMetrics(m),
	}
	if redisClient == nil {
		return rlmiddleware.New(memoryLimiter, log, opts...), nil
	}

	redisLimiter, err := newLimiter(bucket.NewRedis(redisClient.Client))
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}
	opts = append(opts, rlmiddleware.WithFallback(memoryLimiter))
	return rlmiddleware.New(redisLimiter, log, opts...), nil
}
