package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-turismo/internal/auth"
	"github.com/noah-isme/backend-turismo/internal/booking"
	"github.com/noah-isme/backend-turismo/internal/cart"
	"github.com/noah-isme/backend-turismo/internal/catalog"
	"github.com/noah-isme/backend-turismo/internal/checkout"
	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/config"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/events"
	"github.com/noah-isme/backend-turismo/internal/health"
	"github.com/noah-isme/backend-turismo/internal/obs"
	"github.com/noah-isme/backend-turismo/internal/ratelimit"
	"github.com/noah-isme/backend-turismo/internal/reviews"
)

const shutdownGrace = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().Str("env", cfg.AppEnv).Logger()
	obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)

	shutdownTracer, err := obs.InitTracer(context.Background(), obs.TracingConfig{
		Enabled:       cfg.Obs.TracingEnabled,
		ServiceName:   "turismo-api",
		Environment:   cfg.AppEnv,
		Exporter:      cfg.Obs.TracingExporter,
		Endpoint:      cfg.Obs.OTLPEndpoint,
		SamplingRatio: cfg.Obs.SamplingRatio,
	})
	if err != nil {
		logger.Error().Err(err).Msg("initialise tracing")
		cfg.Obs.TracingEnabled = false
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Error().Err(err).Msg("shutdown tracer")
			}
		}()
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, "turismo-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()
	queries := dbgen.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if cfg.Obs.TracingEnabled {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}
	if cfg.Obs.MetricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	tx := &db.Transactor{
		Pool:       pool,
		MaxRetries: cfg.ReviewTxMaxRetries,
		Logger:     logger,
		OnRetry:    func(int, error) { obs.ObserveAggregateTxRetry() },
	}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Queries: queries,
		Cache:   catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}

	bus := &events.Bus{
		Store:     queries,
		Notifiers: []events.Notifier{catalog.InvalidationNotifier{Service: catalogService}},
	}

	reviewService, err := reviews.NewService(reviews.ServiceConfig{
		Store:     reviews.PGStore{Tx: tx},
		Reader:    queries,
		Events:    bus,
		Blocklist: reviews.NewBlocklist(cfg.ReviewBlocklist),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise review service")
	}

	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise token verifier")
	}

	reviewLimiter, err := ratelimit.New(cfg.RateLimitBackend, redisClient, "rl:reviews:", ratelimit.Rate{
		Window: cfg.ReviewRateLimitWindow,
		Max:    cfg.ReviewRateLimitMax,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	var httpMetrics *obs.HTTPMetrics
	if cfg.Obs.MetricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.MetricsBuckets), nil)
	}

	router := newRouter(routerDeps{
		Config:   cfg,
		Logger:   logger,
		Metrics:  httpMetrics,
		Auth:     auth.Middleware{Verifier: verifier},
		Catalog:  catalog.NewHandler(catalog.HandlerConfig{Service: catalogService}),
		Reviews:  &reviews.Handler{Svc: reviewService},
		Cart:     &cart.Handler{Svc: &cart.Service{Q: queries, TaxRate: cfg.TaxRate, Currency: cfg.Currency}},
		Checkout: &checkout.Handler{Svc: &checkout.Service{Store: checkout.PGStore{Tx: tx}, TaxRate: cfg.TaxRate, Events: bus, Logger: logger}},
		Bookings: &booking.Handler{Svc: &booking.Service{Q: queries, Events: bus, Logger: logger}},
		Health: health.Handler{
			Probes: map[string]health.Probe{
				"db":    health.PingDB(pool),
				"redis": health.PingRedis(redisClient),
			},
			Timeout: 500 * time.Millisecond,
		},
		ReviewLimit: ratelimit.Handler{
			Limiter: reviewLimiter,
			Key:     ratelimit.UserOrIP,
			OnError: func(err error) { logger.Warn().Err(err).Msg("review rate limiter unavailable") },
		},
		Idempotency: common.Idempotency{Client: redisClient, TTL: cfg.IdempotencyTTL},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
		return
	case <-sigCtx.Done():
	}

	health.SetReady(false)
	logger.Info().Msg("draining connections")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
}
