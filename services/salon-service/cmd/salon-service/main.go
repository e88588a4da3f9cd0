package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/salonflow/salonflow/libs/auth"
	"github.com/salonflow/salonflow/libs/config"
	"github.com/salonflow/salonflow/libs/db"
	"github.com/salonflow/salonflow/libs/httpx"
	"github.com/salonflow/salonflow/libs/kafkax"
	otelx "github.com/salonflow/salonflow/libs/otel"
	"github.com/salonflow/salonflow/libs/runtime"
	"github.com/salonflow/salonflow/services/salon-service/internal/handlers"
	"github.com/salonflow/salonflow/services/salon-service/internal/outbox"
	"github.com/salonflow/salonflow/services/salon-service/internal/service"
	"github.com/salonflow/salonflow/services/salon-service/internal/storage"
)

func main() {
	serviceName := config.String("SERVICE_NAME", "salon-service")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(serviceName)

	ctx, stop := runtime.SignalContext(logger)
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(serviceName))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.Options{MaxConns: int32(config.Int("DB_MAX_CONNS", 10, 1))})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if config.Bool("DB_AUTO_MIGRATE", false) {
		if err := storage.Migrate(ctx, pool, logger); err != nil {
			logger.Error("migrations failed", "err", err)
			panic(err)
		}
	}

	svc := service.New(storage.NewStore(pool), logger)

	brokers := config.String("KAFKA_BROKERS", "")
	publisher := outbox.NewPublisher(pool, logger, outbox.PublisherConfig{
		Brokers:   brokers,
		PollEvery: config.Duration("OUTBOX_POLL_MS", 2*time.Second, time.Millisecond),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50, 1),
	})
	go publisher.Run(ctx)

	checks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}
	if strings.TrimSpace(brokers) != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}

	rateLimitMW, redisCheck, closeRedis := rateLimiter(logger)
	defer closeRedis()
	if redisCheck != nil {
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: redisCheck})
	}

	routes, err := routeOptions(logger)
	if err != nil {
		logger.Error("auth configuration invalid", "err", err)
		panic(err)
	}

	mux := runtime.NewBaseMuxWithReady(checks...)
	handlers.New(svc, logger).Register(mux, routes)

	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods: config.List("CORS_ALLOWED_METHODS", ""),
			AllowedHeaders: config.List("CORS_ALLOWED_HEADERS", ""),
			ExposedHeaders: []string{httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20, 0))),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT_SECONDS", 10*time.Second, time.Second)),
		rateLimitMW,
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "salon")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := startGrpcServer(ctx, logger); err != nil {
		logger.Error("grpc server failed to start", "err", err)
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

// rateLimiter uses Redis when REDIS_ADDR is set so limits hold across
// replicas. The readiness check is nil for the in-memory limiter.
func rateLimiter(logger *slog.Logger) (httpx.Middleware, func(context.Context) error, func()) {
	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120, 1)
	addr := strings.TrimSpace(config.String("REDIS_ADDR", ""))
	if addr == "" {
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
		return httpx.NewRateLimiter(limitPerMinute, time.Minute).Middleware(), nil, func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.String("REDIS_PASSWORD", ""),
		DB:       config.Int("REDIS_DB", 0, 0),
	})
	rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "salon:rl"))
	logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	closeFn := func() { _ = rdb.Close() }
	return rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true)), rl.ReadyCheck(), closeFn
}

// routeOptions turns on bearer auth when AUTH_ENABLED is set. Leave review
// is then limited to owners and managers.
func routeOptions(logger *slog.Logger) (handlers.RouteOptions, error) {
	if !config.Bool("AUTH_ENABLED", false) {
		logger.Warn("authentication disabled")
		return handlers.RouteOptions{}, nil
	}
	secret := config.String("JWT_SECRET", "")
	jwksURL := config.String("JWKS_URL", "")
	if secret == "" && jwksURL == "" {
		return handlers.RouteOptions{}, errors.New("AUTH_ENABLED requires JWT_SECRET or JWKS_URL")
	}
	var jwks *auth.JWKSClient
	if jwksURL != "" {
		jwks = auth.NewJWKSClient(jwksURL, config.Duration("JWKS_CACHE_SECONDS", 5*time.Minute, time.Second))
	}
	return handlers.RouteOptions{
		Authenticated: httpx.RequireAuth(auth.NewVerifier(secret, jwks), logger),
		Reviewers:     httpx.RequireRole(auth.RoleOwner, auth.RoleManager),
	}, nil
}
