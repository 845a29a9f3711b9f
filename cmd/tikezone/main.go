package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tikezone/platform/pkg/api"
	"github.com/tikezone/platform/pkg/auth"
	"github.com/tikezone/platform/pkg/config"
	"github.com/tikezone/platform/pkg/httputil"
	"github.com/tikezone/platform/pkg/middleware"
	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/otp"
	"github.com/tikezone/platform/pkg/users"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	db, err := sql.Open("postgres", cfg.App.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	codec, err := auth.NewCodec(cfg.App.SigningKey, cfg.App.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token codec: %v", err)
	}

	var codes otp.Store
	if cfg.App.RedisURL != "" {
		redisStore, err := otp.NewRedisStore(cfg.App.RedisURL, cfg.App.OTPTTL)
		if err != nil {
			log.Fatalf("Failed to connect OTP store to redis: %v", err)
		}
		defer redisStore.Close()
		codes = redisStore
		logger.Info("using redis OTP store")
	} else {
		codes = otp.NewMemoryStore(cfg.App.OTPTTL)
		logger.Info("using in-memory OTP store (single instance only)")
	}

	server := api.NewServer(
		users.NewStorage(db),
		codes,
		codec,
		&api.LogSender{Logger: logger},
		logger,
		metrics,
		cfg.App.Production,
		cfg.Observability.MetricsEnabled,
	)

	middlewares := []func(http.Handler) http.Handler{
		httputil.RecoveryMiddleware(logger),
		httputil.LoggingMiddleware(logger),
	}
	if cfg.Observability.MetricsEnabled {
		middlewares = append(middlewares, httputil.MetricsMiddleware(metrics))
	}
	middlewares = append(middlewares,
		middleware.NewTransportPolicy(cfg.App.Production).Handler,
		middleware.NewTenantResolver(cfg.App.MainDomain, cfg.App.APIBaseURL, logger, metrics).Handler,
	)
	handler := httputil.Chain(middlewares...)(server)

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("starting server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("shutdown error")
	}
}
