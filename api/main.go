package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lfmartins/stock-manager/internal/auth"
	"github.com/lfmartins/stock-manager/internal/config"
	"github.com/lfmartins/stock-manager/internal/db"
	router "github.com/lfmartins/stock-manager/internal/http"
	"github.com/lfmartins/stock-manager/internal/http/handlers"
	mw "github.com/lfmartins/stock-manager/internal/http/middleware"
	rl "github.com/lfmartins/stock-manager/internal/http/rate_limiter"
	"github.com/lfmartins/stock-manager/internal/logging"
	"github.com/lfmartins/stock-manager/internal/notify"
	"github.com/lfmartins/stock-manager/internal/redissvc"
	"github.com/lfmartins/stock-manager/internal/repo"
	"github.com/lfmartins/stock-manager/internal/scheduler"
)

// @title Stock Management API
// @version 1.0
// @description REST API for multi-tenant stock management with low-stock and expiration notifications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := logging.Setup("info")
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.Setup(cfg.LogLevel)

	auth.SetSecret(cfg.JWTSecret)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close()

	if err := db.InitSchema(database); err != nil {
		logger.Fatal().Err(err).Msg("could not initialize database schema")
	}

	cache := redissvc.New(cfg.RedisAddr)
	defer cache.Close()

	productRepo := repo.NewPostgresProductRepository(database)
	saleRepo := repo.NewPostgresSaleRepository(database)
	notificationRepo := repo.NewPostgresNotificationRepository(database)
	userRepo := repo.NewPostgresUserRepository(database)

	handlers.SetProductRepo(productRepo)
	handlers.SetSaleRepo(saleRepo)
	handlers.SetNotificationRepo(notificationRepo)
	handlers.SetUserRepo(userRepo)
	handlers.SetCache(cache)
	mw.SetUserRepo(userRepo)

	deriver := notify.NewDeriver(productRepo, notificationRepo, cache, logger)
	handlers.SetDeriver(deriver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(deriver, logger)
	sched.Start(ctx)

	cleanupStop := make(chan struct{})
	go rl.StartVisitorCleanupLoop(cleanupStop)
	defer close(cleanupStop)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.NewRouter(),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	sched.Wait()
}
