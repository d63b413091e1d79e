package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/fundacion-saciar/saciar-api/internal/app"
	"github.com/fundacion-saciar/saciar-api/internal/auth"
	"github.com/fundacion-saciar/saciar-api/internal/benefactors"
	"github.com/fundacion-saciar/saciar-api/internal/fleet"
	"github.com/fundacion-saciar/saciar-api/internal/inventory"
	"github.com/fundacion-saciar/saciar-api/internal/observability"
	"github.com/fundacion-saciar/saciar-api/internal/platform/cache"
	"github.com/fundacion-saciar/saciar-api/internal/platform/db"
	"github.com/fundacion-saciar/saciar-api/internal/volunteers"
	"github.com/fundacion-saciar/saciar-api/jobs"
	"github.com/fundacion-saciar/saciar-api/migrations"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(cfg.PGDSN, migrations.FS); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	summaryCache := cache.New(redisClient, 5*time.Minute)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.Middleware{Secret: cfg.JWTSecret, Logger: logger}

	volunteersRepo := volunteers.NewRepository(pool)
	volunteersService := volunteers.NewService(volunteersRepo, summaryCache)
	volunteersHandler := volunteers.NewHandler(logger, volunteersService)

	benefactorsRepo := benefactors.NewRepository(pool)
	benefactorsService := benefactors.NewService(benefactorsRepo, summaryCache)
	benefactorsHandler := benefactors.NewHandler(logger, benefactorsService)

	fleetRepo := fleet.NewRepository(pool)
	fleetService := fleet.NewService(fleetRepo)
	fleetHandler := fleet.NewHandler(logger, fleetService)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, summaryCache)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobsClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(jobsClient, inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		VolunteersHandler:  volunteersHandler,
		BenefactorsHandler: benefactorsHandler,
		FleetHandler:       fleetHandler,
		InventoryHandler:   inventoryHandler,
		JobsHandler:        jobsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
