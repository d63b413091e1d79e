package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fundacion-saciar/saciar-api/internal/app"
	"github.com/fundacion-saciar/saciar-api/internal/benefactors"
	"github.com/fundacion-saciar/saciar-api/internal/fleet"
	"github.com/fundacion-saciar/saciar-api/internal/mailer"
	"github.com/fundacion-saciar/saciar-api/internal/platform/db"
	"github.com/fundacion-saciar/saciar-api/internal/volunteers"
	"github.com/fundacion-saciar/saciar-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	mailClient := mailer.NewClient(cfg.BrevoURL, cfg.BrevoAPIKey, cfg.MailFrom)
	if !mailClient.Configured() {
		logger.Warn("mailer credentials missing, reminders will be skipped")
	}

	reminders := jobs.NewReminders(
		logger,
		mailClient,
		volunteers.NewRepository(pool),
		benefactors.NewRepository(pool),
		fleet.NewRepository(pool),
	)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  reminders.TaskHandlers(),
		Cron:      jobs.DailySchedule(),
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
