package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/mossdrift/orgshare-backend/internal/config"
	"github.com/mossdrift/orgshare-backend/internal/db"
	"github.com/mossdrift/orgshare-backend/internal/logger"
	"github.com/mossdrift/orgshare-backend/internal/notification"
)

const dispatchBatchSize = 100

// The dispatcher drains the notification outbox on a schedule and hands
// pending rows to the delivery transport.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := notification.NewPgxRepository(pool)
	service := notification.NewService(repo, notification.LogSender{})

	c := cron.New()
	_, err = c.AddFunc(cfg.DispatchSchedule, func() {
		sent, err := service.DispatchPending(ctx, dispatchBatchSize)
		if err != nil {
			logger.Error("outbox drain failed", "error", err)
			return
		}
		if sent > 0 {
			logger.Info("outbox drained", "dispatched", sent)
		}
	})
	if err != nil {
		logger.Error("invalid dispatch schedule", "schedule", cfg.DispatchSchedule, "error", err)
		os.Exit(1)
	}

	c.Start()
	logger.Info("dispatcher running", "schedule", cfg.DispatchSchedule)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Let any in-flight drain finish before exiting.
	<-c.Stop().Done()
	logger.Info("dispatcher exited gracefully")
}
