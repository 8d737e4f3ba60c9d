package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/atelier-erp/atelier-erp/internal/app"
	"github.com/atelier-erp/atelier-erp/internal/clients"
	"github.com/atelier-erp/atelier-erp/internal/documents"
	"github.com/atelier-erp/atelier-erp/internal/platform/db"
	"github.com/atelier-erp/atelier-erp/jobs"
	"github.com/atelier-erp/atelier-erp/report"
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

	clientsRepo := clients.NewRepository(pool)
	documentsRepo := documents.NewRepository(pool)
	documentsService := documents.NewService(documentsRepo, clientsRepo)
	clientsService := clients.NewService(clientsRepo, nil)

	pdfClient := report.NewClient(cfg.PDFServiceURL, cfg.PDFServiceKey)
	renderer := report.NewRenderer(pdfClient, documentsService, clientsService)

	purgeTask, err := jobs.NewTrashPurgeTask(cfg.TrashRetentionDays)
	if err != nil {
		logger.Error("build purge task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTrashPurge, Handler: jobs.HandleTrashPurge(documentsRepo, logger)},
			{Type: jobs.TaskRenderDocument, Handler: jobs.HandleRenderDocument(renderer, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.TrashPurgeCron, Task: purgeTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
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
