package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storebot_backend/internal/alert"
	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting alert worker", "env", cfg.Env, "queue", cfg.GetAlertQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	email := alert.NewEmailSender(cfg)
	if email == nil {
		log.Warn("email delivery not configured; alerts will only be logged")
	}

	worker, err := alert.NewWorker(cfg, email, log)
	if err != nil {
		log.Error("failed to initialize alert worker", "error", err)
		panic("failed to initialize alert worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("alert worker stopped")
}
