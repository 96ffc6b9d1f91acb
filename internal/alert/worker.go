package alert

import (
	"context"
	"fmt"

	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes the alert queue and delivers alerts by email. Delivery
// failures are returned so asynq retries with backoff.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	email  *EmailSender
	log    *logger.Logger
}

// NewWorker builds the consume side of the alert channel.
func NewWorker(cfg config.AlertConfig, email *EmailSender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAlertQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAlertConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		email:  email,
		log:    log,
	}

	mux.HandleFunc(TaskAdminAlert, w.handleAdminAlert)

	return w, nil
}

func (w *Worker) handleAdminAlert(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAdminAlertPayload(task)
	if err != nil {
		return err
	}

	w.log.Warn("admin alert",
		"subject", payload.Subject,
		"chat", payload.ChatID,
		"command", payload.Command,
	)

	if w.email == nil {
		return nil
	}
	return w.email.SendAlert(ctx, payload)
}

// Run blocks serving the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("alert worker stopped", "error", err)
	}
}
