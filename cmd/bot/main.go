package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storebot_backend/internal/alert"
	"storebot_backend/internal/auth"
	"storebot_backend/internal/bot"
	"storebot_backend/internal/catalog"
	"storebot_backend/internal/command"
	"storebot_backend/internal/dedupe"
	"storebot_backend/internal/events"
	apphttp "storebot_backend/internal/http"
	"storebot_backend/internal/http/router"
	"storebot_backend/internal/notification"
	"storebot_backend/internal/order"
	"storebot_backend/internal/session"
	"storebot_backend/internal/transport/gowa"
	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting bot", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Durable session auth status
	tracker := session.New(cfg.GetAuthStatusFile(), log)

	dedupeStore, err := dedupe.New(cfg.GetRedisURL(), log)
	if err != nil {
		log.Error("failed to initialize dedupe store", "error", err)
		panic("failed to initialize dedupe store: " + err.Error())
	}
	if dedupeStore != nil {
		defer func() {
			_ = dedupeStore.Close()
		}()
	} else {
		log.Warn("REDIS_URL not configured; webhook dedupe disabled")
	}

	alertClient, closeAlerts := initAlertClient(cfg, log)
	if closeAlerts != nil {
		defer closeAlerts()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(cfg, val, eventBus, log)
	gatewayModule := gowa.NewModule(cfg, dedupeStore, tracker, eventBus, val, log)

	orderService := order.New(catalogModule.Repository(), eventBus, log, cfg.GetAdminNumber())
	parser := command.NewParser(cfg.GetAdminKeywords(), catalogModule.Service())
	messageRouter := bot.NewRouter(parser, catalogModule.Service(), orderService, gatewayModule.Client(), eventBus, cfg, log)
	gatewayModule.SetMessageHandler(messageRouter)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(cfg, log)
	notificationModule.SetSender(gatewayModule.Client())
	if alertClient != nil {
		notificationModule.SetAlertEnqueuer(alertClient)
	}
	notificationModule.RegisterHandlers(eventBus)

	authModule := auth.NewModule(cfg, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			gatewayModule,
		},
	}

	engine := router.New(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

func initAlertClient(cfg config.AlertConfig, log *logger.Logger) (*alert.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; admin alerts disabled")
		return nil, nil
	}

	client, err := alert.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize alert client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}
