package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tessera-labs/design-notify/internal/api"
	"github.com/tessera-labs/design-notify/internal/channel"
	"github.com/tessera-labs/design-notify/internal/config"
	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/engine"
	"github.com/tessera-labs/design-notify/internal/store"
	ws "github.com/tessera-labs/design-notify/internal/websocket"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Dedup store: Redis when configured, in-process otherwise
	var dedup store.DedupStore
	if cfg.RedisURL != "" {
		redisDedup, err := store.NewRedisDedup(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisDedup.Close()
		dedup = redisDedup
		logger.Info("connected to redis for idempotency keys")
	} else {
		dedup = store.NewMemoryDedup()
		logger.Info("using in-process idempotency store")
	}

	eventLog := store.NewEventLog()
	subscriptions := store.NewSubscriptionStore()
	notifications := store.NewNotificationStore()

	// Socket hub
	hub := ws.NewHub(logger)
	go hub.Run()

	// Channel adapters share one HTTP client; per-attempt deadlines come
	// from the dispatcher's context
	httpClient := &http.Client{Timeout: 10 * time.Second}
	adapters := map[domain.Channel]channel.Adapter{
		domain.ChannelWebhook: channel.NewWebhookAdapter(httpClient, cfg.OutboundSigningSecret),
		domain.ChannelSlack:   channel.NewSlackAdapter(httpClient),
		domain.ChannelEmail:   channel.NewEmailAdapter(cfg.SMTPAddr, cfg.SMTPFrom),
		domain.ChannelSocket:  channel.NewSocketAdapter(hub),
	}

	dispatcher := engine.NewDispatcher(
		adapters,
		cfg.NumWorkers,
		time.Duration(cfg.DeliveryTimeoutSeconds)*time.Second,
		logger,
	)
	pipeline := engine.NewPipeline(eventLog, dedup, subscriptions, notifications, dispatcher, logger)

	router := api.NewRouter(api.Deps{
		Pipeline:      pipeline,
		EventLog:      eventLog,
		Subscriptions: subscriptions,
		Notifications: notifications,
		Hub:           hub,
		WebhookSecret: cfg.WebhookSecret,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
