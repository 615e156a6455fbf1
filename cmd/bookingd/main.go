package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drivehub-booking/internal/application/services"
	"drivehub-booking/internal/config"
	"drivehub-booking/internal/infrastructure/gateway"
	"drivehub-booking/internal/infrastructure/mq"
	"drivehub-booking/internal/infrastructure/persistence"
	"drivehub-booking/internal/infrastructure/persistence/postgres"
	"drivehub-booking/internal/interfaces/rest/handlers"
	"drivehub-booking/internal/interfaces/rest/middleware"
	"drivehub-booking/internal/notify"
	"drivehub-booking/internal/refund"
	"drivehub-booking/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting booking service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bookingRepo := postgres.NewBookingRepository(db.Pool)
	notificationStore := postgres.NewNotificationStore(db.Pool)

	gatewayClient := gateway.NewHTTPGateway(cfg.Gateway)
	retryGateway := gateway.NewRetryGateway(gatewayClient, cfg.Retry)

	tiers, err := refund.ParseTiers(cfg.Refund.Tiers)
	if err != nil {
		logger.Error("invalid refund tier table", "error", err)
		os.Exit(1)
	}
	policy, err := refund.NewTierPolicy(tiers, cfg.Refund.HostPercent)
	if err != nil {
		logger.Error("invalid refund policy", "error", err)
		os.Exit(1)
	}

	sinks := []notify.Sink{notificationStore}
	if cfg.Notify.MQURL != "" {
		publisher, err := mq.NewPublisher(cfg.Notify.MQURL, cfg.Notify.Exchange)
		if err != nil {
			logger.Error("failed to connect to message queue", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}
	dispatcher := notify.NewDispatcher(logger, sinks...)

	orchestrator := services.NewOrchestrator(
		bookingRepo,
		retryGateway,
		policy,
		dispatcher,
		services.Config{
			LateFeeHourlyRate:  cfg.Pricing.LateFeeHourlyRate,
			PlatformFeePercent: cfg.Pricing.PlatformFeePercent,
			Currency:           cfg.Pricing.Currency,
		},
		logger,
	)

	h := handlers.NewHandlers(orchestrator, logger)

	mux := http.NewServeMux()
	h.Register(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	reconciler := worker.NewRefundReconciler(
		bookingRepo,
		retryGateway,
		dispatcher,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go reconciler.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
