/**
 * @description
 * This is the main entry point for the property service. It wires together the
 * configuration, database pool, RabbitMQ producer and consumer, the payment,
 * email and SMS clients, the reminder sweep with its cron scheduler, and the
 * HTTP server, then runs until a termination signal arrives.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/williamphan99/resera-template/internal/api"
	"github.com/williamphan99/resera-template/internal/app"
	"github.com/williamphan99/resera-template/internal/config"
	"github.com/williamphan99/resera-template/internal/domain"
	"github.com/williamphan99/resera-template/internal/store"
	"github.com/williamphan99/resera-template/pkg/rabbitmq"
	"github.com/williamphan99/resera-template/pkg/resendclient"
	"github.com/williamphan99/resera-template/pkg/stripeclient"
	"github.com/williamphan99/resera-template/pkg/twilioclient"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	// Load application configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Establish database connection with connection pool configuration
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = 50
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// Set up the RabbitMQ producer for webhook settlement events. A missing
	// broker downgrades to the logging fallback so the API stays up.
	var producer rabbitmq.Publisher
	if p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL); err != nil {
		logger.Error("failed to connect to RabbitMQ, using fallback publisher", "error", err)
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		producer = p
		logger.Info("RabbitMQ producer connected")
	}
	defer producer.Close()

	// Initialize dependencies
	repository := store.NewPostgresRepository(dbpool)
	stripeClient := stripeclient.NewClient(cfg.StripeAPIURL, cfg.StripeSecret)
	emailClient := resendclient.NewClient(cfg.ResendAPIURL, cfg.ResendAPIKey, cfg.ResendFrom)
	smsClient := twilioclient.NewClient(cfg.TwilioAPIURL, cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)

	sweeper, err := app.NewSweeper(repository, emailClient, smsClient, cfg.ReminderWindow, logger)
	if err != nil {
		logger.Error("failed to construct reminder sweeper", "error", err)
		os.Exit(1)
	}

	// Start the cron scheduler for the recurring sweep.
	scheduler := app.NewScheduler(sweeper, logger, cfg.SweepSchedule)
	if err := scheduler.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// Start the payment settlement consumer.
	settlementHandler := app.NewPaymentEventHandler(repository, logger)
	go func() {
		consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("failed to connect settlement consumer", "error", err)
			return
		}
		defer consumer.Close()

		err = consumer.Consume(
			domain.PaymentEventsExchange,
			domain.PaymentSettledQueue,
			domain.PaymentSettledRoutingKey,
			settlementHandler.HandlePaymentSettledEvent,
		)
		if err != nil {
			logger.Error("settlement consumer stopped", "error", err)
		}
	}()

	// Set up router and handlers.
	handler := api.NewHandler(repository, sweeper, stripeClient, emailClient, smsClient, logger, cfg.BaseURL)
	webhookHandler := api.NewWebhookHandler(producer, cfg.StripeWebhook, logger)
	router := api.NewRouter(handler, webhookHandler, cfg.AllowedOrigin, cfg.APISecretKey)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("could not start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal to gracefully shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	// Stop taking new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Stop the scheduler and let any in-flight sweep finish its current lease.
	cancel()
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped gracefully")
}
