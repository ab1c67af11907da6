package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/usecase"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/service"
	"github.com/anungis437/nzila-eexports-sub001/internal/infrastructure/config"
	"github.com/anungis437/nzila-eexports-sub001/internal/infrastructure/messaging"
	pgrepo "github.com/anungis437/nzila-eexports-sub001/internal/infrastructure/persistence/postgres"
	"github.com/anungis437/nzila-eexports-sub001/internal/infrastructure/scheduler"
	"github.com/anungis437/nzila-eexports-sub001/internal/presentation/consumer"
	"github.com/anungis437/nzila-eexports-sub001/internal/presentation/rest"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
	pkgkafka "github.com/anungis437/nzila-eexports-sub001/pkg/kafka"
	"github.com/anungis437/nzila-eexports-sub001/pkg/money"
	"github.com/anungis437/nzila-eexports-sub001/pkg/observability"
	pkgpostgres "github.com/anungis437/nzila-eexports-sub001/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: "json",
	})
	slog.SetDefault(logger)

	logger.Info("starting deal-finance-service",
		"http_port", cfg.HTTPPort,
		"metrics_port", cfg.MetricsPort,
	)

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(ctx) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Port:        cfg.MetricsPort,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.MigrationsDir); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Infrastructure adapters.
	dealRepo := pgrepo.NewDealRepo(pool)
	termsRepo := pgrepo.NewTermsRepo(pool)
	planRepo := pgrepo.NewPlanRepo(pool)
	brokerTierRepo := pgrepo.NewBrokerTierRepo(pool)
	dealerTierRepo := pgrepo.NewDealerTierRepo(pool)
	commissionRepo := pgrepo.NewCommissionRepo(pool)
	outboxRepo := pgrepo.NewOutboxRepo(pool)
	uow := pgrepo.NewUnitOfWork(pool)

	producer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})
	defer producer.Close()
	publisher := messaging.NewKafkaEventPublisher(producer, messaging.DealFinanceTopic, logger)
	relay := messaging.NewOutboxRelay(outboxRepo, producer, messaging.DealFinanceTopic, logger)

	clk := clock.System{}
	fx := money.DefaultRegistry()
	policy := service.NewCommissionPolicy()

	// Use cases.
	createDealUC := usecase.NewCreateDealUseCase(dealRepo, publisher, clk)
	createTermsUC := usecase.NewCreateTermsUseCase(dealRepo, termsRepo, publisher, clk)
	attachScheduleUC := usecase.NewAttachScheduleUseCase(termsRepo, publisher, clk)
	processPaymentUC := usecase.NewProcessPaymentUseCase(uow, clk)
	attachFinancingUC := usecase.NewAttachFinancingUseCase(uow, clk)
	advanceDealUC := usecase.NewAdvanceDealUseCase(dealRepo, termsRepo, publisher, clk)
	completeDealUC := usecase.NewCompleteDealUseCase(uow, policy, clk)
	commissionStatusUC := usecase.NewUpdateCommissionStatusUseCase(commissionRepo, publisher, clk)
	waiveMilestoneUC := usecase.NewWaiveMilestoneUseCase(termsRepo, clk)
	resetPeriodsUC := usecase.NewResetPeriodsUseCase(brokerTierRepo, dealerTierRepo)
	summaryUC := usecase.NewGetDealSummaryUseCase(dealRepo, termsRepo, planRepo, fx, clk)

	// Command consumer: upstream CRM services drive the finance core
	// through the command topic rather than a public HTTP API.
	commands := consumer.NewCommandConsumer(
		createDealUC, createTermsUC, attachScheduleUC,
		processPaymentUC, attachFinancingUC, advanceDealUC,
		completeDealUC, commissionStatusUC, waiveMilestoneUC,
		logger,
	)
	commandConsumer := pkgkafka.NewConsumer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.ServiceName,
	}, consumer.DealFinanceCommandTopic, commands.Handle, logger)

	// Background workers.
	go relay.Run(ctx)
	go scheduler.New(commissionStatusUC, resetPeriodsUC, clk, logger).Run(ctx)
	go func() {
		if err := commandConsumer.Start(ctx); err != nil {
			logger.Error("command consumer stopped", "error", err)
		}
	}()

	// HTTP server (health checks and the internal read projection).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(pool, logger)
	healthHandler.RegisterRoutes(mux)
	summaryHandler := rest.NewSummaryHandler(summaryUC, logger)
	summaryHandler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler)
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "error", err)
	}

	logger.Info("deal-finance-service stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
