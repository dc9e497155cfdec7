package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/account-authorizer/internal/authorization"
	"github.com/account-authorizer/internal/authorization/service"
	"github.com/account-authorizer/internal/config"
	"github.com/account-authorizer/internal/data/postgres"
	"github.com/account-authorizer/internal/logger"
	"github.com/account-authorizer/internal/platform/messaging/producers"
	"github.com/account-authorizer/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("authorization")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Authorization Service",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for executed events
	executedProducer, err := producers.NewTransactionExecutedProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize executed-event Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	balanceRepo := postgres.NewBalanceRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)

	// Initialize services
	balanceService := service.NewCurrentBalanceService(log, balanceRepo, transactionRepo)
	executeService := service.NewExecuteTransactionService(log, postgresDB, balanceRepo, transactionRepo, executedProducer)

	// Initialize REST server
	server := authorization.NewServer(log, cfg, balanceService, executeService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no request observes closed dependencies
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = executedProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Authorization Service shutdown completed with errors")
	} else {
		log.Info("Authorization Service shutdown completed successfully")
	}
}
