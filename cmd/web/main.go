package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/account-authorizer/internal/config"
	"github.com/account-authorizer/internal/data/mongo"
	"github.com/account-authorizer/internal/data/postgres"
	"github.com/account-authorizer/internal/logger"
	"github.com/account-authorizer/internal/platform/messaging/producers"
	"github.com/account-authorizer/internal/platform/persistence"
	"github.com/account-authorizer/internal/web"
	"github.com/account-authorizer/internal/web/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("web")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Web Service",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for transaction commands
	commandProducer, err := producers.NewTransactionCommandProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize command Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := mongo.NewAccountRepository(log, mongoDB.Database())
	balanceRepo := postgres.NewBalanceRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)

	// Initialize services
	generatorService := service.NewGeneratorService(log, accountRepo, balanceRepo, transactionRepo)
	commandService := service.NewCommandService(log, accountRepo, commandProducer)

	// Initialize REST server
	server := web.NewServer(log, cfg, generatorService, commandService)
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

	if err = commandProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Web Service shutdown completed with errors")
	} else {
		log.Info("Web Service shutdown completed successfully")
	}
}
