package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/account-authorizer/internal/config"
	"github.com/account-authorizer/internal/data/mongo"
	"github.com/account-authorizer/internal/logger"
	"github.com/account-authorizer/internal/platform/messaging/consumers"
	"github.com/account-authorizer/internal/platform/messaging/producers"
	"github.com/account-authorizer/internal/platform/persistence"
	"github.com/account-authorizer/internal/validation/client"
	"github.com/account-authorizer/internal/validation/consumer"
	"github.com/account-authorizer/internal/validation/usecase"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("validation")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Validation Service",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize account store with app context
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := mongo.NewAccountRepository(log, mongoDB.Database())

	// Initialize the authorization RPC client; it serves both the balance
	// lookups and the forwarding of approved transactions
	authClient := client.NewAuthorizationClient(log, &cfg.Authorization)

	// Initialize validation pipeline
	transactionUsecase := usecase.NewTransactionUsecase(log, accountRepo, authClient, authClient)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Handler should be nil-safe.

	// Initialize command handler and Kafka consumer; the consumer owns the
	// worker pool that bounds how many commands are processed at once
	commandHandler := consumer.NewCommandHandler(log, transactionUsecase, dlqProducer)
	kafkaConsumer, err := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka, cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to initialize Kafka consumer", "error", err)
		os.Exit(1)
	}

	// Create error channel for service errors
	errChan := make(chan error, 1)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.CommandTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.CommandTopic, cfg.Kafka.ConsumerGroup, commandHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Validation Service shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Validation Service shutdown completed with errors")
	} else {
		log.Info("Validation Service shutdown completed successfully")
	}
}
