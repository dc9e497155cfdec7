package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/account-authorizer/internal/middleware"
	"github.com/account-authorizer/internal/web/handler"
)

// setupRouter configures API routes and middleware for the web service
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("/create-batch", accountHandler.CreateBatch)
			accounts.GET("/:accountId", accountHandler.Get)
			accounts.GET("", accountHandler.All)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("/produce-commands", transactionHandler.ProduceCommands)
			transactions.POST("/produce-with-amount", transactionHandler.ProduceWithAmount)
			transactions.POST("/produce-error-commands", transactionHandler.ProduceErrorCommands)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
