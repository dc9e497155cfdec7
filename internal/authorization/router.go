package authorization

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/account-authorizer/internal/authorization/handler"
	"github.com/account-authorizer/internal/middleware"
)

// setupRouter configures API routes and middleware for the authorization service
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	balanceHandler *handler.BalanceHandler,
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
			accounts.GET("/:accountId/balance", balanceHandler.Get)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("/execute", transactionHandler.Execute)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
