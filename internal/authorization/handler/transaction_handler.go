package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/account-authorizer/internal/authorization/service"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/account-authorizer/internal/httpapi"
)

// TransactionHandler handles HTTP requests for transaction execution
type TransactionHandler struct {
	executeService service.ExecuteTransactionService
	logger         *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, executeService service.ExecuteTransactionService) *TransactionHandler {
	return &TransactionHandler{
		executeService: executeService,
		logger:         logger,
	}
}

// Execute applies a validated transaction to the account's balance.
// Responds 204 on success and 404 when the balance row is missing; anything
// else (including a lost CAS race or a publish failure) is a 500 so the
// caller leaves the command uncommitted for redelivery.
func (h *TransactionHandler) Execute(c *gin.Context) {
	var cmd transaction.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		httpapi.RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txn, err := cmd.ToTransaction()
	if err != nil {
		h.logger.Error("Malformed transaction", "transaction_id", cmd.TransactionID, "error", err)
		httpapi.RespondBadRequest(c, "Malformed transaction: "+err.Error())
		return
	}

	if err := h.executeService.ExecuteTransaction(c.Request.Context(), &txn); err != nil {
		if errors.Is(err, balance.ErrBalanceNotFound{}) {
			httpapi.RespondNotFound(c, "Balance not found")
			return
		}
		h.logger.Error("Failed to execute transaction",
			"transaction_id", cmd.TransactionID,
			"account_id", cmd.AccountID,
			"error", err,
		)
		httpapi.RespondInternalError(c)
		return
	}

	httpapi.RespondNoContent(c)
}
