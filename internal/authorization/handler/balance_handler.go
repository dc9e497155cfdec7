package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/account-authorizer/internal/authorization/service"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/httpapi"
)

// BalanceHandler handles HTTP requests for the current-balance aggregator
type BalanceHandler struct {
	balanceService service.CurrentBalanceService
	logger         *slog.Logger
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(logger *slog.Logger, balanceService service.CurrentBalanceService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
		logger:         logger,
	}
}

// Get returns the account's current balance together with the amount
// transacted today, returning 404 if no balance row exists
func (h *BalanceHandler) Get(c *gin.Context) {
	idParam := c.Param("accountId")
	accountID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "account_id", idParam, "error", err)
		httpapi.RespondBadRequest(c, "Invalid account ID")
		return
	}

	cb, err := h.balanceService.AccountCurrentBalance(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, balance.ErrBalanceNotFound{}) {
			httpapi.RespondNotFound(c, "Balance not found")
			return
		}
		h.logger.Error("Failed to get current balance", "account_id", idParam, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	httpapi.RespondOK(c, mapCurrentBalanceToResponse(cb))
}
