package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/account-authorizer/internal/domain/account"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/httpapi"
	"github.com/account-authorizer/internal/web/service"
)

// Generation batches above this size take long enough to matter; the cap
// keeps a single request from monopolizing the stores.
const maxBatchQuantity = 1000

// AccountHandler handles HTTP requests for account generation and inspection
type AccountHandler struct {
	generator service.GeneratorService
	logger    *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, generator service.GeneratorService) *AccountHandler {
	return &AccountHandler{
		generator: generator,
		logger:    logger,
	}
}

// CreateBatch generates a batch of synthetic accounts with balances and history
func (h *AccountHandler) CreateBatch(c *gin.Context) {
	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity <= 0 || quantity > maxBatchQuantity {
		httpapi.RespondBadRequest(c, "quantity must be an integer between 1 and "+strconv.Itoa(maxBatchQuantity))
		return
	}

	accounts, err := h.generator.CreateBatch(c.Request.Context(), quantity)
	if err != nil {
		h.logger.Error("Failed to generate accounts", "quantity", quantity, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		resp = append(resp, AccountResponse{
			AccountID:  acc.AccountID.String(),
			CreatedAt:  acc.CreatedAt,
			IsActive:   acc.IsActive,
			DailyLimit: acc.DailyLimit.StringFixedBank(2),
		})
	}
	httpapi.RespondCreated(c, resp)
}

// Get returns one account together with its balance and recent transactions
func (h *AccountHandler) Get(c *gin.Context) {
	idParam := c.Param("accountId")
	accountID, err := uuid.Parse(idParam)
	if err != nil {
		httpapi.RespondBadRequest(c, "Invalid account ID")
		return
	}

	details, err := h.generator.Get(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) || errors.Is(err, balance.ErrBalanceNotFound{}) {
			httpapi.RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "account_id", idParam, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	httpapi.RespondOK(c, mapDetailsToResponse(details))
}

// All lists every generated account with its balance
func (h *AccountHandler) All(c *gin.Context) {
	details, err := h.generator.All(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	resp := make([]AccountResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, mapDetailsToResponse(d))
	}
	httpapi.RespondOK(c, resp)
}
