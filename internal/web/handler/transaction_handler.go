package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/account-authorizer/internal/httpapi"
	"github.com/account-authorizer/internal/web/service"
)

const maxProduceQuantity = 1000

// TransactionHandler handles HTTP requests that publish synthetic commands
type TransactionHandler struct {
	commands service.CommandService
	logger   *slog.Logger
}

// NewTransactionHandler creates a new transaction command handler
func NewTransactionHandler(logger *slog.Logger, commands service.CommandService) *TransactionHandler {
	return &TransactionHandler{
		commands: commands,
		logger:   logger,
	}
}

// ProduceCommands publishes a batch of random valid commands
func (h *TransactionHandler) ProduceCommands(c *gin.Context) {
	quantity, ok := h.parseQuantity(c)
	if !ok {
		return
	}

	published, err := h.commands.ProduceCommands(c.Request.Context(), quantity)
	if err != nil {
		h.respondProduceError(c, err)
		return
	}

	httpapi.RespondAccepted(c, ProducedResponse{Published: published})
}

// ProduceWithAmount publishes a single command with a caller-chosen amount
func (h *TransactionHandler) ProduceWithAmount(c *gin.Context) {
	amountParam := c.Query("amount")
	amount, err := decimal.NewFromString(amountParam)
	if err != nil {
		httpapi.RespondBadRequest(c, "amount must be a decimal number")
		return
	}

	cmd, err := h.commands.ProduceWithAmount(c.Request.Context(), amount)
	if err != nil {
		h.respondProduceError(c, err)
		return
	}

	httpapi.RespondAccepted(c, mapCommandToResponse(cmd))
}

// ProduceErrorCommands publishes a batch of deliberately malformed commands
func (h *TransactionHandler) ProduceErrorCommands(c *gin.Context) {
	quantity, ok := h.parseQuantity(c)
	if !ok {
		return
	}

	published, err := h.commands.ProduceErrorCommands(c.Request.Context(), quantity)
	if err != nil {
		h.respondProduceError(c, err)
		return
	}

	httpapi.RespondAccepted(c, ProducedResponse{Published: published})
}

func (h *TransactionHandler) parseQuantity(c *gin.Context) (int, bool) {
	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity <= 0 || quantity > maxProduceQuantity {
		httpapi.RespondBadRequest(c, "quantity must be an integer between 1 and "+strconv.Itoa(maxProduceQuantity))
		return 0, false
	}
	return quantity, true
}

// respondProduceError maps the empty-population case to a client error; the
// caller has to generate accounts before producing commands.
func (h *TransactionHandler) respondProduceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoAccounts) {
		httpapi.RespondBadRequest(c, service.ErrNoAccounts.Error())
		return
	}
	h.logger.Error("Failed to produce commands", "error", err)
	httpapi.RespondInternalError(c)
}
