// Package consumer bridges the Kafka command stream and the validation
// pipeline, deciding per message whether to commit, dead-letter, or leave it
// for redelivery.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/account-authorizer/internal/platform/messaging/producers"
	"github.com/account-authorizer/internal/validation/usecase"
)

// CommandHandler handles incoming transaction command messages from Kafka
type CommandHandler struct {
	usecase  usecase.TransactionUsecase
	producer producers.DeadLetterPublisher
	logger   *slog.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(
	logger *slog.Logger,
	uc usecase.TransactionUsecase,
	producer producers.DeadLetterPublisher,
) *CommandHandler {
	return &CommandHandler{
		usecase:  uc,
		producer: producer,
		logger:   logger,
	}
}

// HandleMessage processes one command message. The return value drives the
// commit decision: nil commits the offset (processed or dead-lettered), an
// error leaves the message for broker redelivery. A recoverable rejection is
// published to the DLQ with the original payload untouched; if that publish
// fails the message must not be committed, so the failure is returned.
func (h *CommandHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var cmd transaction.Command
	if err := json.Unmarshal(value, &cmd); err != nil {
		h.logger.Error("Failed to unmarshal transaction command",
			"error", err,
			"message_key", string(key),
		)
		return h.deadLetter(ctx, key, value, transaction.ErrInvalidPayload(err))
	}

	txn, err := cmd.ToTransaction()
	if err != nil {
		h.logger.Warn("Malformed transaction command",
			"message_key", string(key),
			"transaction_id", cmd.TransactionID,
			"error", err,
		)
		return h.classify(ctx, key, value, err)
	}

	h.logger.Debug("Received transaction command",
		"transaction_id", txn.TransactionID.String(),
		"account_id", txn.AccountID.String(),
		"type", string(txn.Type),
	)

	if err := h.usecase.ExecuteTransaction(ctx, &txn); err != nil {
		return h.classify(ctx, key, value, err)
	}

	h.logger.Info("Successfully processed transaction command",
		"transaction_id", txn.TransactionID.String(),
	)
	return nil // Success, commit offset
}

// classify routes a pipeline error: recoverable rejections go to the DLQ,
// everything else propagates so the message is redelivered.
func (h *CommandHandler) classify(ctx context.Context, key, value []byte, err error) error {
	var rejection *transaction.RejectionError
	if errors.As(err, &rejection) && rejection.Recoverable {
		return h.deadLetter(ctx, key, value, rejection)
	}
	return err
}

func (h *CommandHandler) deadLetter(ctx context.Context, key, value []byte, rejection *transaction.RejectionError) error {
	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, string(rejection.Code)); dlqErr != nil {
		h.logger.Error("Failed to publish rejected command to DLQ",
			"dlq_error", dlqErr,
			"rejection", string(rejection.Code),
			"message_key", string(key),
		)
		// The message must stay uncommitted until the DLQ accepts it.
		return fmt.Errorf("failed to dead-letter rejected command (%s): %w", rejection.Code, dlqErr)
	}

	h.logger.Info("Rejected command published to DLQ",
		"message_key", string(key),
		"rejection", string(rejection.Code),
	)
	return nil // Dead-lettered, commit offset
}
