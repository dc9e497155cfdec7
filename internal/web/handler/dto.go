package handler

import (
	"time"

	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/account-authorizer/internal/web/service"
)

// AccountResponse represents a generated account in API responses
type AccountResponse struct {
	AccountID      string                `json:"accountId"`
	CreatedAt      time.Time             `json:"createdAt"`
	IsActive       bool                  `json:"isActive"`
	DailyLimit     string                `json:"dailyLimit"`
	CurrentBalance string                `json:"currentBalance,omitempty"`
	Transactions   []TransactionResponse `json:"transactions,omitempty"`
}

// TransactionResponse represents a transaction log entry in API responses
type TransactionResponse struct {
	TransactionID  string    `json:"transactionId"`
	Amount         string    `json:"amount"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	CurrentBalance string    `json:"currentBalance"`
}

// CommandResponse echoes a published command back to the caller
type CommandResponse struct {
	TransactionID string    `json:"transactionId"`
	AccountID     string    `json:"accountId"`
	Amount        string    `json:"amount"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
}

// ProducedResponse reports how many commands were published
type ProducedResponse struct {
	Published int `json:"published"`
}

func mapDetailsToResponse(d *service.AccountDetails) AccountResponse {
	resp := AccountResponse{
		AccountID:  d.Account.AccountID.String(),
		CreatedAt:  d.Account.CreatedAt,
		IsActive:   d.Account.IsActive,
		DailyLimit: d.Account.DailyLimit.StringFixedBank(2),
	}
	if d.Balance != nil {
		resp.CurrentBalance = d.Balance.Amount.StringFixedBank(2)
	}
	for _, txn := range d.Transactions {
		resp.Transactions = append(resp.Transactions, mapTransactionToResponse(txn))
	}
	return resp
}

func mapTransactionToResponse(txn *transaction.AccountTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  txn.TransactionID.String(),
		Amount:         txn.Amount.StringFixedBank(2),
		Type:           string(txn.Type),
		Timestamp:      txn.Timestamp,
		CurrentBalance: txn.CurrentBalance.StringFixedBank(2),
	}
}

func mapCommandToResponse(cmd *transaction.Command) CommandResponse {
	return CommandResponse{
		TransactionID: cmd.TransactionID,
		AccountID:     cmd.AccountID,
		Amount:        cmd.Amount.StringFixedBank(2),
		Type:          cmd.Type,
		Timestamp:     cmd.Timestamp,
	}
}
