package handler

import "github.com/account-authorizer/internal/domain/balance"

// CurrentBalanceResponse represents the derived balance view in API responses.
// Amounts are fixed to two decimal places with banker's rounding.
type CurrentBalanceResponse struct {
	AccountID       string `json:"accountId"`
	CurrentBalance  string `json:"currentBalance"`
	DailyTransacted string `json:"dailyTransacted"`
}

func mapCurrentBalanceToResponse(cb *balance.CurrentBalance) CurrentBalanceResponse {
	return CurrentBalanceResponse{
		AccountID:       cb.AccountID.String(),
		CurrentBalance:  cb.CurrentBalance.StringFixedBank(2),
		DailyTransacted: cb.DailyTransacted.StringFixedBank(2),
	}
}
