package transaction

import (
	"fmt"

	"github.com/google/uuid"
)

// RejectionCode identifies why a transaction was rejected by the validation
// pipeline.
type RejectionCode string

const (
	RejectionInvalidPayload    RejectionCode = "INVALID_PAYLOAD"
	RejectionInvalidAmount     RejectionCode = "INVALID_AMOUNT"
	RejectionInvalidType       RejectionCode = "INVALID_TRANSACTION_TYPE"
	RejectionLimitReached      RejectionCode = "LIMIT_REACHED"
	RejectionInactiveAccount   RejectionCode = "INACTIVE_ACCOUNT"
	RejectionInsufficientFunds RejectionCode = "INSUFFICIENT_FUNDS"
)

// RejectionError is raised by a validation step. Recoverable is decided at
// construction: recoverable rejections are policy violations that will never
// succeed and are dead-lettered; everything else is left to broker redelivery
// because it may reflect a race or not-yet-settled upstream state.
type RejectionError struct {
	Code          RejectionCode
	AccountID     uuid.UUID
	TransactionID uuid.UUID
	Recoverable   bool
	Cause         error
}

func (e *RejectionError) Error() string {
	msg := fmt.Sprintf("transaction rejected (%s): account=%s transaction=%s", e.Code, e.AccountID, e.TransactionID)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RejectionError) Unwrap() error {
	return e.Cause
}

// Is matches rejection errors by code
func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ErrInvalidPayload marks a message whose body could not be decoded into a
// transaction command
func ErrInvalidPayload(cause error) *RejectionError {
	return &RejectionError{Code: RejectionInvalidPayload, Recoverable: true, Cause: cause}
}

// ErrInvalidAmount marks a command whose amount is not strictly positive
func ErrInvalidAmount(accountID, transactionID uuid.UUID) *RejectionError {
	return &RejectionError{Code: RejectionInvalidAmount, AccountID: accountID, TransactionID: transactionID, Recoverable: true}
}

// ErrInvalidType marks a command whose type is outside the known enum
func ErrInvalidType(cause error) *RejectionError {
	return &RejectionError{Code: RejectionInvalidType, Recoverable: true, Cause: cause}
}

// ErrLimitReached marks a command that would exceed the account's daily limit
func ErrLimitReached(accountID, transactionID uuid.UUID) *RejectionError {
	return &RejectionError{Code: RejectionLimitReached, AccountID: accountID, TransactionID: transactionID, Recoverable: true}
}

// ErrInactiveAccount marks a command against a deactivated account. Not
// recoverable: the account may be reactivated before redelivery.
func ErrInactiveAccount(accountID uuid.UUID) *RejectionError {
	return &RejectionError{Code: RejectionInactiveAccount, AccountID: accountID}
}

// ErrInsufficientFunds marks a command the current balance cannot cover. Not
// recoverable: a concurrent credit may land before redelivery.
func ErrInsufficientFunds(accountID, transactionID uuid.UUID) *RejectionError {
	return &RejectionError{Code: RejectionInsufficientFunds, AccountID: accountID, TransactionID: transactionID}
}
