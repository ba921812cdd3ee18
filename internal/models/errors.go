package models

// Error is a domain failure with a stable code. The code crosses the HTTP
// boundary unchanged so callers can branch on it without parsing messages.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// The full failure taxonomy of the ledger. Everything below is propagated
// to the caller unmodified; nothing is retried internally.
var (
	ErrUserNotFound    = &Error{Code: "USER_NOT_FOUND", Message: "user not found"}
	ErrAccountNotFound = &Error{Code: "ACCOUNT_NOT_FOUND", Message: "account not found"}
	ErrOwnerMismatch   = &Error{Code: "OWNER_MISMATCH", Message: "account is not owned by this user"}

	// ErrAccountNotActive covers already-retired accounts encountered
	// during a balance operation.
	ErrAccountNotActive = &Error{Code: "ACCOUNT_NOT_ACTIVE", Message: "account is not in use"}

	ErrBalanceNotEmpty     = &Error{Code: "BALANCE_NOT_EMPTY", Message: "account balance is not zero"}
	ErrAlreadyUnregistered = &Error{Code: "ALREADY_UNREGISTERED", Message: "account is already unregistered"}
	ErrMaxAccountPerUser   = &Error{Code: "MAX_ACCOUNT_PER_USER", Message: "user already has the maximum number of accounts"}
	ErrInsufficientBalance = &Error{Code: "INSUFFICIENT_BALANCE", Message: "amount exceeds account balance"}

	ErrTransactionNotFound         = &Error{Code: "TRANSACTION_NOT_FOUND", Message: "transaction not found"}
	ErrTransactionAccountMismatch  = &Error{Code: "TRANSACTION_ACCOUNT_MISMATCH", Message: "transaction does not belong to this account"}
	ErrCancelMustBeFull            = &Error{Code: "CANCEL_MUST_BE_FULL", Message: "partial cancellation is not allowed"}
	ErrCancelWindowExpired         = &Error{Code: "CANCEL_WINDOW_EXPIRED", Message: "transaction is too old to cancel"}
	ErrTransactionAlreadyCancelled = &Error{Code: "TRANSACTION_ALREADY_CANCELLED", Message: "transaction has already been cancelled"}

	// ErrAllocationExhausted is fatal: the allocator ran past the
	// 10-digit account number space.
	ErrAllocationExhausted = &Error{Code: "ALLOCATION_EXHAUSTED", Message: "account number space exhausted"}
)
