package models

import "time"

// TransactionType distinguishes a balance debit from its reversal.
type TransactionType string

const (
	TransactionTypeUse    TransactionType = "USE"
	TransactionTypeCancel TransactionType = "CANCEL"
)

// TransactionResult records the outcome of one balance-affecting attempt.
type TransactionResult string

const (
	TransactionResultSuccess TransactionResult = "SUCCESS"
	TransactionResultFail    TransactionResult = "FAIL"
)

// Transaction is one immutable audit record: every validated use or cancel
// attempt produces exactly one, whether it succeeded or was rejected.
// Rows are append-only; nothing in the system updates or deletes them.
type Transaction struct {
	ID            int64
	AccountID     int64
	AccountNumber string
	Type          TransactionType
	Result        TransactionResult

	// Amount is the requested amount, regardless of outcome.
	Amount int64

	// BalanceSnapshot is the account balance right after a successful
	// application; for FAIL rows it is the untouched balance at attempt time.
	BalanceSnapshot int64

	// TransactionID is the externally visible opaque token, distinct from
	// the internal row id.
	TransactionID string

	// OriginalTransactionID links a successful CANCEL back to the USE it
	// reverses. Empty everywhere else.
	OriginalTransactionID string

	TransactedAt time.Time
}
