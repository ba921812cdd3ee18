package events

import "time"

// TransactionRecorded is emitted after a successful use or cancel has been
// committed to the ledger.
type TransactionRecorded struct {
	TransactionID   string    `json:"transaction_id"`
	AccountNumber   string    `json:"account_number"`
	TransactionType string    `json:"transaction_type"`
	Amount          int64     `json:"amount"`
	BalanceSnapshot int64     `json:"balance_snapshot"`
	OccurredAt      time.Time `json:"occurred_at"`
}
