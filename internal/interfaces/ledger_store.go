package interfaces

import (
	"context"

	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// LedgerStore is what the balance ledger works against: both stores plus
// the atomic commit that keeps a balance mutation and its transaction
// record durable together, or not at all.
type LedgerStore interface {
	AccountStore
	TransactionStore

	// SaveBalanceChange persists the updated account and appends the
	// transaction as one unit of work.
	SaveBalanceChange(ctx context.Context, account *models.Account, transaction *models.Transaction) error
}
