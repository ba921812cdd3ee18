package interfaces

import (
	"context"

	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// TransactionStore is the append-only home of transaction records.
type TransactionStore interface {
	// SaveTransaction appends one record, assigning its internal ID.
	SaveTransaction(ctx context.Context, transaction *models.Transaction) error

	// FindTransactionByTxID looks up a record by its opaque token;
	// models.ErrTransactionNotFound if absent.
	FindTransactionByTxID(ctx context.Context, transactionID string) (*models.Transaction, error)

	// CancelExists reports whether a successful CANCEL already references
	// the given original transaction token.
	CancelExists(ctx context.Context, originalTransactionID string) (bool, error)
}
