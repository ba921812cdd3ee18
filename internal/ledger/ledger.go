// Package ledger is the heart of the system: it applies use (debit) and
// cancel (credit) operations to account balances and appends one
// transaction record per validated attempt, success or failure.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/account-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-system/internal/models"
	"github.com/sheikh-saqib/account-ledger-system/internal/models/events"
)

// cancelWindow bounds how far back a use can be reversed. Exactly 365
// days old still cancels; older does not.
const cancelWindow = 365 * 24 * time.Hour

// eventTopic receives one event per committed balance change.
const eventTopic = "transaction_completed"

// Ledger mutates balances and writes the audit trail. It is the only
// component allowed to touch Account.Balance.
type Ledger struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher // nil disables event publishing
	logger    *slog.Logger
	locks     *accountLocks
	now       func() time.Time
}

// NewLedger constructs the balance ledger. publisher may be nil.
func NewLedger(store interfaces.LedgerStore, publisher interfaces.EventPublisher, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:     store,
		publisher: publisher,
		logger:    logger,
		locks:     newAccountLocks(),
		now:       time.Now,
	}
}

// WithNow overrides the clock for testing.
func (l *Ledger) WithNow(now func() time.Time) {
	if now != nil {
		l.now = now
	}
}

// UseBalance debits amount from the account after validating, in order:
// the user exists, the account exists, the user owns it, it is IN_USE,
// and the balance covers the amount. On success the new balance and a
// USE/SUCCESS record become durable together.
//
// A domain failure here writes nothing; the caller is expected to follow
// up with RecordFailedUse so the attempt still lands in the audit trail.
func (l *Ledger) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.Transaction, error) {
	lock := l.locks.get(accountNumber)
	lock.Lock()
	defer lock.Unlock()

	user, err := l.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, err := l.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if account.UserID != user.ID {
		return nil, models.ErrOwnerMismatch
	}
	if !account.Active() {
		return nil, models.ErrAccountNotActive
	}
	if amount > account.Balance {
		return nil, models.ErrInsufficientBalance
	}

	account.Balance -= amount
	tx := l.newTransaction(account, models.TransactionTypeUse, models.TransactionResultSuccess, amount)
	if err := l.store.SaveBalanceChange(ctx, account, tx); err != nil {
		return nil, err
	}

	l.publish(tx)
	return tx, nil
}

// RecordFailedUse appends a USE/FAIL record with the account's current,
// unchanged balance as the snapshot. If the account number no longer
// resolves, nothing is recorded and ErrAccountNotFound comes back.
func (l *Ledger) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) error {
	return l.recordFailure(ctx, accountNumber, models.TransactionTypeUse, amount)
}

// CancelBalance reverses a prior use in full, crediting the amount back.
// Partial cancellation is rejected, as is cancelling outside the one-year
// window, cancelling against the wrong account, re-cancelling an already
// reversed transaction, or crediting a retired account.
func (l *Ledger) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error) {
	lock := l.locks.get(accountNumber)
	lock.Lock()
	defer lock.Unlock()

	original, err := l.store.FindTransactionByTxID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	account, err := l.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if original.AccountID != account.ID {
		return nil, models.ErrTransactionAccountMismatch
	}
	if !account.Active() {
		// An unregistered account is frozen at zero; crediting it
		// would break that invariant.
		return nil, models.ErrAccountNotActive
	}
	if original.Amount != amount {
		return nil, models.ErrCancelMustBeFull
	}
	if l.now().Sub(original.TransactedAt) > cancelWindow {
		return nil, models.ErrCancelWindowExpired
	}

	cancelled, err := l.store.CancelExists(ctx, original.TransactionID)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, models.ErrTransactionAlreadyCancelled
	}

	account.Balance += amount
	tx := l.newTransaction(account, models.TransactionTypeCancel, models.TransactionResultSuccess, amount)
	tx.OriginalTransactionID = original.TransactionID
	if err := l.store.SaveBalanceChange(ctx, account, tx); err != nil {
		return nil, err
	}

	l.publish(tx)
	return tx, nil
}

// RecordFailedCancel appends a CANCEL/FAIL record, mirroring RecordFailedUse.
func (l *Ledger) RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) error {
	return l.recordFailure(ctx, accountNumber, models.TransactionTypeCancel, amount)
}

// QueryTransaction looks up one audit record by its opaque token.
func (l *Ledger) QueryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return l.store.FindTransactionByTxID(ctx, transactionID)
}

func (l *Ledger) recordFailure(ctx context.Context, accountNumber string, txType models.TransactionType, amount int64) error {
	lock := l.locks.get(accountNumber)
	lock.Lock()
	defer lock.Unlock()

	account, err := l.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}

	tx := l.newTransaction(account, txType, models.TransactionResultFail, amount)
	return l.store.SaveTransaction(ctx, tx)
}

func (l *Ledger) newTransaction(account *models.Account, txType models.TransactionType, result models.TransactionResult, amount int64) *models.Transaction {
	return &models.Transaction{
		AccountID:       account.ID,
		AccountNumber:   account.AccountNumber,
		Type:            txType,
		Result:          result,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactionID:   newTransactionID(),
		TransactedAt:    l.now(),
	}
}

// newTransactionID generates the externally visible token: a UUID with
// the dashes stripped.
func newTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// publish emits the committed transaction to the broker. Best effort: the
// ledger already committed, so a broker failure is logged and swallowed.
func (l *Ledger) publish(tx *models.Transaction) {
	if l.publisher == nil {
		return
	}
	event := events.TransactionRecorded{
		TransactionID:   tx.TransactionID,
		AccountNumber:   tx.AccountNumber,
		TransactionType: string(tx.Type),
		Amount:          tx.Amount,
		BalanceSnapshot: tx.BalanceSnapshot,
		OccurredAt:      tx.TransactedAt,
	}
	if err := l.publisher.Publish(eventTopic, event); err != nil {
		l.logger.Warn("publish transaction event failed",
			"transactionId", tx.TransactionID, "error", err)
	}
}
