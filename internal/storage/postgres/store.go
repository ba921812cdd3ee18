package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sheikh-saqib/account-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// Store is the postgres implementation of interfaces.LedgerStore.
// Cross-process serialization of balance changes relies on the row lock
// taken inside SaveBalanceChange; in-process serialization is the ledger
// service's job.
type Store struct {
	db *sql.DB
}

// Open connects to postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindUserByID(ctx context.Context, userID int64) (*models.AccountUser, error) {
	const query = `SELECT id, name, created_at, updated_at FROM account_users WHERE id = $1`

	var user models.AccountUser
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) SaveAccount(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		const query = `INSERT INTO accounts (user_id, account_number, balance, status, registered_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

		return s.db.QueryRowContext(ctx, query,
			account.UserID, account.AccountNumber, account.Balance, account.Status, account.RegisteredAt,
		).Scan(&account.ID)
	}

	const query = `UPDATE accounts SET balance = $1, status = $2, unregistered_at = $3 WHERE id = $4`

	_, err := s.db.ExecContext(ctx, query,
		account.Balance, account.Status, nullTime(account.UnregisteredAt), account.ID)
	return err
}

const accountColumns = `id, user_id, account_number, balance, status, registered_at, unregistered_at`

func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, accountNumber))
}

func (s *Store) FindAccountsByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		var unregisteredAt sql.NullTime
		if err := rows.Scan(&account.ID, &account.UserID, &account.AccountNumber,
			&account.Balance, &account.Status, &account.RegisteredAt, &unregisteredAt); err != nil {
			return nil, err
		}
		account.UnregisteredAt = unregisteredAt.Time
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *Store) CountActiveAccountsByUser(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM accounts WHERE user_id = $1 AND status = $2`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, models.AccountStatusInUse).Scan(&count)
	return count, err
}

func (s *Store) FindLatestAccountByUser(ctx context.Context, userID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id DESC LIMIT 1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, userID))
}

func (s *Store) scanAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	var unregisteredAt sql.NullTime
	err := row.Scan(&account.ID, &account.UserID, &account.AccountNumber,
		&account.Balance, &account.Status, &account.RegisteredAt, &unregisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	account.UnregisteredAt = unregisteredAt.Time
	return &account, nil
}

func (s *Store) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	return s.insertTransaction(ctx, s.db, transaction)
}

// rowQuerier lets the same insert run inside or outside a sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) insertTransaction(ctx context.Context, q rowQuerier, transaction *models.Transaction) error {
	const query = `INSERT INTO transactions
	(account_id, account_number, transaction_type, result_type, amount, balance_snapshot, transaction_id, original_transaction_id, transacted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	return q.QueryRowContext(ctx, query,
		transaction.AccountID, transaction.AccountNumber, transaction.Type, transaction.Result,
		transaction.Amount, transaction.BalanceSnapshot, transaction.TransactionID,
		nullString(transaction.OriginalTransactionID), transaction.TransactedAt,
	).Scan(&transaction.ID)
}

func (s *Store) FindTransactionByTxID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	const query = `SELECT id, account_id, account_number, transaction_type, result_type, amount,
	balance_snapshot, transaction_id, original_transaction_id, transacted_at
	FROM transactions WHERE transaction_id = $1`

	var tx models.Transaction
	var originalID sql.NullString
	err := s.db.QueryRowContext(ctx, query, transactionID).Scan(
		&tx.ID, &tx.AccountID, &tx.AccountNumber, &tx.Type, &tx.Result,
		&tx.Amount, &tx.BalanceSnapshot, &tx.TransactionID, &originalID, &tx.TransactedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	tx.OriginalTransactionID = originalID.String
	return &tx, nil
}

func (s *Store) CancelExists(ctx context.Context, originalTransactionID string) (bool, error) {
	const query = `SELECT 1 FROM transactions
	WHERE transaction_type = $1 AND result_type = $2 AND original_transaction_id = $3 LIMIT 1`

	var one int
	err := s.db.QueryRowContext(ctx, query,
		models.TransactionTypeCancel, models.TransactionResultSuccess, originalTransactionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveBalanceChange updates the account and appends the transaction in one
// database transaction, locking the account row first so concurrent writers
// from other processes queue behind it.
func (s *Store) SaveBalanceChange(ctx context.Context, account *models.Account, transaction *models.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	var locked int64
	err = dbTx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, account.ID).Scan(&locked)
	if err != nil {
		return err
	}

	_, err = dbTx.ExecContext(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, account.Balance, account.ID)
	if err != nil {
		return err
	}

	err = s.insertTransaction(ctx, dbTx, transaction)
	if err != nil {
		return err
	}
	return dbTx.Commit()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

var _ interfaces.LedgerStore = (*Store)(nil)
