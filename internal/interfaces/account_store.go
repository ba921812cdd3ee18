package interfaces

import (
	"context"

	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// AccountStore is the durable home of users and accounts. Implementations
// return the domain not-found errors (models.ErrUserNotFound,
// models.ErrAccountNotFound) instead of leaking raw storage errors.
type AccountStore interface {
	// FindUserByID resolves a user; models.ErrUserNotFound if absent.
	FindUserByID(ctx context.Context, userID int64) (*models.AccountUser, error)

	// SaveAccount inserts the account when its ID is zero (assigning the
	// ID on the passed struct) and updates it otherwise.
	SaveAccount(ctx context.Context, account *models.Account) error

	// FindAccountByNumber resolves an account by its 10-digit number;
	// models.ErrAccountNotFound if absent.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)

	// FindAccountsByUser lists a user's accounts in storage order.
	FindAccountsByUser(ctx context.Context, userID int64) ([]models.Account, error)

	// CountActiveAccountsByUser counts the user's IN_USE accounts.
	// Retired accounts do not count against the per-user limit.
	CountActiveAccountsByUser(ctx context.Context, userID int64) (int, error)

	// FindLatestAccountByUser returns the user's most recently created
	// account (highest internal id); models.ErrAccountNotFound when the
	// user has none yet.
	FindLatestAccountByUser(ctx context.Context, userID int64) (*models.Account, error)
}
