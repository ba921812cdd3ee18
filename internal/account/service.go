// Package account manages the account lifecycle: creation with a freshly
// allocated account number, retirement, and listing. Balances are only
// ever mutated by the ledger package.
package account

import (
	"context"
	"math/rand"
	"time"

	"github.com/sheikh-saqib/account-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// maxAccountsPerUser caps IN_USE accounts per owner. Unregistered
// accounts do not count.
const maxAccountsPerUser = 10

// Service is the account lifecycle manager.
type Service struct {
	store interfaces.AccountStore
	rng   *lockedRand
	now   func() time.Time
}

// NewService constructs the lifecycle manager. rng seeds the account
// number allocator; pass a fixed-seed source for deterministic tests, or
// nil to seed from the clock.
func NewService(store interfaces.AccountStore, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store: store,
		rng:   &lockedRand{rng: rng},
		now:   time.Now,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateAccount opens a new IN_USE account for the user with the given
// starting balance and a newly allocated account number.
func (s *Service) CreateAccount(ctx context.Context, userID, initialBalance int64) (*models.Account, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountActiveAccountsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if count >= maxAccountsPerUser {
		return nil, models.ErrMaxAccountPerUser
	}

	number, err := s.allocateNumber(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:        user.ID,
		AccountNumber: number,
		Balance:       initialBalance,
		Status:        models.AccountStatusInUse,
		RegisteredAt:  s.now(),
	}
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount retires an account. Validation order is fixed: ownership,
// then status, then balance.
func (s *Service) DeleteAccount(ctx context.Context, userID int64, accountNumber string) (*models.Account, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, err := s.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if account.UserID != user.ID {
		return nil, models.ErrOwnerMismatch
	}
	if account.Status == models.AccountStatusUnregistered {
		return nil, models.ErrAlreadyUnregistered
	}
	if account.Balance > 0 {
		return nil, models.ErrBalanceNotEmpty
	}

	account.Status = models.AccountStatusUnregistered
	account.UnregisteredAt = s.now()
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts returns the user's accounts in storage order.
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.FindAccountsByUser(ctx, user.ID)
}
