package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sheikh-saqib/account-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// Store is an in-memory implementation of interfaces.LedgerStore. One
// mutex guards all maps; secondary indexes (account number, cancelled
// originals) are maintained alongside the primary records.
type Store struct {
	mu sync.Mutex

	userSeq int64
	users   map[int64]*models.AccountUser

	accountSeq      int64
	accounts        map[int64]*models.Account
	accountByNumber map[string]int64

	txSeq        int64
	transactions []*models.Transaction
	txByID       map[string]*models.Transaction
	cancelled    map[string]struct{} // original transactionIds with a SUCCESS CANCEL
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:           make(map[int64]*models.AccountUser),
		accounts:        make(map[int64]*models.Account),
		accountByNumber: make(map[string]int64),
		txByID:          make(map[string]*models.Transaction),
		cancelled:       make(map[string]struct{}),
	}
}

// PutUser registers a user. Users are created outside the ledger engine;
// this exists so the memory store can be seeded for development and tests.
func (s *Store) PutUser(name string) *models.AccountUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userSeq++
	now := time.Now()
	user := &models.AccountUser{ID: s.userSeq, Name: name, CreatedAt: now, UpdatedAt: now}
	s.users[user.ID] = user

	cp := *user
	return &cp
}

func (s *Store) FindUserByID(ctx context.Context, userID int64) (*models.AccountUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *Store) SaveAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveAccountLocked(account)
	return nil
}

func (s *Store) saveAccountLocked(account *models.Account) {
	if account.ID == 0 {
		s.accountSeq++
		account.ID = s.accountSeq
	}
	cp := *account
	s.accounts[cp.ID] = &cp
	s.accountByNumber[cp.AccountNumber] = cp.ID
}

func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.accountByNumber[accountNumber]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

func (s *Store) FindAccountsByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Account
	for _, account := range s.accounts {
		if account.UserID == userID {
			out = append(out, *account)
		}
	}
	// map iteration is unordered; present accounts in insertion order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountActiveAccountsByUser(ctx context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, account := range s.accounts {
		if account.UserID == userID && account.Status == models.AccountStatusInUse {
			count++
		}
	}
	return count, nil
}

func (s *Store) FindLatestAccountByUser(ctx context.Context, userID int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.Account
	for _, account := range s.accounts {
		if account.UserID != userID {
			continue
		}
		if latest == nil || account.ID > latest.ID {
			latest = account
		}
	}
	if latest == nil {
		return nil, models.ErrAccountNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *Store) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveTransactionLocked(transaction)
	return nil
}

func (s *Store) saveTransactionLocked(transaction *models.Transaction) {
	s.txSeq++
	transaction.ID = s.txSeq

	cp := *transaction
	s.transactions = append(s.transactions, &cp)
	s.txByID[cp.TransactionID] = &cp
	if cp.Type == models.TransactionTypeCancel && cp.Result == models.TransactionResultSuccess && cp.OriginalTransactionID != "" {
		s.cancelled[cp.OriginalTransactionID] = struct{}{}
	}
}

func (s *Store) FindTransactionByTxID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txByID[transactionID]
	if !ok {
		return nil, models.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *Store) CancelExists(ctx context.Context, originalTransactionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.cancelled[originalTransactionID]
	return ok, nil
}

// SaveBalanceChange commits the account update and the transaction append
// under one lock acquisition, so readers never observe one without the other.
func (s *Store) SaveBalanceChange(ctx context.Context, account *models.Account, transaction *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveAccountLocked(account)
	s.saveTransactionLocked(transaction)
	return nil
}

var _ interfaces.LedgerStore = (*Store)(nil)
