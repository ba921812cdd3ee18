package ledger

import "sync"

// accountLocks hands out one mutex per account number so the
// read-validate-write sequence for an account runs serialized, while
// operations on different accounts proceed independently.
type accountLocks struct {
	mu    sync.Mutex // protects the map itself
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (a *accountLocks) get(accountNumber string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[accountNumber]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[accountNumber] = lock
	}
	return lock
}
