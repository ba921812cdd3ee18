package account

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"

	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// maxAccountNumber is the largest value that still renders as 10 digits.
const maxAccountNumber = 9_999_999_999

// allocateNumber produces a 10-digit account number (first digit 1-9) that
// no account holds yet. Numbers for the same user trend sequential: the
// candidate starts at the user's most recent account number plus one, or a
// random seed when the user has none. Global uniqueness is enforced by an
// explicit recheck; a collision bumps the candidate and tries again.
func (s *Service) allocateNumber(ctx context.Context, userID int64) (string, error) {
	var candidate int64

	latest, err := s.store.FindLatestAccountByUser(ctx, userID)
	switch {
	case err == nil:
		candidate, err = strconv.ParseInt(latest.AccountNumber, 10, 64)
		if err != nil {
			return "", err
		}
		candidate++
	case errors.Is(err, models.ErrAccountNotFound):
		candidate = s.rng.seedNumber()
	default:
		return "", err
	}

	for {
		// Incrementing past all-9s leaves the 10-digit space. Nothing
		// can be allocated from there; callers see this as fatal.
		if candidate > maxAccountNumber {
			return "", models.ErrAllocationExhausted
		}

		number := strconv.FormatInt(candidate, 10)
		_, err := s.store.FindAccountByNumber(ctx, number)
		if errors.Is(err, models.ErrAccountNotFound) {
			return number, nil
		}
		if err != nil {
			return "", err
		}
		candidate++
	}
}

// lockedRand serializes access to a rand.Rand, which is not safe for
// concurrent use on its own.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// seedNumber synthesizes a starting candidate: a leading digit in 1-9
// followed by 9 random decimal digits.
func (l *lockedRand) seedNumber() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	first := int64(l.rng.Intn(9) + 1)
	rest := l.rng.Int63n(1_000_000_000)
	return first*1_000_000_000 + rest
}
