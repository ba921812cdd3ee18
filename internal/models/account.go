package models

import "time"

// AccountStatus marks whether an account can still take balance changes.
type AccountStatus string

const (
	AccountStatusInUse        AccountStatus = "IN_USE"
	AccountStatusUnregistered AccountStatus = "UNREGISTERED"
)

// Account is a single balance-bearing account. Balance is held in the
// smallest currency unit and must never go negative. An account is never
// physically deleted; retirement flips the status to UNREGISTERED, which
// also freezes the balance at zero.
type Account struct {
	ID             int64
	UserID         int64
	AccountNumber  string // 10 decimal digits, first digit 1-9, globally unique
	Balance        int64
	Status         AccountStatus
	RegisteredAt   time.Time
	UnregisteredAt time.Time // zero until the account is retired
}

// Active reports whether the account still accepts balance changes.
func (a *Account) Active() bool {
	return a.Status == AccountStatusInUse
}
