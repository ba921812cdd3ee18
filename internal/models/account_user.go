package models

import "time"

// AccountUser is the identity that owns zero or more accounts.
// Users are created outside the ledger; the engine only resolves them.
type AccountUser struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
