package domain

import (
	"time"

	"github.com/orbitpay/ledger/internal/money"
)

// InternalTransfer records a same-user, same-currency move between account
// types (spot <-> contract). Both ledger legs and this record are written in
// one transaction.
type InternalTransfer struct {
	ID        string
	UserID    string
	Currency  string
	FromType  AccountType
	ToType    AccountType
	Amount    money.Decimal
	CreatedAt time.Time
}

// Validate checks the transfer invariants that hold before any locking.
func (t *InternalTransfer) Validate() error {
	if t.FromType == t.ToType {
		return ErrSameAccountType
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}
