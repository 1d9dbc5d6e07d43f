package domain

import (
	"time"

	"github.com/orbitpay/ledger/internal/money"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusPaid     WithdrawalStatus = "paid"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal follows a two-phase reservation: the requested amount is frozen
// on application, then either unfrozen and debited on payout or unfrozen on
// rejection. Reserved funds can neither be spent twice nor vanish.
type Withdrawal struct {
	ID            string
	UserID        string
	Currency      string
	Chain         string
	ToAddress     string
	AmountRequest money.Decimal
	Fee           money.Decimal
	AmountActual  money.Decimal
	Status        WithdrawalStatus
	TxID          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
