package domain

import (
	"time"

	"github.com/orbitpay/ledger/internal/money"
)

type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusConfirmed DepositStatus = "confirmed"
	DepositStatusRejected  DepositStatus = "rejected"
)

// Deposit is the business record behind an on-chain or manual top-up. The
// spot account is credited only when the deposit is confirmed.
type Deposit struct {
	ID          string
	UserID      string
	Currency    string
	Chain       string
	Address     string
	Amount      money.Decimal
	Status      DepositStatus
	TxID        string
	ConfirmedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
