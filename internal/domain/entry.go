package domain

import (
	"time"

	"github.com/orbitpay/ledger/internal/money"
)

// BizType classifies the business operation behind a ledger entry. The
// engine stores it verbatim; unknown values round-trip untouched so audit
// history survives new business types.
type BizType string

const (
	BizTypeDeposit  BizType = "deposit"
	BizTypeWithdraw BizType = "withdraw"
	BizTypeTransfer BizType = "transfer"
	BizTypeSwap     BizType = "swap"
	BizTypeReward   BizType = "reward"
)

// LedgerEntry is an immutable record of one net-asset-changing movement
// against an account. Positive amounts increase the available balance,
// negative amounts decrease it. BalanceAfter snapshots the available
// balance immediately after the movement was applied, so the entry history
// of an account always reconstructs its current balance exactly.
//
// Freeze and unfreeze do not produce entries: they reshape a balance
// between available and frozen without changing the total.
type LedgerEntry struct {
	ID           string
	UserID       string
	AccountID    string
	Currency     string
	Amount       money.Decimal
	BalanceAfter money.Decimal
	BizType      BizType
	RefID        string
	Metadata     map[string]any
	CreatedAt    time.Time
}
