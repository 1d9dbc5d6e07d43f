package domain

import (
	"time"

	"github.com/orbitpay/ledger/internal/money"
)

// Swap records a confirmed spot currency conversion with the rate that was
// quoted to the user. The debit of the source currency and the credit of the
// destination currency are written in one transaction.
type Swap struct {
	ID           string
	UserID       string
	FromCurrency string
	ToCurrency   string
	RateSnapshot money.Decimal
	AmountFrom   money.Decimal
	AmountTo     money.Decimal
	CreatedAt    time.Time
}
