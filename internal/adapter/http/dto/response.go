package dto

import (
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Type      string        `json:"type"`
	Currency  string        `json:"currency"`
	Available money.Decimal `json:"available"`
	Frozen    money.Decimal `json:"frozen"`
	Total     money.Decimal `json:"total"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Type:      string(a.Type),
		Currency:  a.Currency,
		Available: a.Available,
		Frozen:    a.Frozen,
		Total:     a.Total(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AssetsResponse represents per-currency totals across account types.
type AssetsResponse struct {
	Currency  string        `json:"currency"`
	Available money.Decimal `json:"available"`
	Frozen    money.Decimal `json:"frozen"`
	Total     money.Decimal `json:"total"`
}

// AssetsFromUseCase converts the assets summary to responses.
func AssetsFromUseCase(assets []usecase.CurrencyAssets) []*AssetsResponse {
	result := make([]*AssetsResponse, len(assets))
	for i, a := range assets {
		result[i] = &AssetsResponse{
			Currency:  a.Currency,
			Available: a.Available,
			Frozen:    a.Frozen,
			Total:     a.Total,
		}
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	AccountID    string         `json:"account_id"`
	Currency     string         `json:"currency"`
	Amount       money.Decimal  `json:"amount"`
	BalanceAfter money.Decimal  `json:"balance_after"`
	BizType      string         `json:"biz_type"`
	RefID        string         `json:"ref_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		AccountID:    e.AccountID,
		Currency:     e.Currency,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		BizType:      string(e.BizType),
		RefID:        e.RefID,
		Metadata:     e.Metadata,
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// DepositResponse represents a deposit in API responses.
type DepositResponse struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Currency    string        `json:"currency"`
	Chain       string        `json:"chain,omitempty"`
	Address     string        `json:"address,omitempty"`
	Amount      money.Decimal `json:"amount"`
	Status      string        `json:"status"`
	TxID        string        `json:"tx_id,omitempty"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// DepositFromDomain converts domain deposit to response.
func DepositFromDomain(d *domain.Deposit) *DepositResponse {
	return &DepositResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Currency:    d.Currency,
		Chain:       d.Chain,
		Address:     d.Address,
		Amount:      d.Amount,
		Status:      string(d.Status),
		TxID:        d.TxID,
		ConfirmedAt: d.ConfirmedAt,
		CreatedAt:   d.CreatedAt,
	}
}

// DepositsFromDomain converts domain deposits to responses.
func DepositsFromDomain(deposits []*domain.Deposit) []*DepositResponse {
	result := make([]*DepositResponse, len(deposits))
	for i, d := range deposits {
		result[i] = DepositFromDomain(d)
	}
	return result
}

// WithdrawalResponse represents a withdrawal in API responses.
type WithdrawalResponse struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Currency      string        `json:"currency"`
	Chain         string        `json:"chain,omitempty"`
	ToAddress     string        `json:"to_address"`
	AmountRequest money.Decimal `json:"amount_request"`
	Fee           money.Decimal `json:"fee"`
	AmountActual  money.Decimal `json:"amount_actual"`
	Status        string        `json:"status"`
	TxID          string        `json:"tx_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// WithdrawalFromDomain converts domain withdrawal to response.
func WithdrawalFromDomain(w *domain.Withdrawal) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		Currency:      w.Currency,
		Chain:         w.Chain,
		ToAddress:     w.ToAddress,
		AmountRequest: w.AmountRequest,
		Fee:           w.Fee,
		AmountActual:  w.AmountActual,
		Status:        string(w.Status),
		TxID:          w.TxID,
		CreatedAt:     w.CreatedAt,
	}
}

// WithdrawalsFromDomain converts domain withdrawals to responses.
func WithdrawalsFromDomain(withdrawals []*domain.Withdrawal) []*WithdrawalResponse {
	result := make([]*WithdrawalResponse, len(withdrawals))
	for i, w := range withdrawals {
		result[i] = WithdrawalFromDomain(w)
	}
	return result
}

// TransferResponse represents an internal transfer in API responses.
type TransferResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Currency  string        `json:"currency"`
	FromType  string        `json:"from_type"`
	ToType    string        `json:"to_type"`
	Amount    money.Decimal `json:"amount"`
	CreatedAt time.Time     `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.InternalTransfer) *TransferResponse {
	return &TransferResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Currency:  t.Currency,
		FromType:  string(t.FromType),
		ToType:    string(t.ToType),
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.InternalTransfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// SwapResponse represents a swap in API responses.
type SwapResponse struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	FromCurrency string        `json:"from_currency"`
	ToCurrency   string        `json:"to_currency"`
	Rate         money.Decimal `json:"rate"`
	AmountFrom   money.Decimal `json:"amount_from"`
	AmountTo     money.Decimal `json:"amount_to"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SwapFromDomain converts domain swap to response.
func SwapFromDomain(s *domain.Swap) *SwapResponse {
	return &SwapResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		FromCurrency: s.FromCurrency,
		ToCurrency:   s.ToCurrency,
		Rate:         s.RateSnapshot,
		AmountFrom:   s.AmountFrom,
		AmountTo:     s.AmountTo,
		CreatedAt:    s.CreatedAt,
	}
}

// SwapsFromDomain converts domain swaps to responses.
func SwapsFromDomain(swaps []*domain.Swap) []*SwapResponse {
	result := make([]*SwapResponse, len(swaps))
	for i, s := range swaps {
		result[i] = SwapFromDomain(s)
	}
	return result
}

// QuoteResponse represents a priced swap quote.
type QuoteResponse struct {
	FromCurrency string        `json:"from_currency"`
	ToCurrency   string        `json:"to_currency"`
	Rate         money.Decimal `json:"rate"`
	AmountFrom   money.Decimal `json:"amount_from"`
	AmountTo     money.Decimal `json:"amount_to"`
}

// QuoteFromUseCase converts a quote to response.
func QuoteFromUseCase(q *usecase.Quote) *QuoteResponse {
	return &QuoteResponse{
		FromCurrency: q.FromCurrency,
		ToCurrency:   q.ToCurrency,
		Rate:         q.Rate,
		AmountFrom:   q.AmountFrom,
		AmountTo:     q.AmountTo,
	}
}

// VerificationResponse represents a balance consistency check result.
type VerificationResponse struct {
	AccountID  string        `json:"account_id"`
	Available  money.Decimal `json:"available"`
	Frozen     money.Decimal `json:"frozen"`
	EntrySum   money.Decimal `json:"entry_sum"`
	Difference money.Decimal `json:"difference"`
	Consistent bool          `json:"consistent"`
	CheckedAt  time.Time     `json:"checked_at"`
}

// VerificationFromUseCase converts a verification result to response.
func VerificationFromUseCase(v *usecase.VerificationResult) *VerificationResponse {
	return &VerificationResponse{
		AccountID:  v.AccountID,
		Available:  v.Available,
		Frozen:     v.Frozen,
		EntrySum:   v.EntrySum,
		Difference: v.Difference,
		Consistent: v.Consistent,
		CheckedAt:  v.CheckedAt,
	}
}

// ConfigResponse represents a configuration entry.
type ConfigResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
