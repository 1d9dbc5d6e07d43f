package dto

import (
	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
)

// CreateDepositRequest represents a request to record an incoming deposit.
type CreateDepositRequest struct {
	UserID   string        `json:"user_id"`
	Currency string        `json:"currency"`
	Chain    string        `json:"chain"`
	Address  string        `json:"address"`
	Amount   money.Decimal `json:"amount"`
	TxID     string        `json:"tx_id"`
}

// ToUseCaseParams converts to use case params.
func (r *CreateDepositRequest) ToUseCaseParams() usecase.CreateDepositParams {
	return usecase.CreateDepositParams{
		UserID:   r.UserID,
		Currency: r.Currency,
		Chain:    r.Chain,
		Address:  r.Address,
		Amount:   r.Amount,
		TxID:     r.TxID,
	}
}

// CreateWithdrawalRequest represents a withdrawal application.
type CreateWithdrawalRequest struct {
	UserID    string        `json:"user_id"`
	Currency  string        `json:"currency"`
	Chain     string        `json:"chain"`
	ToAddress string        `json:"to_address"`
	Amount    money.Decimal `json:"amount"`
}

// ToUseCaseParams converts to use case params.
func (r *CreateWithdrawalRequest) ToUseCaseParams() usecase.ApplyParams {
	return usecase.ApplyParams{
		UserID:    r.UserID,
		Currency:  r.Currency,
		Chain:     r.Chain,
		ToAddress: r.ToAddress,
		Amount:    r.Amount,
	}
}

// PayWithdrawalRequest carries the payout transaction reference.
type PayWithdrawalRequest struct {
	TxID string `json:"tx_id"`
}

// CreateTransferRequest represents an internal transfer between account types.
type CreateTransferRequest struct {
	UserID   string        `json:"user_id"`
	Currency string        `json:"currency"`
	FromType string        `json:"from_type"`
	ToType   string        `json:"to_type"`
	Amount   money.Decimal `json:"amount"`
}

// ToUseCaseParams converts to use case params.
func (r *CreateTransferRequest) ToUseCaseParams() usecase.TransferParams {
	return usecase.TransferParams{
		UserID:   r.UserID,
		Currency: r.Currency,
		FromType: domain.AccountType(r.FromType),
		ToType:   domain.AccountType(r.ToType),
		Amount:   r.Amount,
	}
}

// SwapRequest represents a swap quote or execution request.
type SwapRequest struct {
	UserID       string        `json:"user_id"`
	FromCurrency string        `json:"from_currency"`
	ToCurrency   string        `json:"to_currency"`
	AmountFrom   money.Decimal `json:"amount_from"`
}

// ToUseCaseParams converts to use case params.
func (r *SwapRequest) ToUseCaseParams() usecase.SwapParams {
	return usecase.SwapParams{
		UserID:       r.UserID,
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		AmountFrom:   r.AmountFrom,
	}
}

// GrantRewardRequest represents a reward grant.
type GrantRewardRequest struct {
	UserID   string        `json:"user_id"`
	Currency string        `json:"currency"`
	Amount   money.Decimal `json:"amount"`
	RefID    string        `json:"ref_id"`
	Reason   string        `json:"reason"`
}

// ToUseCaseParams converts to use case params.
func (r *GrantRewardRequest) ToUseCaseParams() usecase.GrantParams {
	return usecase.GrantParams{
		UserID:   r.UserID,
		Currency: r.Currency,
		Amount:   r.Amount,
		RefID:    r.RefID,
		Reason:   r.Reason,
	}
}

// SetConfigRequest sets a system configuration value.
type SetConfigRequest struct {
	Value string `json:"value"`
}
