package domain

import "errors"

var (
	// Ledger engine errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrInsufficientFrozen  = errors.New("insufficient frozen balance")
	ErrInvalidAmount       = errors.New("amount must be non-negative")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrEntryNotFound       = errors.New("ledger entry not found")
	ErrDuplicateEntry      = errors.New("ledger entry already exists for reference")

	// Transfer errors
	ErrTransferNotFound = errors.New("transfer not found")
	ErrSameAccountType  = errors.New("cannot transfer to the same account type")

	// Deposit errors
	ErrDepositNotFound         = errors.New("deposit not found")
	ErrDepositAlreadyProcessed = errors.New("deposit already processed")

	// Withdrawal errors
	ErrWithdrawalNotFound         = errors.New("withdrawal not found")
	ErrWithdrawalAlreadyProcessed = errors.New("withdrawal already processed")
	ErrWithdrawalNotApproved      = errors.New("withdrawal must be approved first")

	// Swap errors
	ErrSwapNotFound    = errors.New("swap not found")
	ErrSameCurrency    = errors.New("cannot swap a currency for itself")
	ErrRateUnavailable = errors.New("no exchange rate configured for pair")
)
