package usecase

import (
	"context"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/money"
)

// LedgerUseCase is the ledger engine: the only code path that mutates
// account balances. Each primitive (credit, debit, freeze, unfreeze) runs
// a read-modify-write under a row-level lock.
// Credit and debit append a ledger entry; freeze and unfreeze only reshape
// a balance between available and frozen.
//
// Every primitive comes in two forms: the plain form opens and commits its
// own transaction, the *Tx form joins a caller-owned transaction so
// composite operations (transfer, swap, withdrawal payout) can make
// multi-leg moves atomically.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// MovementParams describes one credit or debit.
type MovementParams struct {
	UserID      string
	AccountType domain.AccountType
	Currency    string
	Amount      money.Decimal
	BizType     domain.BizType
	RefID       string
	Metadata    map[string]any
}

func (p MovementParams) key() domain.AccountKey {
	return domain.AccountKey{UserID: p.UserID, Type: p.AccountType, Currency: p.Currency}
}

func (p MovementParams) validate() error {
	if err := domain.ValidateUserID(p.UserID); err != nil {
		return err
	}

	if _, err := domain.ParseAccountType(string(p.AccountType)); err != nil {
		return err
	}

	if p.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}

	return domain.ValidateMetadata(p.Metadata)
}

// Credit increases the available balance of the account for
// (user, type, currency), creating the account with zero balances on first
// credit. Returns the appended ledger entry.
func (uc *LedgerUseCase) Credit(ctx context.Context, p MovementParams) (*domain.LedgerEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.CreditTx(txCtx, tx, p)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return entry, nil
}

// CreditTx is Credit inside a caller-owned transaction.
func (uc *LedgerUseCase) CreditTx(ctx context.Context, tx Transaction, p MovementParams) (*domain.LedgerEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	amount := p.Amount.Round(money.Scale)
	now := time.Now().UTC()

	// Credit is the one primitive allowed to create the account. The
	// get-or-create must be an upsert so concurrent first deposits to the
	// same triple cannot produce duplicates.
	account, err := uc.accountRepo.GetOrCreateForUpdate(ctx, tx, uc.idGen.Generate(), p.key(), now)
	if err != nil {
		return nil, err
	}

	newAvailable := account.Available.Add(amount)
	if err := uc.accountRepo.UpdateBalances(ctx, tx, account.ID, newAvailable, account.Frozen, now); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:           uc.idGen.Generate(),
		UserID:       p.UserID,
		AccountID:    account.ID,
		Currency:     p.Currency,
		Amount:       amount,
		BalanceAfter: newAvailable,
		BizType:      p.BizType,
		RefID:        p.RefID,
		Metadata:     p.Metadata,
		CreatedAt:    now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerOperations.WithLabelValues("credit", string(p.BizType)).Inc()
	}

	return entry, nil
}

// Debit decreases the available balance. The account must already exist and
// cover the amount; no partial mutation survives a failure.
func (uc *LedgerUseCase) Debit(ctx context.Context, p MovementParams) (*domain.LedgerEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.DebitTx(txCtx, tx, p)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return entry, nil
}

// DebitTx is Debit inside a caller-owned transaction.
func (uc *LedgerUseCase) DebitTx(ctx context.Context, tx Transaction, p MovementParams) (*domain.LedgerEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	amount := p.Amount.Round(money.Scale)
	now := time.Now().UTC()

	account, err := uc.accountRepo.GetByKeyForUpdate(ctx, tx, p.key())
	if err != nil {
		return nil, err
	}

	if err := account.CanDebit(amount); err != nil {
		return nil, err
	}

	newAvailable := account.Available.Sub(amount)
	if err := uc.accountRepo.UpdateBalances(ctx, tx, account.ID, newAvailable, account.Frozen, now); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:           uc.idGen.Generate(),
		UserID:       p.UserID,
		AccountID:    account.ID,
		Currency:     p.Currency,
		Amount:       amount.Neg(),
		BalanceAfter: newAvailable,
		BizType:      p.BizType,
		RefID:        p.RefID,
		Metadata:     p.Metadata,
		CreatedAt:    now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerOperations.WithLabelValues("debit", string(p.BizType)).Inc()
	}

	return entry, nil
}

// Freeze moves amount from available to frozen on an existing account. The
// total balance is unchanged and no ledger entry is written: a freeze is a
// reservation, not a net asset movement.
func (uc *LedgerUseCase) Freeze(ctx context.Context, p MovementParams) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.FreezeTx(txCtx, tx, p); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// FreezeTx is Freeze inside a caller-owned transaction.
func (uc *LedgerUseCase) FreezeTx(ctx context.Context, tx Transaction, p MovementParams) error {
	if err := p.validate(); err != nil {
		return err
	}

	amount := p.Amount.Round(money.Scale)
	now := time.Now().UTC()

	account, err := uc.accountRepo.GetByKeyForUpdate(ctx, tx, p.key())
	if err != nil {
		return err
	}

	if err := account.CanFreeze(amount); err != nil {
		return err
	}

	newAvailable := account.Available.Sub(amount)
	newFrozen := account.Frozen.Add(amount)

	if err := uc.accountRepo.UpdateBalances(ctx, tx, account.ID, newAvailable, newFrozen, now); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerOperations.WithLabelValues("freeze", string(p.BizType)).Inc()
	}

	return nil
}

// Unfreeze moves amount from frozen back to available.
func (uc *LedgerUseCase) Unfreeze(ctx context.Context, p MovementParams) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.UnfreezeTx(txCtx, tx, p); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// UnfreezeTx is Unfreeze inside a caller-owned transaction.
func (uc *LedgerUseCase) UnfreezeTx(ctx context.Context, tx Transaction, p MovementParams) error {
	if err := p.validate(); err != nil {
		return err
	}

	amount := p.Amount.Round(money.Scale)
	now := time.Now().UTC()

	account, err := uc.accountRepo.GetByKeyForUpdate(ctx, tx, p.key())
	if err != nil {
		return err
	}

	if err := account.CanUnfreeze(amount); err != nil {
		return err
	}

	newAvailable := account.Available.Add(amount)
	newFrozen := account.Frozen.Sub(amount)

	if err := uc.accountRepo.UpdateBalances(ctx, tx, account.ID, newAvailable, newFrozen, now); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerOperations.WithLabelValues("unfreeze", string(p.BizType)).Inc()
	}

	return nil
}

// VerificationResult reports whether an account's entry history reconstructs
// its current balance.
type VerificationResult struct {
	AccountID  string
	Available  money.Decimal
	Frozen     money.Decimal
	EntrySum   money.Decimal
	Difference money.Decimal
	Consistent bool
	CheckedAt  time.Time
}

// VerifyAccount replays the entry history of the account for key and checks
// it against the stored balance. Freezes do not write entries, so the sum of
// entry amounts must equal available plus frozen.
func (uc *LedgerUseCase) VerifyAccount(ctx context.Context, key domain.AccountKey) (*VerificationResult, error) {
	account, err := uc.accountRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	sum, err := uc.entryRepo.SumByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	diff := account.Total().Sub(sum)

	return &VerificationResult{
		AccountID:  account.ID,
		Available:  account.Available,
		Frozen:     account.Frozen,
		EntrySum:   sum,
		Difference: diff,
		Consistent: diff.IsZero(),
		CheckedAt:  time.Now().UTC(),
	}, nil
}
