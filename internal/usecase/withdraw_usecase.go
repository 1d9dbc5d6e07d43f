package usecase

import (
	"context"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/money"
)

// WithdrawUseCase runs the withdrawal lifecycle. Applying freezes the
// requested amount on the spot account so the funds cannot be spent while
// the request is reviewed; paying unfreezes and debits in one transaction;
// rejecting only unfreezes. The fee is computed at apply time from the
// configured rate and deducted from the amount actually sent out.
type WithdrawUseCase struct {
	txManager      TransactionManager
	withdrawalRepo WithdrawalRepository
	outboxRepo     OutboxRepository
	ledger         *LedgerUseCase
	config         *ConfigUseCase
	idGen          IDGenerator
	metrics        *metrics.Metrics
	defaultFeeRate money.Decimal
}

// NewWithdrawUseCase creates a new WithdrawUseCase. defaultFeeRate is the
// percentage used when no WITHDRAW_FEE_RATE config is set.
func NewWithdrawUseCase(
	txManager TransactionManager,
	withdrawalRepo WithdrawalRepository,
	outboxRepo OutboxRepository,
	ledger *LedgerUseCase,
	config *ConfigUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	defaultFeeRate money.Decimal,
) *WithdrawUseCase {
	return &WithdrawUseCase{
		txManager:      txManager,
		withdrawalRepo: withdrawalRepo,
		outboxRepo:     outboxRepo,
		ledger:         ledger,
		config:         config,
		idGen:          idGen,
		metrics:        metrics,
		defaultFeeRate: defaultFeeRate,
	}
}

// ApplyParams describes a withdrawal request.
type ApplyParams struct {
	UserID    string
	Currency  string
	Chain     string
	ToAddress string
	Amount    money.Decimal
}

// Apply records a withdrawal request and freezes the requested amount on
// the user's spot account. The frozen amount covers the fee: the user
// receives Amount minus fee on payout.
func (uc *WithdrawUseCase) Apply(ctx context.Context, p ApplyParams) (*domain.Withdrawal, error) {
	if err := domain.ValidateUserID(p.UserID); err != nil {
		return nil, err
	}

	currency, err := domain.NormalizeCurrency(p.Currency)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePositiveAmount(p.Amount); err != nil {
		return nil, err
	}

	amount := p.Amount.Round(money.Scale)

	if min := uc.config.WithdrawMinAmount(ctx); amount.LessThan(min) {
		return nil, domain.ErrInvalidAmount
	}

	feeRate := uc.config.WithdrawFeeRate(ctx, uc.defaultFeeRate)
	fee := amount.Percentage(feeRate, money.Scale)
	actual := amount.Sub(fee)

	if !actual.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	withdrawal := &domain.Withdrawal{
		ID:            uc.idGen.Generate(),
		UserID:        p.UserID,
		Currency:      currency,
		Chain:         p.Chain,
		ToAddress:     p.ToAddress,
		AmountRequest: amount,
		Fee:           fee,
		AmountActual:  actual,
		Status:        domain.WithdrawalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.withdrawalRepo.Create(txCtx, tx, withdrawal); err != nil {
		return nil, err
	}

	err = uc.ledger.FreezeTx(txCtx, tx, MovementParams{
		UserID:      p.UserID,
		AccountType: domain.AccountTypeSpot,
		Currency:    currency,
		Amount:      amount,
		BizType:     domain.BizTypeWithdraw,
		RefID:       withdrawal.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return withdrawal, nil
}

// Approve moves a pending withdrawal to approved. Balances are untouched;
// the freeze from Apply still holds the funds.
func (uc *WithdrawUseCase) Approve(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	return uc.transition(ctx, withdrawalID, domain.WithdrawalStatusPending, domain.WithdrawalStatusApproved, "")
}

// Pay settles an approved withdrawal: the frozen amount is released and the
// full requested amount (payout plus fee) is debited, all in one
// transaction. The on-chain transaction id is recorded on the withdrawal.
func (uc *WithdrawUseCase) Pay(ctx context.Context, withdrawalID, txID string) (*domain.Withdrawal, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	withdrawal, err := uc.withdrawalRepo.GetByIDForUpdate(txCtx, tx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if withdrawal.Status != domain.WithdrawalStatusApproved {
		return nil, domain.ErrWithdrawalNotApproved
	}

	now := time.Now().UTC()

	err = uc.ledger.UnfreezeTx(txCtx, tx, MovementParams{
		UserID:      withdrawal.UserID,
		AccountType: domain.AccountTypeSpot,
		Currency:    withdrawal.Currency,
		Amount:      withdrawal.AmountRequest,
		BizType:     domain.BizTypeWithdraw,
		RefID:       withdrawal.ID,
	})
	if err != nil {
		return nil, err
	}

	entry, err := uc.ledger.DebitTx(txCtx, tx, MovementParams{
		UserID:      withdrawal.UserID,
		AccountType: domain.AccountTypeSpot,
		Currency:    withdrawal.Currency,
		Amount:      withdrawal.AmountRequest,
		BizType:     domain.BizTypeWithdraw,
		RefID:       withdrawal.ID,
		Metadata:    map[string]any{"fee": withdrawal.Fee.String(), "tx_id": txID},
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = domain.WithdrawalStatusPaid
	withdrawal.TxID = txID
	withdrawal.UpdatedAt = now

	if err := uc.withdrawalRepo.Update(txCtx, tx, withdrawal); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   withdrawal.ID,
		AggregateType: domain.AggregateTypeWithdrawal,
		EventType:     domain.EventTypeWithdrawalPaid,
		Payload: map[string]any{
			"withdrawal_id": withdrawal.ID,
			"user_id":       withdrawal.UserID,
			"currency":      withdrawal.Currency,
			"amount_actual": withdrawal.AmountActual.String(),
			"fee":           withdrawal.Fee.String(),
			"entry_id":      entry.ID,
			"tx_id":         txID,
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsPaid.WithLabelValues(withdrawal.Currency).Inc()
	}

	return withdrawal, nil
}

// Reject refuses a pending or approved withdrawal and releases the frozen
// funds back to available. No ledger entry is written.
func (uc *WithdrawUseCase) Reject(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	withdrawal, err := uc.withdrawalRepo.GetByIDForUpdate(txCtx, tx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if withdrawal.Status != domain.WithdrawalStatusPending && withdrawal.Status != domain.WithdrawalStatusApproved {
		return nil, domain.ErrWithdrawalAlreadyProcessed
	}

	err = uc.ledger.UnfreezeTx(txCtx, tx, MovementParams{
		UserID:      withdrawal.UserID,
		AccountType: domain.AccountTypeSpot,
		Currency:    withdrawal.Currency,
		Amount:      withdrawal.AmountRequest,
		BizType:     domain.BizTypeWithdraw,
		RefID:       withdrawal.ID,
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = domain.WithdrawalStatusRejected
	withdrawal.UpdatedAt = time.Now().UTC()

	if err := uc.withdrawalRepo.Update(txCtx, tx, withdrawal); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return withdrawal, nil
}

// GetByID returns a withdrawal by id.
func (uc *WithdrawUseCase) GetByID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	return uc.withdrawalRepo.GetByID(ctx, withdrawalID)
}

// ListByUser returns the user's withdrawals, newest first.
func (uc *WithdrawUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Withdrawal, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	limit, offset = clampPagination(limit, offset)

	return uc.withdrawalRepo.ListByUser(ctx, userID, limit, offset)
}

func (uc *WithdrawUseCase) transition(ctx context.Context, id string, from, to domain.WithdrawalStatus, txID string) (*domain.Withdrawal, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	withdrawal, err := uc.withdrawalRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if withdrawal.Status != from {
		return nil, domain.ErrWithdrawalAlreadyProcessed
	}

	withdrawal.Status = to
	if txID != "" {
		withdrawal.TxID = txID
	}
	withdrawal.UpdatedAt = time.Now().UTC()

	if err := uc.withdrawalRepo.Update(txCtx, tx, withdrawal); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return withdrawal, nil
}
