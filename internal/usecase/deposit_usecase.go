package usecase

import (
	"context"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/money"
)

// DepositUseCase tracks on-chain deposits and credits the spot account when
// a deposit is confirmed. Confirmation is the step that moves money: a
// pending deposit has no ledger effect.
type DepositUseCase struct {
	txManager   TransactionManager
	depositRepo DepositRepository
	outboxRepo  OutboxRepository
	ledger      *LedgerUseCase
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewDepositUseCase creates a new DepositUseCase.
func NewDepositUseCase(
	txManager TransactionManager,
	depositRepo DepositRepository,
	outboxRepo OutboxRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *DepositUseCase {
	return &DepositUseCase{
		txManager:   txManager,
		depositRepo: depositRepo,
		outboxRepo:  outboxRepo,
		ledger:      ledger,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateDepositParams describes an observed incoming transfer.
type CreateDepositParams struct {
	UserID   string
	Currency string
	Chain    string
	Address  string
	Amount   money.Decimal
	TxID     string
}

// Create records a pending deposit.
func (uc *DepositUseCase) Create(ctx context.Context, p CreateDepositParams) (*domain.Deposit, error) {
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

	now := time.Now().UTC()
	deposit := &domain.Deposit{
		ID:        uc.idGen.Generate(),
		UserID:    p.UserID,
		Currency:  currency,
		Chain:     p.Chain,
		Address:   p.Address,
		Amount:    p.Amount.Round(money.Scale),
		Status:    domain.DepositStatusPending,
		TxID:      p.TxID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}

	return deposit, nil
}

// Confirm marks a pending deposit confirmed and credits the user's spot
// account in the same transaction. Confirming twice is rejected, so the
// credit happens at most once per deposit.
func (uc *DepositUseCase) Confirm(ctx context.Context, depositID string) (*domain.Deposit, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deposit, err := uc.depositRepo.GetByIDForUpdate(txCtx, tx, depositID)
	if err != nil {
		return nil, err
	}

	if deposit.Status != domain.DepositStatusPending {
		return nil, domain.ErrDepositAlreadyProcessed
	}

	now := time.Now().UTC()
	deposit.Status = domain.DepositStatusConfirmed
	deposit.ConfirmedAt = &now
	deposit.UpdatedAt = now

	if err := uc.depositRepo.Update(txCtx, tx, deposit); err != nil {
		return nil, err
	}

	entry, err := uc.ledger.CreditTx(txCtx, tx, MovementParams{
		UserID:      deposit.UserID,
		AccountType: domain.AccountTypeSpot,
		Currency:    deposit.Currency,
		Amount:      deposit.Amount,
		BizType:     domain.BizTypeDeposit,
		RefID:       deposit.ID,
		Metadata:    map[string]any{"chain": deposit.Chain, "tx_id": deposit.TxID},
	})
	if err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   deposit.ID,
		AggregateType: domain.AggregateTypeDeposit,
		EventType:     domain.EventTypeDepositConfirmed,
		Payload: map[string]any{
			"deposit_id": deposit.ID,
			"user_id":    deposit.UserID,
			"currency":   deposit.Currency,
			"amount":     deposit.Amount.String(),
			"entry_id":   entry.ID,
			"tx_id":      deposit.TxID,
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
		uc.metrics.DepositsConfirmed.WithLabelValues(deposit.Currency).Inc()
	}

	return deposit, nil
}

// Reject marks a pending deposit rejected. No balance is touched.
func (uc *DepositUseCase) Reject(ctx context.Context, depositID string) (*domain.Deposit, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deposit, err := uc.depositRepo.GetByIDForUpdate(txCtx, tx, depositID)
	if err != nil {
		return nil, err
	}

	if deposit.Status != domain.DepositStatusPending {
		return nil, domain.ErrDepositAlreadyProcessed
	}

	deposit.Status = domain.DepositStatusRejected
	deposit.UpdatedAt = time.Now().UTC()

	if err := uc.depositRepo.Update(txCtx, tx, deposit); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return deposit, nil
}

// GetByID returns a deposit by id.
func (uc *DepositUseCase) GetByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return uc.depositRepo.GetByID(ctx, depositID)
}

// ListByUser returns the user's deposits, newest first.
func (uc *DepositUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Deposit, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	limit, offset = clampPagination(limit, offset)

	return uc.depositRepo.ListByUser(ctx, userID, limit, offset)
}
